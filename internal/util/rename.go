// Package util holds small file system helpers shared by the renamer and the
// undo journal.
package util

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrExists is returned when a rename target is already present.
var ErrExists = errors.New("destination already exists")

// Exists reports whether anything, including a dangling symlink, is at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// CaseChange reports whether renaming a to b only changes the letter case of
// one directory entry, as seen on case-insensitive file systems where both
// names resolve to the same file. Symlinks are not followed and other hard
// links to the same inode do not count.
func CaseChange(a, b string) bool {
	if !strings.EqualFold(filepath.Base(a), filepath.Base(b)) {
		return false
	}
	ai, err := os.Lstat(a)
	if err != nil {
		return false
	}
	bi, err := os.Lstat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// RenameNoReplace renames oldpath to newpath and never replaces an existing
// newpath. Where the kernel supports it the check and the rename are one
// atomic step; elsewhere the check runs just before the rename. When both
// paths differ only in case and name the same entry the rename proceeds.
func RenameNoReplace(oldpath, newpath string) error {
	if Exists(newpath) && !CaseChange(oldpath, newpath) {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: ErrExists}
	}
	return renameNoReplace(oldpath, newpath)
}
