//go:build !linux

package util

import "os"

func renameNoReplace(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}
