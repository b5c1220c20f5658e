package core

import (
	"path/filepath"
	"strings"
)

// fractionSlash stands in for path separators inside episode titles
// ("24/7" becomes "24⁄7") so a title never introduces a directory.
const fractionSlash = '⁄'

func separatorChars() string {
	if filepath.Separator == '/' {
		return "/"
	}
	return "/" + string(filepath.Separator)
}

func replaceSeparators(name string) string {
	seps := separatorChars()
	if !strings.ContainsAny(name, seps) {
		return name
	}

	var b strings.Builder
	b.Grow(len(name) + 2)
	for _, r := range name {
		if strings.ContainsRune(seps, r) {
			b.WriteRune(fractionSlash)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
