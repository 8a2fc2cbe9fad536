package config

import (
	"path/filepath"
	"strings"
)

// CleanFileName drops characters the platform does not allow in a file name
// and leading dots.
func CleanFileName(in string) string {
	out := strings.TrimLeft(strings.Map(func(r rune) rune {
		if r == 0 || strings.ContainsRune(reservedNameChars, r) {
			return -1
		}
		return r
	}, in), ".")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}

// ReportName names the report entry for a file kept under dir.
func ReportName(dir, path string) string {
	return dir + "/" + CleanFileName(filepath.Base(path))
}
