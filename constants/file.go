package constants

import (
	"path/filepath"
	"strings"
)

// AllowedImageExtensions holds the image extensions accepted for
// receipt/screenshot attachment and OCR.
var AllowedImageExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"bmp":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsImagePath reports whether the path carries a supported image extension.
func IsImagePath(path string) bool {
	_, ok := AllowedImageExtensions[NormalizeExt(filepath.Ext(path))]
	return ok
}
