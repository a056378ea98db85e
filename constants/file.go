package constants

import "strings"

// AllowedExtensions holds the input extensions the pipeline accepts.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"tif":  {},
	"tiff": {},
}

// AsyncExtensions holds the formats the asynchronous expense-analysis API
// supports; everything else goes through the synchronous call.
var AsyncExtensions = map[string]struct{}{
	"pdf":  {},
	"tif":  {},
	"tiff": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AllowedExt reports whether a normalized extension is accepted.
func AllowedExt(ext string) bool {
	_, ok := AllowedExtensions[ext]
	return ok
}

// AsyncExt reports whether a normalized extension requires the async API.
func AsyncExt(ext string) bool {
	_, ok := AsyncExtensions[ext]
	return ok
}

// ContentTypeForExt maps a normalized extension to its MIME type.
func ContentTypeForExt(ext string) string {
	switch ext {
	case "pdf":
		return "application/pdf"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "tif", "tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
