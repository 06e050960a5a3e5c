package s3

import (
	"path"
	"strings"
)

// contentTypes is the complete lookup table. The host's mime tables are not
// consulted, so a key maps to the same type on every machine.
var contentTypes = map[string]string{
	".pdf":      "application/pdf",
	".html":     "text/html",
	".htm":      "text/html",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".json":     "application/json",
	".txt":      "text/plain",
	".csv":      "text/csv",
	".xml":      "application/xml",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".js":       "application/javascript",
	".css":      "text/css",
	".png":      "image/png",
	".jpg":      "image/jpeg",
	".jpeg":     "image/jpeg",
	".gif":      "image/gif",
	".svg":      "image/svg+xml",
	".webp":     "image/webp",
	".zip":      "application/zip",
	".gz":       "application/gzip",
	".tar":      "application/x-tar",
	".mp4":      "video/mp4",
	".mp3":      "audio/mpeg",
	".wasm":     "application/wasm",
	".doc":      "application/msword",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":      "application/vnd.ms-excel",
	".xlsx":     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":      "application/vnd.ms-powerpoint",
	".pptx":     "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".rtf":      "application/rtf",
	".ico":      "image/x-icon",
	".bmp":      "image/bmp",
	".tif":      "image/tiff",
	".tiff":     "image/tiff",
	".avif":     "image/avif",
	".wav":      "audio/wav",
	".ogg":      "audio/ogg",
	".webm":     "video/webm",
	".mov":      "video/quicktime",
	".woff":     "font/woff",
	".woff2":    "font/woff2",
	".ttf":      "font/ttf",
	".7z":       "application/x-7z-compressed",
	".bz2":      "application/x-bzip2",
	".mjs":      "text/javascript",
	".ics":      "text/calendar",
}

// ContentTypeFor infers a media type from the key's extension. It reports
// false when the key has no extension or the extension is unknown.
func ContentTypeFor(key string) (string, bool) {
	ext := strings.ToLower(path.Ext(key))
	if ext == "" || ext == "." {
		return "", false
	}

	ct, ok := contentTypes[ext]
	return ct, ok
}
