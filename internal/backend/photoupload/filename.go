package photoupload

import (
	"fmt"
	"strings"
	"time"
)

const timestampLayout = "20060102_150405"

var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

// extension returns the lower-cased text after the last dot, or "" when there is none.
func extension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// IsAllowedFile reports whether filename carries one of the accepted image extensions.
func IsAllowedFile(filename string) bool {
	_, ok := allowedExtensions[extension(filename)]
	return ok
}

// SanitizeFilename keeps the last path segment and maps every rune outside
// [A-Za-z0-9._-] to '_'. Leading dots and underscores are trimmed so the
// result can never be "." or "..".
func SanitizeFilename(filename string) string {
	if idx := strings.LastIndexAny(filename, `/\`); idx >= 0 {
		filename = filename[idx+1:]
	}

	var b strings.Builder
	b.Grow(len(filename))
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.TrimLeft(b.String(), "._")
}

// BlobName builds "{userID}_{timestamp}_{sanitized}" for an upload.
func BlobName(userID int64, now time.Time, original string) string {
	sanitized := SanitizeFilename(original)
	if sanitized == "" || extension(sanitized) == "" {
		sanitized = "upload." + extension(original)
	}
	return fmt.Sprintf("%d_%s_%s", userID, now.Format(timestampLayout), sanitized)
}
