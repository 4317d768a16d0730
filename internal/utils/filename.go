package utils

import (
	"path"
	"regexp"
	"strings"
)

const maxFilenameLength = 200

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes a client- or URL-supplied name safe to log, store
// as asset metadata and echo back in API responses. Path components are
// dropped. It returns "" when nothing usable remains so callers can pick
// their own fallback.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = path.Base(filename)
	if filename == "." || filename == "/" || filename == ".." {
		return ""
	}

	// Control characters (newlines, tabs) become spaces before the rest is stripped
	filename = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, filename)
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)
	filename = strings.TrimLeft(filename, ".")

	if len(filename) > maxFilenameLength {
		ext := path.Ext(filename)
		if len(ext) > 10 {
			ext = ""
		}
		stem := strings.TrimSuffix(filename, ext)
		filename = strings.TrimSpace(stem[:maxFilenameLength-len(ext)]) + ext
	}

	return filename
}
