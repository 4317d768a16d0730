package richtext

import (
	"regexp"
	"strings"
)

const (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"
)

var (
	captionShortcode = regexp.MustCompile(`(?is)\[caption[^\]]*\](.*?)\[/caption\]`)
	galleryShortcode = regexp.MustCompile(`(?i)\[gallery[^\]]*\]`)
	anyShortcode     = regexp.MustCompile(`\[/?[A-Za-z_][\w-]*[^\]]*\]`)
)

// StripArtifacts removes WordPress markup artifacts before parsing: the CDATA
// envelope, caption wrappers (keeping their inner content), galleries and any
// other bracket shortcodes. It works on text only and tolerates broken markup.
func StripArtifacts(s string) string {
	s = stripCDATA(s)
	s = captionShortcode.ReplaceAllString(s, "$1")
	s = galleryShortcode.ReplaceAllString(s, "")
	return anyShortcode.ReplaceAllString(s, "")
}

// stripCDATA removes one leading open marker and one trailing close marker.
// Markers in the middle of the text are left alone.
func stripCDATA(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, cdataOpen) && !strings.HasSuffix(trimmed, cdataClose) {
		return s
	}
	trimmed = strings.TrimPrefix(trimmed, cdataOpen)
	return strings.TrimSuffix(trimmed, cdataClose)
}
