package httputil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const maxFilenameLen = 120

// SanitizeFilename turns a user-supplied title into a safe attachment name.
// Accented characters are decomposed first so "café" survives as "cafe"
// rather than vanishing with the rest of the non-ASCII range. Filesystem
// hostile characters become hyphens, whitespace collapses, and the result is
// capped at 120 characters. An empty result becomes "download".
func SanitizeFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case strings.ContainsRune(`/\?%*:|"<>`, r):
			b.WriteRune('-')
		case r >= 0x20 && r <= 0x7e:
			b.WriteRune(r)
		default:
			// Non-printable or non-ASCII after decomposition: drop it.
		}
	}

	collapsed := strings.Join(strings.FieldsFunc(b.String(), unicode.IsSpace), " ")
	if len(collapsed) > maxFilenameLen {
		collapsed = collapsed[:maxFilenameLen]
		collapsed = strings.TrimSpace(collapsed)
	}
	if collapsed == "" {
		return "download"
	}
	return collapsed
}

// AttachmentName joins a sanitized title with the fallback extension for the
// requested media kind.
func AttachmentName(title, ext string) string {
	return SanitizeFilename(title) + "." + ext
}
