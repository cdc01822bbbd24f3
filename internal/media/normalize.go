package media

import (
	"net/url"
	"strings"
)

// NormalizeSourceURL canonicalizes shorthand and mobile URL forms before any
// extraction happens. A missing scheme gets https prefixed; known short forms
// are rewritten to the canonical page URL. Parse failures are non-fatal: the
// trimmed, scheme-prefixed input comes back unchanged.
func NormalizeSourceURL(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}
	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Hostname() == "" {
		return trimmed
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")

	switch host {
	case "youtu.be":
		if id := firstPathSegment(parsed.Path); id != "" {
			return "https://www.youtube.com/watch?v=" + id
		}
	case "youtube.com":
		parts := pathSegments(parsed.Path)
		if len(parts) >= 2 && parts[0] == "shorts" {
			return "https://www.youtube.com/watch?v=" + parts[1]
		}
	case "instagram.com":
		parts := pathSegments(parsed.Path)
		if len(parts) >= 2 && parts[0] == "reel" {
			return "https://www.instagram.com/reel/" + parts[1] + "/"
		}
	}

	return trimmed
}

func pathSegments(p string) []string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func firstPathSegment(p string) string {
	if segs := pathSegments(p); len(segs) > 0 {
		return segs[0]
	}
	return ""
}
