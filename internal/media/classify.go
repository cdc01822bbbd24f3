package media

import (
	"net/url"
	"strings"
)

// CDN hosts that serve raw media even when the URL carries no recognizable
// extension.
var directHostSnippets = []string{
	"videos.openai.com/az/files",
	"cdn.openai.com",
	"oaidalleapiprodscus",
	"googlevideo.com",
}

var (
	videoExts = []string{".mp4", ".webm", ".mov"}
	imageExts = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}
	fileExts  = []string{".mp4", ".webm", ".mov", ".jpg", ".jpeg", ".png"}
)

// IsDirectFileURL reports whether the URL looks like it serves raw media
// bytes: either its host matches a known CDN fragment or its path ends in a
// recognized media extension. Query strings are ignored; matching is
// case-insensitive. Malformed input yields false.
func IsDirectFileURL(target string) bool {
	if target == "" {
		return false
	}
	for _, snippet := range directHostSnippets {
		if strings.Contains(target, snippet) {
			return true
		}
	}
	return pathHasExt(target, fileExts)
}

// IsFaviconURL reports whether the URL points at a favicon. Extractors
// occasionally surface these as the "asset" for pages they cannot parse.
func IsFaviconURL(target string) bool {
	parsed, err := url.Parse(target)
	if err != nil || target == "" {
		return false
	}
	path := strings.ToLower(parsed.Path)
	return strings.HasSuffix(path, ".ico") || strings.Contains(path, "favicon")
}

// IsLikelyVideoURL combines URL-shape heuristics for video assets: a video
// extension, a known streaming host with a /raw path, or a mime query
// parameter declaring video content.
func IsLikelyVideoURL(target string) bool {
	parsed, err := url.Parse(target)
	if err != nil || target == "" {
		return false
	}
	path := strings.ToLower(parsed.Path)
	for _, ext := range videoExts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	if strings.Contains(parsed.Host, "videos.openai.com") && strings.Contains(path, "/raw") {
		return true
	}
	if mime := parsed.Query().Get("mime"); strings.HasPrefix(mime, "video/") {
		return true
	}
	return false
}

// IsLikelyImageURL reports whether the URL path carries an image extension.
func IsLikelyImageURL(target string) bool {
	parsed, err := url.Parse(target)
	if err != nil || target == "" {
		return false
	}
	return hasAnySuffix(strings.ToLower(parsed.Path), imageExts)
}

// IsVideoContentType classifies a declared MIME type as video.
// application/octet-stream is ambiguous but acceptable: CDNs routinely serve
// MP4s under it.
func IsVideoContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "video/") || contentType == "application/octet-stream"
}

// IsImageContentType classifies a declared MIME type as image.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// IsSoraURL reports whether the URL belongs to the host family that needs
// browser-identity spoofing for extraction and JS rendering as a fallback.
func IsSoraURL(target string) bool {
	return strings.Contains(target, "sora.chatgpt.com")
}

// IsYouTubeURL reports whether the URL belongs to YouTube in any of its forms.
func IsYouTubeURL(target string) bool {
	return strings.Contains(target, "youtube.com") || strings.Contains(target, "youtu.be")
}

func pathHasExt(target string, exts []string) bool {
	parsed, err := url.Parse(target)
	if err != nil {
		return false
	}
	return hasAnySuffix(strings.ToLower(parsed.Path), exts)
}

func hasAnySuffix(path string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
