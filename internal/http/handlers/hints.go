package handlers

import "strings"

// hintFor maps an internal failure message onto a remediation hint for the
// client. Matching is by substring because failure details are composed
// messages, not stable codes.
func hintFor(details string) string {
	switch {
	case details == "":
		return ""
	case strings.Contains(details, "No supported JavaScript runtime"):
		return "YouTube extraction may require a JS runtime for yt-dlp. Try installing one or updating yt-dlp."
	case strings.Contains(details, "fetch_not_video"):
		return "The URL returned a non-video asset. Try Analyze again to refresh the direct URL."
	case strings.Contains(details, "fetch_html"):
		return "The source returned HTML instead of media. The link may have expired or require login."
	case strings.Contains(details, "fetch_failed"):
		return "The media fetch failed. Try Analyze again or check the source URL."
	case strings.Contains(details, "fetch_too_small"):
		return "The downloaded file is too small to be a valid video. Try Analyze again to refresh the direct URL."
	case strings.Contains(details, "no media found"):
		return "No playable media was found on the page. It may be private or region locked."
	default:
		return ""
	}
}

// ffmpegHint is returned with the configuration error when the transform
// engine is missing entirely.
const ffmpegHint = "ffmpeg is required to remux HLS/streaming sources into MP4. Install ffmpeg and restart the server."
