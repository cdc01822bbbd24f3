// Package media holds the domain model for resolved assets plus the pure
// URL/content classification and format selection logic shared by the
// resolver and the delivery pipeline.
package media

// Kind distinguishes the two asset families the service delivers.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// KindFromString maps a client-supplied type hint onto a Kind. Anything that
// is not explicitly an image is treated as video, matching delivery behavior.
func KindFromString(s string) Kind {
	if s == string(KindImage) {
		return KindImage
	}
	return KindVideo
}

// Variant is one raw encoding entry as reported by the metadata extractor,
// before catalog normalization. Field names follow the extractor's JSON dump.
type Variant struct {
	ID             string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Height         int     `json:"height"`
	FPS            float64 `json:"fps"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	ACodec         string  `json:"acodec"`
	VCodec         string  `json:"vcodec"`
	Protocol       string  `json:"protocol"`
}

// Format is a normalized encoding variant exposed to clients. Zero values for
// height, fps and filesize mean unknown.
type Format struct {
	ID       string  `json:"id"`
	Ext      string  `json:"ext"`
	Height   int     `json:"height"`
	FPS      float64 `json:"fps"`
	Filesize int64   `json:"filesize"`
	HasAudio bool    `json:"hasAudio"`
	HasVideo bool    `json:"hasVideo"`
	ACodec   string  `json:"acodec"`
	VCodec   string  `json:"vcodec"`
	Protocol string  `json:"protocol"`
}

// Metadata is the normalized result of one metadata-extraction pass, whether
// it came from yt-dlp or was fabricated by the page-render fallback.
type Metadata struct {
	Extractor    string    `json:"extractor"`
	ExtractorKey string    `json:"extractor_key"`
	Title        string    `json:"title"`
	Thumbnail    string    `json:"thumbnail"`
	Duration     float64   `json:"duration"`
	Ext          string    `json:"ext"`
	URL          string    `json:"url"`
	WebpageURL   string    `json:"webpage_url"`
	Formats      []Variant `json:"formats"`
}

// AnalysisResult is the /analyze response body.
//
// OriginalURL is always populated: the direct URL when one was verified, else
// the extractor's webpage URL, else the caller's input. DirectURL is only set
// after it passed classification for the expected kind.
type AnalysisResult struct {
	Platform        string   `json:"platform"`
	Type            Kind     `json:"type"`
	Title           string   `json:"title"`
	Thumbnail       string   `json:"thumbnail"`
	Duration        float64  `json:"duration"`
	OriginalURL     string   `json:"original_url"`
	DirectURL       string   `json:"direct_url,omitempty"`
	Formats         []Format `json:"formats"`
	DefaultFormatID string   `json:"default_format_id,omitempty"`
}
