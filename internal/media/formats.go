package media

import "strings"

// BuildFormats normalizes the extractor's raw variant list into the catalog
// exposed to clients. Variants without an id or container extension are
// discarded; absent height/fps/size collapse to zero; audio/video presence is
// derived from the codec sentinels.
func BuildFormats(raw []Variant) []Format {
	formats := make([]Format, 0, len(raw))
	for _, v := range raw {
		if v.ID == "" || v.Ext == "" {
			continue
		}
		size := v.Filesize
		if size == 0 {
			size = v.FilesizeApprox
		}
		formats = append(formats, Format{
			ID:       v.ID,
			Ext:      v.Ext,
			Height:   max(v.Height, 0),
			FPS:      max(v.FPS, 0),
			Filesize: max(size, 0),
			HasAudio: v.ACodec != "" && v.ACodec != "none",
			HasVideo: v.VCodec != "" && v.VCodec != "none",
			ACodec:   v.ACodec,
			VCodec:   v.VCodec,
			Protocol: v.Protocol,
		})
	}
	return formats
}

// DefaultFormatID picks the preferred variant: the tallest mp4 carrying both
// audio and video, ties broken by frame rate, else the first variant in the
// extractor's original order. Empty when no variants survived.
func DefaultFormatID(formats []Format) string {
	best := -1
	for i, f := range formats {
		if f.Ext != "mp4" || !f.HasAudio || !f.HasVideo {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		b := formats[best]
		if f.Height > b.Height || (f.Height == b.Height && f.FPS > b.FPS) {
			best = i
		}
	}
	if best >= 0 {
		return formats[best].ID
	}
	if len(formats) > 0 {
		return formats[0].ID
	}
	return ""
}

// DetectKind decides the media kind for an extraction result. URL shape wins
// when it can decide; only then does the extractor's own declaration count.
// Instagram posts default to image unless the asset URL is plainly an mp4.
func DetectKind(meta *Metadata) Kind {
	asset := meta.URL
	if asset != "" {
		if IsLikelyImageURL(asset) {
			return KindImage
		}
		if IsLikelyVideoURL(asset) {
			return KindVideo
		}
	}
	if meta.Ext == "jpg" || meta.Ext == "png" {
		return KindImage
	}
	if meta.Extractor == "instagram" && meta.URL != "" && !strings.Contains(meta.URL, ".mp4") {
		return KindImage
	}
	return KindVideo
}
