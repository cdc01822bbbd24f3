package media

import "testing"

func TestBuildFormatsDiscardsIncomplete(t *testing.T) {
	raw := []Variant{
		{ID: "1", Ext: "mp4", Height: 720, ACodec: "aac", VCodec: "h264"},
		{ID: "", Ext: "mp4"},
		{ID: "3", Ext: ""},
		{ID: "4", Ext: "webm", FilesizeApprox: 1024, ACodec: "none", VCodec: "vp9"},
	}
	formats := BuildFormats(raw)
	if len(formats) != 2 {
		t.Fatalf("got %d formats, want 2", len(formats))
	}
	if formats[0].ID != "1" || !formats[0].HasAudio || !formats[0].HasVideo {
		t.Fatalf("first format wrong: %+v", formats[0])
	}
	if formats[1].HasAudio {
		t.Fatalf("acodec none must mean no audio: %+v", formats[1])
	}
	if formats[1].Filesize != 1024 {
		t.Fatalf("filesize_approx should backfill size, got %d", formats[1].Filesize)
	}
}

func TestDefaultFormatIDPrefersTallestMP4(t *testing.T) {
	formats := BuildFormats([]Variant{
		{ID: "a", Ext: "mp4", Height: 720, ACodec: "aac", VCodec: "h264"},
		{ID: "b", Ext: "mp4", Height: 1080, ACodec: "aac", VCodec: "h264"},
		{ID: "c", Ext: "webm", Height: 1080, ACodec: "opus", VCodec: "vp9"},
	})
	if got := DefaultFormatID(formats); got != "b" {
		t.Fatalf("DefaultFormatID = %q, want b", got)
	}
}

func TestDefaultFormatIDTieBrokenByFPS(t *testing.T) {
	formats := BuildFormats([]Variant{
		{ID: "a", Ext: "mp4", Height: 1080, FPS: 30, ACodec: "aac", VCodec: "h264"},
		{ID: "b", Ext: "mp4", Height: 1080, FPS: 60, ACodec: "aac", VCodec: "h264"},
	})
	if got := DefaultFormatID(formats); got != "b" {
		t.Fatalf("DefaultFormatID = %q, want b", got)
	}
}

func TestDefaultFormatIDFallsBackToFirst(t *testing.T) {
	formats := BuildFormats([]Variant{
		{ID: "x", Ext: "webm", Height: 480, ACodec: "opus", VCodec: "vp9"},
		{ID: "y", Ext: "mp4", Height: 1080, ACodec: "none", VCodec: "h264"},
	})
	if got := DefaultFormatID(formats); got != "x" {
		t.Fatalf("DefaultFormatID = %q, want x", got)
	}
	if got := DefaultFormatID(nil); got != "" {
		t.Fatalf("DefaultFormatID(nil) = %q, want empty", got)
	}
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name string
		meta Metadata
		want Kind
	}{
		{
			name: "image extension wins",
			meta: Metadata{Ext: "jpg"},
			want: KindImage,
		},
		{
			name: "instagram non-mp4 asset is image",
			meta: Metadata{Extractor: "instagram", Ext: "unknown", URL: "https://cdn.ig.com/asset?id=1"},
			want: KindImage,
		},
		{
			name: "instagram mp4 asset is video",
			meta: Metadata{Extractor: "instagram", Ext: "mp4", URL: "https://cdn.ig.com/clip.mp4"},
			want: KindVideo,
		},
		{
			name: "url shape overrides declared ext",
			meta: Metadata{Ext: "jpg", URL: "https://cdn.example.com/clip.mp4"},
			want: KindVideo,
		},
		{
			name: "default is video",
			meta: Metadata{Ext: "mp4"},
			want: KindVideo,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectKind(&tc.meta); got != tc.want {
				t.Fatalf("DetectKind = %q, want %q", got, tc.want)
			}
		})
	}
}
