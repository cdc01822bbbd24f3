package httputil

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain title", "My Video", "My Video"},
		{"hostile characters", `a/b\c:d*e?f"g<h>i|j`, "a-b-c-d-e-f-g-h-i-j"},
		{"percent is hostile", "50% off", "50- off"},
		{"whitespace collapses", "  a \t b \n c ", "a b c"},
		{"accents decompose", "café récap", "cafe recap"},
		{"emoji dropped", "clip 🎬 final", "clip final"},
		{"empty becomes download", "", "download"},
		{"only junk becomes download", "🎬🎬", "download"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeFilename(tc.input); got != tc.want {
				t.Fatalf("SanitizeFilename(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeFilenameCapsLength(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := SanitizeFilename(long)
	if len(got) != 120 {
		t.Fatalf("len = %d, want 120", len(got))
	}
}

func TestAttachmentName(t *testing.T) {
	if got := AttachmentName("My: Clip", "mp4"); got != "My- Clip.mp4" {
		t.Fatalf("AttachmentName = %q", got)
	}
	if got := AttachmentName("", "jpg"); got != "download.jpg" {
		t.Fatalf("AttachmentName empty = %q", got)
	}
}
