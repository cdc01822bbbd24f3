package render

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// URLMiner extracts a candidate media URL from a rendered-page snapshot.
// Miners are evaluated in priority order; the first hit wins.
type URLMiner interface {
	Name() string
	Mine(snap *Snapshot) (string, bool)
}

// defaultMiners is the priority-ordered strategy chain: a directly observed
// video response beats anything scraped from page state, and the generic
// <video> element is the weakest signal.
func defaultMiners() []URLMiner {
	return []URLMiner{
		observedVideoMiner{},
		stateKeyMiner{name: "no_watermark", pattern: regexp.MustCompile(`\\"no_watermark\\":\\"([^"]+)\\"`)},
		stateKeyMiner{name: "source_path", pattern: regexp.MustCompile(`\\"source\\":\{\\"path\\":\\"([^"]+)\\"`)},
		stateKeyMiner{name: "downloadable_url", pattern: regexp.MustCompile(`\\"downloadable_url\\":\\"([^"]+)\\"`)},
		rawMP4Miner{},
		videoTagMiner{},
	}
}

// observedVideoMiner picks the first network response the renderer saw whose
// declared content type was video.
type observedVideoMiner struct{}

func (observedVideoMiner) Name() string { return "observed_response" }

func (observedVideoMiner) Mine(snap *Snapshot) (string, bool) {
	for _, resp := range snap.Responses {
		if strings.HasPrefix(resp.ContentType, "video/") && resp.URL != "" {
			return resp.URL, true
		}
	}
	return "", false
}

// stateKeyMiner searches the page's embedded application-state payload for a
// known JSON key. The state arrives double-escaped inside script chunks, so
// the patterns match the escaped form.
type stateKeyMiner struct {
	name    string
	pattern *regexp.Regexp
}

func (m stateKeyMiner) Name() string { return m.name }

func (m stateKeyMiner) Mine(snap *Snapshot) (string, bool) {
	match := m.pattern.FindStringSubmatch(snap.HTML)
	if match == nil {
		return "", false
	}
	return unescapeStateURL(match[1]), true
}

var (
	plainMP4Pattern   = regexp.MustCompile(`https?://[^"\\\s]+\.mp4[^"\\\s]*`)
	escapedMP4Pattern = regexp.MustCompile(`https?:\\/\\/[^"\s]+\.mp4[^"\s]*`)
)

// rawMP4Miner falls back to the first .mp4 URL occurring anywhere in the
// rendered document, plain or JSON-escaped.
type rawMP4Miner struct{}

func (rawMP4Miner) Name() string { return "raw_mp4" }

func (rawMP4Miner) Mine(snap *Snapshot) (string, bool) {
	if match := plainMP4Pattern.FindString(snap.HTML); match != "" {
		return unescapeStateURL(match), true
	}
	if match := escapedMP4Pattern.FindString(snap.HTML); match != "" {
		return unescapeStateURL(strings.ReplaceAll(match, `\`, "")), true
	}
	return "", false
}

// videoTagMiner takes the src of the first <video> element, or of its first
// <source> child when the element itself has none.
type videoTagMiner struct{}

func (videoTagMiner) Name() string { return "video_tag" }

func (videoTagMiner) Mine(snap *Snapshot) (string, bool) {
	doc, err := html.Parse(strings.NewReader(snap.HTML))
	if err != nil {
		return "", false
	}
	var src string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "video" {
			if v := attrValue(n, "src"); v != "" {
				src = v
				return true
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.Data == "source" {
					if v := attrValue(c, "src"); v != "" {
						src = v
						return true
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return src, src != ""
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// unescapeStateURL undoes the escaping application state applies to URLs.
func unescapeStateURL(s string) string {
	return strings.ReplaceAll(s, `\u0026`, "&")
}
