// Package importer decides which backend pipeline handles a submitted recipe
// source and what it costs. Classification is pure string inspection: it
// never performs network calls and never fails loudly.
package importer

import (
	"net"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

// Token prices per pipeline.
const (
	CostWebsite = 1
	CostVideo   = 2
	CostMedia   = 3
)

// Classification is the classifier verdict for one source.
type Classification struct {
	Kind     models.ImportKind
	Platform string // video platform name, empty unless Kind is KindVideo
	Cost     int
	URL      string // normalised URL, empty for media
}

// ShowsVideoRange reports whether the optional timestamp input applies.
func (c Classification) ShowsVideoRange() bool {
	return c.Kind == models.KindVideo
}

type platform struct {
	name    string
	domains []string
}

var videoPlatforms = []platform{
	{name: "YouTube", domains: []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}},
	{name: "TikTok", domains: []string{"tiktok.com"}},
	{name: "Instagram", domains: []string{"instagram.com"}},
	{name: "Vimeo", domains: []string{"vimeo.com"}},
	{name: "Facebook", domains: []string{"facebook.com", "fb.watch"}},
}

// CostOf is the price table; it depends on the kind only.
func CostOf(kind models.ImportKind) int {
	switch kind {
	case models.KindVideo:
		return CostVideo
	case models.KindMedia:
		return CostMedia
	default:
		return CostWebsite
	}
}

// Classify inspects user-entered URL text. The boolean is false for empty or
// malformed input, in which case submission must not be allowed. Unknown
// hosts fall back to the website pipeline.
func Classify(urlText string) (Classification, bool) {
	u, ok := normalizeURL(urlText)
	if !ok {
		return Classification{}, false
	}

	host := strings.ToLower(u.Hostname())
	for _, p := range videoPlatforms {
		for _, d := range p.domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return Classification{Kind: models.KindVideo, Platform: p.name, Cost: CostVideo, URL: u.String()}, true
			}
		}
	}

	return Classification{Kind: models.KindWebsite, Cost: CostWebsite, URL: u.String()}, true
}

// ClassifyMedia classifies picked photos or a PDF. Size never matters.
func ClassifyMedia(kind models.MediaKind) Classification {
	return Classification{Kind: models.KindMedia, Cost: CostMedia}
}

func normalizeURL(text string) (*url.URL, bool) {
	text = strings.TrimSpace(text)
	if text == "" || strings.ContainsAny(text, " \t\n") {
		return nil, false
	}
	explicitScheme := strings.Contains(text, "://")
	if !explicitScheme {
		text = "https://" + text
	}

	u, err := url.Parse(text)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}

	host := u.Hostname()
	if host == "" {
		return nil, false
	}
	if net.ParseIP(host) != nil {
		return u, true
	}
	if strings.EqualFold(host, "localhost") {
		// a bare word is only taken as a host when typed with a scheme
		return u, explicitScheme
	}
	if !strings.Contains(host, ".") || strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return nil, false
	}
	return u, true
}
