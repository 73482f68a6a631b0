// Package tiktok resolves TikTok video URLs: expanding vm.tiktok.com short
// links and extracting the platform-native video id.
package tiktok

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	shortLinkHost = "vm.tiktok.com/"
	videoMarker   = "/video/"

	// Short links redirect to the mobile site unless the request looks
	// like a phone browser.
	mobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 15_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Mobile/15E148 Safari/604.1"
)

// Resolver expands short links by following redirects without downloading
// a body. All failures fall back to returning the input unchanged.
type Resolver struct {
	client *http.Client
}

// NewResolver creates a Resolver with a bounded redirect timeout.
func NewResolver() *Resolver {
	return &Resolver{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// IsTikTokURL reports whether the URL superficially belongs to TikTok.
func IsTikTokURL(raw string) bool {
	return strings.Contains(raw, "tiktok.com")
}

// IsCanonical reports whether the URL is already a full video URL.
func IsCanonical(raw string) bool {
	return strings.Contains(raw, "tiktok.com/@") && strings.Contains(raw, videoMarker)
}

// ShortID returns the opaque token of a vm.tiktok.com link, or "".
func ShortID(raw string) string {
	idx := strings.Index(raw, shortLinkHost)
	if idx == -1 {
		return ""
	}
	token := raw[idx+len(shortLinkHost):]
	if q := strings.Index(token, "?"); q != -1 {
		token = token[:q]
	}
	return strings.TrimSuffix(token, "/")
}

// ExpandURL resolves a short link to its canonical form, stripping tracking
// parameters. Canonical URLs pass through unchanged, as does any input the
// resolver fails to expand.
func (r *Resolver) ExpandURL(ctx context.Context, raw string) string {
	raw = strings.TrimSpace(raw)

	if IsCanonical(raw) {
		return raw
	}
	if !strings.Contains(raw, shortLinkHost) {
		return raw
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, raw, nil)
	if err != nil {
		return raw
	}
	req.Header.Set("User-Agent", mobileUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return raw
	}
	resp.Body.Close()

	final := resp.Request.URL
	expanded := final.String()
	if IsCanonical(expanded) {
		clean := url.URL{Scheme: final.Scheme, Host: final.Host, Path: final.Path}
		return clean.String()
	}
	return expanded
}

// ExtractVideoID expands the URL and returns the token following the
// /video/ path segment, up to the next "?" or "/". Empty when absent.
func (r *Resolver) ExtractVideoID(ctx context.Context, raw string) string {
	expanded := r.ExpandURL(ctx, raw)

	idx := strings.Index(expanded, videoMarker)
	if idx == -1 {
		return ""
	}

	id := expanded[idx+len(videoMarker):]
	if q := strings.Index(id, "?"); q != -1 {
		id = id[:q]
	}
	if s := strings.Index(id, "/"); s != -1 {
		id = id[:s]
	}
	return id
}
