// Package evidence gathers corroborating material about a candidate from the
// public web: resume text and links, GitHub activity, and portfolio pages.
package evidence

import (
	"net"
	"net/url"
	"strings"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

// trackingParams are query parameters stripped during normalization.
var trackingParams = map[string]bool{
	"fbclid": true,
	"gclid":  true,
}

// NormalizeURL canonicalizes a raw URL string. It returns nil for anything
// that must not be harvested: unparseable input, non-http(s) schemes, and
// private/loopback/link-local hosts. Callers treat nil as "drop this URL",
// never as an error. Normalization is idempotent.
func NormalizeURL(raw string) *url.URL {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || isPrivateHost(host) {
		return nil
	}

	u.Fragment = ""

	// Strip known tracking parameters.
	q := u.Query()
	changed := false
	for key := range q {
		lower := strings.ToLower(key)
		if trackingParams[lower] || strings.HasPrefix(lower, "utm_") {
			q.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}

	u.Path = strings.TrimSuffix(u.Path, "/")

	return u
}

// isPrivateHost reports whether a host must never be fetched.
func isPrivateHost(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".local") {
		return true
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}

// Classify assigns a harvesting kind to a normalized URL.
func Classify(u *url.URL) types.URLKind {
	host := strings.ToLower(u.Hostname())

	if strings.Contains(host, "linkedin.com") {
		return types.KindOther
	}

	if host == "github.com" || host == "www.github.com" {
		segments := pathSegments(u.Path)
		switch {
		case len(segments) == 1:
			return types.KindGitHubProfile
		case len(segments) >= 2:
			return types.KindGitHubRepo
		default:
			return types.KindOther
		}
	}

	return types.KindPortfolio
}

// pathSegments returns the non-empty segments of a URL path.
func pathSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// SourcedURL pairs a raw URL with where it came from, for batch collection.
type SourcedURL struct {
	Raw    string
	Source types.URLSource
}

// CollectEvidenceURLs normalizes, classifies, and deduplicates a batch of
// URLs from multiple sources. Deduplication is by normalized URL with the
// first-seen source winning. URLs of kind "other" (e.g. LinkedIn) are
// excluded from the harvesting set entirely.
func CollectEvidenceURLs(inputs []SourcedURL) []types.EvidenceURL {
	seen := make(map[string]bool)
	collected := make([]types.EvidenceURL, 0, len(inputs))

	for _, in := range inputs {
		u := NormalizeURL(in.Raw)
		if u == nil {
			continue
		}
		normalized := u.String()
		if seen[normalized] {
			continue
		}
		seen[normalized] = true

		kind := Classify(u)
		if kind == types.KindOther {
			continue
		}

		collected = append(collected, types.EvidenceURL{
			OriginalURL:   in.Raw,
			NormalizedURL: normalized,
			Source:        in.Source,
			Kind:          kind,
			Host:          strings.ToLower(u.Hostname()),
		})
	}

	return collected
}
