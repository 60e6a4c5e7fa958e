package evidence

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/candidate-evaluator/internal/fetch"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

const (
	// MaxPortfolioPages is the hard cap on collected pages per crawl.
	MaxPortfolioPages = 6
	// MaxFrontierSize bounds queued-but-unvisited URLs. Twice the page cap is
	// enough to keep the loop fed without letting a link farm grow the queue.
	MaxFrontierSize = 2 * MaxPortfolioPages
	// MaxSnippetChars caps the per-page Markdown snippet.
	MaxSnippetChars = 1200
)

// PortfolioCrawler performs a same-host bounded breadth-first crawl of a
// candidate's portfolio site.
type PortfolioCrawler struct {
	Client *fetch.Client
}

// NewPortfolioCrawler returns a crawler using the given bounded fetcher.
func NewPortfolioCrawler(client *fetch.Client) *PortfolioCrawler {
	return &PortfolioCrawler{Client: client}
}

// Crawl walks the portfolio starting at the root evidence URL. The frontier
// and visited set are owned by this call; there is no shared crawl state.
// A fetch failure on the root returns a transient *HarvestError; failures on
// secondary pages are silently skipped.
func (c *PortfolioCrawler) Crawl(ctx context.Context, evURL types.EvidenceURL) (*types.PortfolioEvidence, error) {
	root := NormalizeURL(evURL.NormalizedURL)
	if root == nil {
		return nil, &HarvestError{
			Source:  types.FailurePortfolio,
			URL:     evURL.NormalizedURL,
			Message: "invalid root URL",
		}
	}
	rootHost := strings.ToLower(root.Hostname())

	frontier := []string{root.String()}
	visited := map[string]bool{root.String(): true}
	pages := make([]types.PortfolioPage, 0, MaxPortfolioPages)

	for len(frontier) > 0 && len(pages) < MaxPortfolioPages {
		pageURL := frontier[0]
		frontier = frontier[1:]

		result, err := fetch.WithRetry(ctx, func() (*fetch.Result, error) {
			return c.Client.Get(ctx, pageURL, nil)
		})
		if err != nil {
			if len(pages) == 0 && pageURL == root.String() {
				return nil, &HarvestError{
					Source:    types.FailurePortfolio,
					URL:       pageURL,
					Message:   "root fetch failed",
					Transient: true,
					Cause:     err,
				}
			}
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.Body))
		if err != nil {
			continue
		}

		links := prioritizedLinks(doc)
		snippet := htmlToMarkdown(doc)
		if len(snippet) > MaxSnippetChars {
			snippet = snippet[:MaxSnippetChars]
		}

		pages = append(pages, types.PortfolioPage{
			URL:     pageURL,
			Title:   pageTitle(doc),
			Snippet: snippet,
		})

		base := NormalizeURL(pageURL)
		if base == nil {
			continue
		}
		for _, href := range links {
			if len(frontier) >= MaxFrontierSize {
				break
			}
			resolved := resolveLink(base, href)
			if resolved == nil {
				continue
			}
			if strings.ToLower(resolved.Hostname()) != rootHost {
				continue
			}
			normalized := resolved.String()
			if visited[normalized] {
				continue
			}
			visited[normalized] = true
			frontier = append(frontier, normalized)
		}
	}

	return &types.PortfolioEvidence{
		RootURL: root.String(),
		Pages:   pages,
	}, nil
}

// prioritizedLinks extracts outbound hrefs ordered pagination first, then
// navigation, then in-content, deduplicated across the categories.
func prioritizedLinks(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	ordered := make([]string, 0)

	collect := func(selector string) {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			href, exists := s.Attr("href")
			if !exists || href == "" || seen[href] {
				return
			}
			seen[href] = true
			ordered = append(ordered, href)
		})
	}

	collect("a[rel='next'], .pagination a[href], .pager a[href], nav.pagination a[href]")
	collect("nav a[href], header a[href]")
	collect("a[href]")

	return ordered
}

// resolveLink resolves an href against its page and normalizes it. Returns
// nil for hrefs that must not be crawled.
func resolveLink(base *url.URL, href string) *url.URL {
	if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "tel:") {
		return nil
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	return NormalizeURL(base.ResolveReference(ref).String())
}
