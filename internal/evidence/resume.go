package evidence

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonathan/candidate-evaluator/internal/fetch"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

const (
	// MaxResumeLinks caps how many embedded URLs are extracted from a resume.
	MaxResumeLinks = 30
	// MaxResumeExcerptChars caps the whitespace-normalized text excerpt.
	MaxResumeExcerptChars = 12000
)

var resumeURLPattern = regexp.MustCompile(`https?://[^\s"'<>\)\]]+`)

// ResumeContent is the best-effort extraction from a resume document.
type ResumeContent struct {
	Links       []string
	TextExcerpt string
}

// ExtractResume fetches the resume document and pulls out embedded http(s)
// URLs and a normalized text excerpt. Any failure (network, timeout, non-2xx)
// yields an empty result plus a *HarvestError for the failure record: resume
// evidence is best-effort and never fatal.
func ExtractResume(ctx context.Context, client *fetch.Client, resumeURL string) (*ResumeContent, error) {
	if resumeURL == "" {
		return &ResumeContent{}, nil
	}

	result, err := fetch.WithRetry(ctx, func() (*fetch.Result, error) {
		return client.Get(ctx, resumeURL, nil)
	})
	if err != nil {
		return &ResumeContent{}, &HarvestError{
			Source:    types.FailureResume,
			URL:       resumeURL,
			Message:   "resume fetch failed",
			Transient: true,
			Cause:     err,
		}
	}

	return &ResumeContent{
		Links:       extractLinks(result.Body),
		TextExcerpt: excerptText(result.Body),
	}, nil
}

// extractLinks pattern-matches http(s) URLs, deduplicated and capped.
func extractLinks(body string) []string {
	matches := resumeURLPattern.FindAllString(body, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	links := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;")
		if seen[m] {
			continue
		}
		seen[m] = true
		links = append(links, m)
		if len(links) >= MaxResumeLinks {
			break
		}
	}
	return links
}

// excerptText whitespace-normalizes the document body and caps its length.
func excerptText(body string) string {
	text := strings.Join(strings.Fields(body), " ")
	if len(text) > MaxResumeExcerptChars {
		text = text[:MaxResumeExcerptChars]
	}
	return text
}
