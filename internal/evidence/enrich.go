package evidence

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-evaluator/internal/fetch"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

// GitHubSource harvests GitHub evidence for one evidence URL.
type GitHubSource interface {
	Harvest(ctx context.Context, evURL types.EvidenceURL) (*types.GitHubEvidence, error)
}

// PortfolioSource crawls portfolio evidence for one evidence URL.
type PortfolioSource interface {
	Crawl(ctx context.Context, evURL types.EvidenceURL) (*types.PortfolioEvidence, error)
}

// Enricher runs resume extraction and both harvesters sequentially for one
// application. Harvester failures are accumulated, never propagated.
type Enricher struct {
	Fetch           *fetch.Client
	GitHub          GitHubSource
	Portfolio       PortfolioSource
	ScrapingEnabled bool
	Log             *zap.Logger
}

// NewEnricher builds an Enricher with the default harvesters.
func NewEnricher(client *fetch.Client, githubToken string, scrapingEnabled bool, log *zap.Logger) *Enricher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Enricher{
		Fetch:           client,
		GitHub:          NewGitHubHarvester(client, githubToken),
		Portfolio:       NewPortfolioCrawler(client),
		ScrapingEnabled: scrapingEnabled,
		Log:             log,
	}
}

// Enrich gathers resume, GitHub, and portfolio evidence. It always returns a
// usable result; gaps are recorded in Failures.
func (e *Enricher) Enrich(ctx context.Context, app *types.Application) *types.EnrichmentResult {
	result := &types.EnrichmentResult{}

	resume, err := ExtractResume(ctx, e.Fetch, app.ResumeURL)
	if err != nil {
		e.recordFailure(result, err)
	}
	result.ResumeLinks = resume.Links
	result.ResumeTextExcerpt = resume.TextExcerpt

	inputs := make([]SourcedURL, 0, 2+len(resume.Links))
	if app.GitHubURL != "" {
		inputs = append(inputs, SourcedURL{Raw: app.GitHubURL, Source: types.SourceFormGitHub})
	}
	if app.PortfolioURL != "" {
		inputs = append(inputs, SourcedURL{Raw: app.PortfolioURL, Source: types.SourceFormPortfolio})
	}
	for _, link := range resume.Links {
		inputs = append(inputs, SourcedURL{Raw: link, Source: types.SourceResumeExtracted})
	}
	result.EvidenceURLs = CollectEvidenceURLs(inputs)

	if !e.ScrapingEnabled {
		e.Log.Debug("evidence scraping disabled, skipping harvesters",
			zap.String("application_id", app.ID.String()))
		return result
	}

	if gh := firstOfKind(result.EvidenceURLs, types.KindGitHubProfile, types.KindGitHubRepo); gh != nil {
		evidence, err := e.GitHub.Harvest(ctx, *gh)
		if err != nil {
			e.recordFailure(result, err)
		} else {
			result.GitHub = evidence
		}
	}

	if pf := firstOfKind(result.EvidenceURLs, types.KindPortfolio); pf != nil {
		evidence, err := e.Portfolio.Crawl(ctx, *pf)
		if err != nil {
			e.recordFailure(result, err)
		} else {
			result.Portfolio = evidence
		}
	}

	return result
}

// recordFailure appends a failure record for a harvester error.
func (e *Enricher) recordFailure(result *types.EnrichmentResult, err error) {
	var herr *HarvestError
	if errors.As(err, &herr) {
		e.Log.Warn("evidence harvest failed",
			zap.String("source", string(herr.Source)),
			zap.String("url", herr.URL),
			zap.Bool("transient", herr.Transient),
			zap.Error(err))
		result.Failures = append(result.Failures, herr.Failure())
		return
	}
	e.Log.Warn("evidence harvest failed", zap.Error(err))
	result.Failures = append(result.Failures, types.EvidenceFailure{
		Reason:    err.Error(),
		Transient: true,
	})
}

// firstOfKind returns the first evidence URL matching any of the kinds.
func firstOfKind(urls []types.EvidenceURL, kinds ...types.URLKind) *types.EvidenceURL {
	for i := range urls {
		for _, kind := range kinds {
			if urls[i].Kind == kind {
				return &urls[i]
			}
		}
	}
	return nil
}
