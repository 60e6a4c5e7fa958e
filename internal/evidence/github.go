package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jonathan/candidate-evaluator/internal/fetch"
	"github.com/jonathan/candidate-evaluator/internal/types"
)

const (
	// DefaultGitHubAPIBase is the GitHub REST API root.
	DefaultGitHubAPIBase = "https://api.github.com"
	// MaxRecentRepos is how many recently-updated repositories are listed.
	MaxRecentRepos = 8
	// MaxTopRepos is how many repositories (by stars) are kept as evidence.
	MaxTopRepos = 5
	// MaxReadmeChars caps the per-repository README excerpt.
	MaxReadmeChars = 800
)

// GitHubHarvester enriches a candidate's GitHub profile via the REST API.
// Token is optional; when set it is sent as a bearer token to raise rate limits.
type GitHubHarvester struct {
	Client  *fetch.Client
	APIBase string
	Token   string
}

// NewGitHubHarvester returns a harvester against the public GitHub API.
func NewGitHubHarvester(client *fetch.Client, token string) *GitHubHarvester {
	return &GitHubHarvester{Client: client, APIBase: DefaultGitHubAPIBase, Token: token}
}

type githubUser struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
}

type githubRepo struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
	HTMLURL     string `json:"html_url"`
	UpdatedAt   string `json:"updated_at"`
	Fork        bool   `json:"fork"`
}

// Harvest fetches the profile and top repositories for the owner of a GitHub
// profile or repository evidence URL. A non-2xx response from the profile or
// repository list endpoints returns a *HarvestError that the caller records
// as a transient EvidenceFailure.
func (h *GitHubHarvester) Harvest(ctx context.Context, evURL types.EvidenceURL) (*types.GitHubEvidence, error) {
	owner := ownerFromURL(evURL.NormalizedURL)
	if owner == "" {
		return nil, &HarvestError{
			Source:  types.FailureGitHub,
			URL:     evURL.NormalizedURL,
			Message: "could not extract owner from URL",
		}
	}

	var user githubUser
	if err := h.getJSON(ctx, fmt.Sprintf("%s/users/%s", h.APIBase, owner), &user); err != nil {
		return nil, &HarvestError{
			Source:    types.FailureGitHub,
			URL:       evURL.NormalizedURL,
			Message:   "profile fetch failed",
			Transient: true,
			Cause:     err,
		}
	}

	var repos []githubRepo
	listURL := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d", h.APIBase, owner, MaxRecentRepos)
	if err := h.getJSON(ctx, listURL, &repos); err != nil {
		return nil, &HarvestError{
			Source:    types.FailureGitHub,
			URL:       evURL.NormalizedURL,
			Message:   "repository list fetch failed",
			Transient: true,
			Cause:     err,
		}
	}

	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].Stars > repos[j].Stars
	})
	if len(repos) > MaxTopRepos {
		repos = repos[:MaxTopRepos]
	}

	evidence := &types.GitHubEvidence{
		Owner:       user.Login,
		Name:        user.Name,
		Bio:         user.Bio,
		PublicRepos: user.PublicRepos,
		Followers:   user.Followers,
		Repos:       make([]types.RepoEvidence, 0, len(repos)),
		Languages:   make(map[string]int),
	}

	for _, repo := range repos {
		re := types.RepoEvidence{
			Name:        repo.Name,
			Description: repo.Description,
			Language:    repo.Language,
			Stars:       repo.Stars,
			Forks:       repo.Forks,
			URL:         repo.HTMLURL,
			UpdatedAt:   repo.UpdatedAt,
		}
		if repo.Language != "" {
			evidence.Languages[repo.Language]++
		}

		// README absence is not an error.
		readme := h.fetchReadme(ctx, owner, repo.Name)
		if len(readme) > MaxReadmeChars {
			readme = readme[:MaxReadmeChars]
		}
		re.ReadmeExcerpt = readme

		evidence.Repos = append(evidence.Repos, re)
	}

	return evidence, nil
}

// fetchReadme fetches a repository README as raw text, best-effort.
func (h *GitHubHarvester) fetchReadme(ctx context.Context, owner, repo string) string {
	readmeURL := fmt.Sprintf("%s/repos/%s/%s/readme", h.APIBase, owner, repo)
	result, err := fetch.WithRetry(ctx, func() (*fetch.Result, error) {
		return h.Client.Get(ctx, readmeURL, h.apiOptions("application/vnd.github.raw+json"))
	})
	if err != nil {
		return ""
	}
	return result.Body
}

// getJSON fetches an API endpoint with the single-retry wrapper and decodes
// the JSON body.
func (h *GitHubHarvester) getJSON(ctx context.Context, apiURL string, out any) error {
	result, err := fetch.WithRetry(ctx, func() (*fetch.Result, error) {
		return h.Client.Get(ctx, apiURL, h.apiOptions("application/vnd.github+json"))
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(result.Body), out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}
	return nil
}

func (h *GitHubHarvester) apiOptions(accept string) *fetch.Options {
	headers := map[string]string{"Accept": accept}
	if h.Token != "" {
		headers["Authorization"] = "Bearer " + h.Token
	}
	return &fetch.Options{Headers: headers}
}

// ownerFromURL extracts the owner segment from a github.com profile or
// repository URL.
func ownerFromURL(normalized string) string {
	u := NormalizeURL(normalized)
	if u == nil {
		return ""
	}
	segments := pathSegments(u.Path)
	if len(segments) == 0 {
		return ""
	}
	return segments[0]
}
