// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/github-viewer/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const reposPerPage = 100

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// FetchRepositories lists the public repositories of a user with a single request.
	FetchRepositories(ctx context.Context, userID string) ([]domain.Repository, error)
	// FetchLanguages returns the language breakdown of one repository in provider order.
	FetchLanguages(ctx context.Context, owner, repo string) (domain.LanguageBreakdown, error)
}

// Options configures how the gateway reaches GitHub.
type Options struct {
	// Token is the personal access token. When empty no credential is sent.
	Token string
	// BaseURL is the REST API root, e.g. https://api.github.com/. Empty means github.com.
	BaseURL string
}

// GitHubGateway is the REST implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     zerolog.Logger
}

// NewHTTPClient builds the HTTP client shared by the REST and GraphQL gateways.
// Rate limits are detected and logged but never slept on: the refused response
// is handed back so that it surfaces as a provider error.
func NewHTTPClient(token string, logger zerolog.Logger) (*http.Client, error) {
	// A zero single sleep limit means every detected limit exceeds it, so only
	// this callback fires and the request is never retried.
	rateLimitDetector, err := github_ratelimit.NewRateLimitWaiter(nil,
		github_ratelimit.WithSingleSleepLimit(0, func(cbCtx *github_ratelimit.CallbackContext) {
			event := logger.Warn()
			if cbCtx.Request != nil {
				event = event.Str("url", cbCtx.Request.URL.String())
			}
			if cbCtx.SleepUntil != nil {
				event = event.Time("retry_at", *cbCtx.SleepUntil)
			}
			event.Msg("GitHub secondary rate limit detected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit detector: %w", err)
	}

	if token == "" {
		return &http.Client{Transport: rateLimitDetector, Timeout: 30 * time.Second}, nil
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitDetector,
			Source: ts,
		},
		Timeout: 30 * time.Second,
	}, nil
}

// NewGitHubGateway is a constructor that creates a new REST-backed gateway.
func NewGitHubGateway(opts Options, logger zerolog.Logger) (*GitHubGateway, error) {
	httpClient, err := NewHTTPClient(opts.Token, logger)
	if err != nil {
		return nil, err
	}
	restClient := github.NewClient(httpClient)
	if opts.BaseURL != "" {
		baseURL, err := parseBaseURL(opts.BaseURL)
		if err != nil {
			return nil, err
		}
		restClient.BaseURL = baseURL
	}
	return &GitHubGateway{
		restClient: restClient,
		logger:     logger,
	}, nil
}

// FetchRepositories calls GET /users/{userID}/repos once.
func (g *GitHubGateway) FetchRepositories(ctx context.Context, userID string) ([]domain.Repository, error) {
	g.logger.Debug().Str("user", userID).Msg("Fetching repositories using REST API...")
	opts := &github.RepositoryListByUserOptions{ListOptions: github.ListOptions{PerPage: reposPerPage}}
	repos, resp, err := g.restClient.Repositories.ListByUser(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories with REST API: %w", classify("list repositories", userID, resp, err))
	}
	if resp != nil && resp.NextPage != 0 {
		g.logger.Warn().Str("user", userID).Int("per_page", reposPerPage).Msg("User has more repositories than one page; only the first page is used")
	}

	result := make([]domain.Repository, 0, len(repos))
	for i, repo := range repos {
		r, err := toDomainRepository(repo)
		if err != nil {
			return nil, fmt.Errorf("repository #%d of %s: %w", i, userID, err)
		}
		result = append(result, r)
	}
	g.logger.Debug().Int("count", len(result)).Msg("Completed fetching repositories.")
	return result, nil
}

// FetchLanguages calls GET /repos/{owner}/{repo}/languages.
// The response is decoded into an ordered breakdown rather than go-github's map.
func (g *GitHubGateway) FetchLanguages(ctx context.Context, owner, repo string) (domain.LanguageBreakdown, error) {
	u := fmt.Sprintf("repos/%s/%s/languages", url.PathEscape(owner), url.PathEscape(repo))
	req, err := g.restClient.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build languages request: %w", err)
	}

	var breakdown domain.LanguageBreakdown
	resp, err := g.restClient.Do(ctx, req, &breakdown)
	if err != nil {
		var malformed *domain.MalformedDataError
		if errors.As(err, &malformed) {
			return nil, fmt.Errorf("languages of %s/%s: %w", owner, repo, err)
		}
		if isDecodeError(resp, err) {
			return nil, fmt.Errorf("languages of %s/%s: %w", owner, repo,
				&domain.MalformedDataError{What: "languages", Err: err})
		}
		return nil, fmt.Errorf("failed to fetch languages with REST API: %w", classify("list languages", repo, resp, err))
	}
	if breakdown == nil {
		breakdown = domain.LanguageBreakdown{}
	}
	g.logger.Debug().Str("repo", repo).Int("languages", len(breakdown)).Msg("Fetched languages.")
	return breakdown, nil
}

func toDomainRepository(repo *github.Repository) (domain.Repository, error) {
	if repo == nil {
		return domain.Repository{}, &domain.MalformedDataError{What: "repository", Err: errors.New("null entry")}
	}
	if repo.GetName() == "" {
		return domain.Repository{}, &domain.MalformedDataError{What: "repository", Err: errors.New("missing name")}
	}
	if repo.GetHTMLURL() == "" {
		return domain.Repository{}, &domain.MalformedDataError{What: "repository " + repo.GetName(), Err: errors.New("missing html_url")}
	}
	return domain.Repository{
		Name:        repo.GetName(),
		URL:         repo.GetHTMLURL(),
		Owner:       repo.GetOwner().GetLogin(),
		Description: repo.GetDescription(),
		Language:    repo.GetLanguage(),
		Fork:        repo.GetFork(),
	}, nil
}

// isDecodeError reports whether err comes from reading a successful response
// body that is not valid JSON.
func isDecodeError(resp *github.Response, err error) bool {
	if resp == nil || resp.Response == nil || resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

// classify turns a go-github error into a ProviderError.
func classify(op, target string, resp *github.Response, err error) error {
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	var rateLimitErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	rateLimited := errors.As(err, &rateLimitErr) || errors.As(err, &abuseErr)
	return domain.NewProviderError(op, target, status, rateLimited, err)
}

func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API base URL %q: %w", raw, err)
	}
	return u, nil
}
