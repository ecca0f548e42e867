package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/naka-gawa/github-viewer/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shurcooL/githubv4"
)

// GraphQLGateway is the GitHub GraphQL v4 implementation of the Fetcher interface.
// It issues the same two request shapes as the REST gateway, one per call.
type GraphQLGateway struct {
	graphqlClient *githubv4.Client
	logger        zerolog.Logger
}

// userReposQuery mirrors GET /users/{user}/repos: a single page, no cursor.
type userReposQuery struct {
	User struct {
		Repositories struct {
			TotalCount int
			Nodes      []struct {
				Name        string
				URL         string `graphql:"url"`
				Description string
				IsFork      bool
				Owner       struct {
					Login string
				}
				PrimaryLanguage struct {
					Name string
				}
			}
		} `graphql:"repositories(first: 100, ownerAffiliations: OWNER, privacy: PUBLIC)"`
	} `graphql:"user(login: $login)"`
}

// repoLanguagesQuery mirrors GET /repos/{owner}/{repo}/languages, largest first like REST.
type repoLanguagesQuery struct {
	Repository struct {
		Languages struct {
			Edges []struct {
				Size int64
				Node struct {
					Name string
				}
			}
		} `graphql:"languages(first: 100, orderBy: {field: SIZE, direction: DESC})"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGraphQLGateway creates a GraphQL-backed gateway. GitHub requires a token for v4.
func NewGraphQLGateway(opts Options, logger zerolog.Logger) (*GraphQLGateway, error) {
	if opts.Token == "" {
		return nil, errors.New("the GraphQL API requires a GitHub token")
	}
	httpClient, err := NewHTTPClient(opts.Token, logger)
	if err != nil {
		return nil, err
	}
	var client *githubv4.Client
	if opts.BaseURL == "" {
		client = githubv4.NewClient(httpClient)
	} else {
		client = githubv4.NewEnterpriseClient(GraphQLEndpoint(opts.BaseURL), httpClient)
	}
	return &GraphQLGateway{graphqlClient: client, logger: logger}, nil
}

// GraphQLEndpoint derives the GraphQL endpoint from a REST API root.
// GitHub Enterprise serves REST under /api/v3 and GraphQL under /api/graphql.
func GraphQLEndpoint(restBaseURL string) string {
	base := strings.TrimSuffix(restBaseURL, "/")
	if strings.HasSuffix(base, "/api/v3") {
		return strings.TrimSuffix(base, "/v3") + "/graphql"
	}
	return base + "/graphql"
}

func (g *GraphQLGateway) FetchRepositories(ctx context.Context, userID string) ([]domain.Repository, error) {
	g.logger.Debug().Str("user", userID).Msg("Fetching repositories using GraphQL API...")
	var q userReposQuery
	variables := map[string]interface{}{"login": githubv4.String(userID)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for repositories: %w", graphqlProviderError("list repositories", userID, err))
	}
	if q.User.Repositories.TotalCount > len(q.User.Repositories.Nodes) {
		g.logger.Warn().Str("user", userID).Int("total", q.User.Repositories.TotalCount).Msg("User has more repositories than one page; only the first page is used")
	}

	result := make([]domain.Repository, 0, len(q.User.Repositories.Nodes))
	for i, node := range q.User.Repositories.Nodes {
		if node.Name == "" || node.URL == "" {
			return nil, fmt.Errorf("repository #%d of %s: %w", i, userID,
				&domain.MalformedDataError{What: "repository", Err: errors.New("missing name or url")})
		}
		repo := domain.Repository{
			Name:        node.Name,
			URL:         node.URL,
			Owner:       node.Owner.Login,
			Description: node.Description,
			Language:    node.PrimaryLanguage.Name,
			Fork:        node.IsFork,
		}
		result = append(result, repo)
	}
	g.logger.Debug().Int("count", len(result)).Msg("Completed fetching repositories.")
	return result, nil
}

func (g *GraphQLGateway) FetchLanguages(ctx context.Context, owner, repo string) (domain.LanguageBreakdown, error) {
	var q repoLanguagesQuery
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(repo),
	}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for languages: %w", graphqlProviderError("list languages", repo, err))
	}

	breakdown := make(domain.LanguageBreakdown, 0, len(q.Repository.Languages.Edges))
	for _, edge := range q.Repository.Languages.Edges {
		if edge.Node.Name == "" {
			return nil, fmt.Errorf("languages of %s/%s: %w", owner, repo,
				&domain.MalformedDataError{What: "language edge", Err: errors.New("missing name")})
		}
		breakdown = append(breakdown, domain.LanguageBytes{Name: edge.Node.Name, Bytes: edge.Size})
	}
	g.logger.Debug().Str("repo", repo).Int("languages", len(breakdown)).Msg("Fetched languages.")
	return breakdown, nil
}

// graphqlProviderError wraps a githubv4 error. The client does not expose the
// HTTP status, so rate limiting is recognised from the error text.
func graphqlProviderError(op, target string, err error) error {
	msg := strings.ToLower(err.Error())
	rateLimited := strings.Contains(msg, "rate limit") || strings.Contains(msg, "rate_limited")
	return domain.NewProviderError(op, target, 0, rateLimited, err)
}
