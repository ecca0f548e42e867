package gateway

import (
	"fmt"

	"github.com/rs/zerolog"
)

// API kinds accepted by New.
const (
	KindREST    = "rest"
	KindGraphQL = "graphql"
)

// New returns the Fetcher for the requested API kind.
func New(kind string, opts Options, logger zerolog.Logger) (Fetcher, error) {
	switch kind {
	case KindREST, "":
		g, err := NewGitHubGateway(opts, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	case KindGraphQL:
		g, err := NewGraphQLGateway(opts, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown GitHub API kind %q", kind)
	}
}
