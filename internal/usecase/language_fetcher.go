package usecase

import (
	"context"
	"errors"

	"github.com/naka-gawa/github-viewer/internal/domain"
	"github.com/naka-gawa/github-viewer/internal/gateway"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Progress observes a language fetch. Start is called once with the number of
// repositories to request, then Step once per repository as its request completes.
type Progress interface {
	Start(total int)
	Step(repo string, err error)
}

// LanguageResult is the outcome of fetching languages for a repository list.
type LanguageResult struct {
	// Records holds the successful fetches, in repository order.
	Records []domain.LanguageUsageRecord
	// Failed names the repositories whose request failed, in repository order.
	Failed []string
	// Errors holds the failure of each entry of Failed.
	Errors []error
}

// LanguageFetcher fetches per-repository language data.
type LanguageFetcher struct {
	fetcher     gateway.Fetcher
	concurrency int
	progress    Progress
	logger      zerolog.Logger
}

// NewLanguageFetcher creates a LanguageFetcher. A concurrency of 1 or less
// fetches strictly one repository after another.
func NewLanguageFetcher(fetcher gateway.Fetcher, concurrency int, logger zerolog.Logger) *LanguageFetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &LanguageFetcher{
		fetcher:     fetcher,
		concurrency: concurrency,
		logger:      logger,
	}
}

// WithProgress sets the observer of every subsequent Fetch.
func (f *LanguageFetcher) WithProgress(progress Progress) *LanguageFetcher {
	f.progress = progress
	return f
}

// Pending returns the repositories Fetch would request, duplicates included.
func Pending(repos []domain.Repository, exclusions domain.ExclusionSet) []domain.Repository {
	pending := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		if exclusions.Contains(repo.Name) {
			continue
		}
		pending = append(pending, repo)
	}
	return pending
}

// Fetch requests the languages of every non-excluded repository owned by userID.
// A failing repository does not abort the others; only cancellation of ctx
// does, in which case ctx.Err() is returned.
func (f *LanguageFetcher) Fetch(ctx context.Context, userID string, repos []domain.Repository, exclusions domain.ExclusionSet) (*LanguageResult, error) {
	pending := Pending(repos, exclusions)
	f.logger.Debug().Int("repositories", len(pending)).Int("concurrency", f.concurrency).Msg("Fetching languages...")
	if f.progress != nil {
		f.progress.Start(len(pending))
	}

	breakdowns := make([]domain.LanguageBreakdown, len(pending))
	errs := make([]error, len(pending))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(f.concurrency)
	for i, repo := range pending {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			breakdown, err := f.fetcher.FetchLanguages(egCtx, userID, repo.Name)
			if err != nil && egCtx.Err() != nil {
				return egCtx.Err()
			}
			breakdowns[i], errs[i] = breakdown, err
			if f.progress != nil {
				f.progress.Step(repo.Name, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &LanguageResult{Records: make([]domain.LanguageUsageRecord, 0, len(pending))}
	for i, repo := range pending {
		if errs[i] != nil {
			f.logger.Warn().Err(errs[i]).Str("repo", repo.Name).Msg("Skipping repository whose languages could not be fetched")
			result.Failed = append(result.Failed, repo.Name)
			result.Errors = append(result.Errors, errs[i])
			continue
		}
		result.Records = append(result.Records, domain.LanguageUsageRecord{
			Repository: repo.Name,
			Languages:  breakdowns[i],
		})
	}
	f.logger.Debug().Int("fetched", len(result.Records)).Int("failed", len(result.Failed)).Msg("Completed fetching languages.")
	return result, nil
}

// Err joins the per-repository failures, or returns nil when there are none.
func (r *LanguageResult) Err() error {
	return errors.Join(r.Errors...)
}
