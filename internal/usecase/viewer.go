package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/naka-gawa/github-viewer/internal/domain"
	"github.com/naka-gawa/github-viewer/internal/gateway"
	"github.com/rs/zerolog"
)

// Viewer is the use case behind the widget. It runs fetch cycles for one
// user and keeps the latest snapshot for the display.
type Viewer struct {
	fetcher    gateway.Fetcher
	languages  *LanguageFetcher
	userID     string
	exclusions domain.ExclusionSet
	logger     zerolog.Logger
	now        func() time.Time

	mu         sync.Mutex
	snapshot   domain.Snapshot
	generation uint64
	cancel     context.CancelFunc
	closed     bool
}

// NewViewer creates a Viewer for userID. Its snapshot starts in the loading state.
func NewViewer(fetcher gateway.Fetcher, languages *LanguageFetcher, userID string, exclusions []string, logger zerolog.Logger) *Viewer {
	return &Viewer{
		fetcher:    fetcher,
		languages:  languages,
		userID:     userID,
		exclusions: domain.NewExclusionSet(exclusions),
		logger:     logger,
		now:        time.Now,
		snapshot:   domain.LoadingSnapshot(userID),
	}
}

// ErrViewerClosed is returned by Refresh after Close.
var ErrViewerClosed = errors.New("viewer is closed")

// Snapshot returns the latest state.
func (v *Viewer) Snapshot() domain.Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot
}

// Refresh runs one fetch cycle and returns the resulting snapshot.
// Starting a cycle cancels the one in flight; a superseded cycle never
// overwrites the state of a newer one.
func (v *Viewer) Refresh(ctx context.Context) (domain.Snapshot, error) {
	v.mu.Lock()
	if v.closed {
		snap := v.snapshot
		v.mu.Unlock()
		return snap, ErrViewerClosed
	}
	if v.cancel != nil {
		v.cancel()
	}
	cycleCtx, cancel := context.WithCancel(ctx)
	v.generation++
	gen := v.generation
	v.cancel = cancel
	v.mu.Unlock()
	defer cancel()

	cycle, err := RunCycle(cycleCtx, v.fetcher, v.languages, v.userID, v.exclusions)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		v.logger.Debug().Uint64("generation", gen).Msg("Discarding superseded fetch cycle")
		if err == nil {
			err = context.Canceled
		}
		return v.snapshot, err
	}
	v.cancel = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return v.snapshot, err
		}
		v.logger.Error().Err(err).Str("user", v.userID).Msg("Fetch cycle failed")
		// Keep the previous data so the display can still show it next to the error.
		v.snapshot.Status = domain.StatusError
		v.snapshot.Error = err.Error()
		v.snapshot.UpdatedAt = v.now()
		return v.snapshot, err
	}

	v.snapshot = cycle.Snapshot(v.userID, v.now())
	return v.snapshot, nil
}

// Close cancels any cycle in flight and rejects further refreshes.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// Cycle holds everything one fetch cycle produced. It is created fresh for
// every cycle and never shared between cycles.
type Cycle struct {
	Repositories []domain.Repository
	Languages    *LanguageResult
	Tally        *domain.LanguageTally
	Links        []domain.RepositoryLink
	Chart        []domain.ChartEntry
}

// RunCycle fetches the repositories of userID, then their languages, and
// aggregates both. It fails only when the repository list cannot be fetched
// or ctx is cancelled.
func RunCycle(ctx context.Context, fetcher gateway.Fetcher, languages *LanguageFetcher, userID string, exclusions domain.ExclusionSet) (*Cycle, error) {
	repos, err := fetcher.FetchRepositories(ctx, userID)
	if err != nil {
		return nil, err
	}
	langs, err := languages.Fetch(ctx, userID, repos, exclusions)
	if err != nil {
		return nil, err
	}
	tally := Tally(langs.Records)
	return &Cycle{
		Repositories: repos,
		Languages:    langs,
		Tally:        tally,
		Links:        FormatRepositories(repos, exclusions),
		Chart:        ChartEntries(tally),
	}, nil
}

// Snapshot converts the cycle into display state.
func (c *Cycle) Snapshot(userID string, at time.Time) domain.Snapshot {
	status := domain.StatusReady
	if len(c.Repositories) == 0 {
		status = domain.StatusEmpty
	}
	return domain.Snapshot{
		UserID:             userID,
		Status:             status,
		RepoCount:          len(c.Repositories),
		Repositories:       c.Links,
		Chart:              c.Chart,
		FailedRepositories: c.Languages.Failed,
		Summary:            Summarize(len(c.Repositories), c.Languages.Records, c.Tally),
		UpdatedAt:          at,
	}
}
