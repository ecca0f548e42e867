package domain

import "time"

// Status is the state of the viewer as seen by the display.
type Status string

const (
	// StatusLoading means no fetch cycle has completed yet.
	StatusLoading Status = "loading"
	// StatusReady means the last cycle succeeded with at least one repository.
	StatusReady Status = "ready"
	// StatusEmpty means the last cycle succeeded but the user has no repositories.
	StatusEmpty Status = "empty"
	// StatusError means the last cycle failed.
	StatusError Status = "error"
)

// Summary holds aggregate figures about one fetch cycle.
type Summary struct {
	TotalRepositories      int     `json:"total_repositories"`
	AnalyzedRepositories   int     `json:"analyzed_repositories"`
	DistinctLanguages      int     `json:"distinct_languages"`
	MeanLanguagesPerRepo   float64 `json:"mean_languages_per_repo"`
	MedianLanguagesPerRepo float64 `json:"median_languages_per_repo"`
}

// Snapshot is everything the display needs after a fetch cycle.
type Snapshot struct {
	UserID             string           `json:"user_id"`
	Status             Status           `json:"status"`
	RepoCount          int              `json:"repo_count"`
	Repositories       []RepositoryLink `json:"repositories"`
	Chart              []ChartEntry     `json:"chart"`
	FailedRepositories []string         `json:"failed_repositories,omitempty"`
	Summary            Summary          `json:"summary"`
	Error              string           `json:"error,omitempty"`
	UpdatedAt          time.Time        `json:"updated_at,omitzero"`
}

// LoadingSnapshot is the state before the first cycle completes.
func LoadingSnapshot(userID string) Snapshot {
	return Snapshot{
		UserID:       userID,
		Status:       StatusLoading,
		Repositories: []RepositoryLink{},
		Chart:        []ChartEntry{},
	}
}
