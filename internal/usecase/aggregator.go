// Package usecase contains the business logic of the application.
package usecase

import (
	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/github-viewer/internal/domain"
)

// Tally counts, for every language, the records it appears in.
// A record contributes at most one to each language even if the key repeats.
func Tally(records []domain.LanguageUsageRecord) *domain.LanguageTally {
	tally := domain.NewLanguageTally()
	for _, record := range records {
		seen := make(map[string]struct{}, len(record.Languages))
		for _, lang := range record.Languages {
			if _, dup := seen[lang.Name]; dup {
				continue
			}
			seen[lang.Name] = struct{}{}
			tally.Increment(lang.Name)
		}
	}
	return tally
}

// Aggregate turns language records into pie chart entries, one per distinct
// language in first-seen order. It is a pure function of its input.
func Aggregate(records []domain.LanguageUsageRecord) []domain.ChartEntry {
	return ChartEntries(Tally(records))
}

// ChartEntries converts a tally into chart entries, keeping the tally order.
func ChartEntries(tally *domain.LanguageTally) []domain.ChartEntry {
	names := tally.Names()
	entries := make([]domain.ChartEntry, 0, len(names))
	values := make(stats.Float64Data, 0, len(names))
	for _, name := range names {
		entries = append(entries, domain.ChartEntry{Name: name, Value: tally.Count(name)})
		values = append(values, float64(tally.Count(name)))
	}

	total, err := stats.Sum(values)
	if err != nil || total == 0 {
		return entries
	}
	for i := range entries {
		share, err := stats.Round(float64(entries[i].Value)/total*100, 2)
		if err != nil {
			continue
		}
		entries[i].Percent = share
	}
	return entries
}

// FormatRepositories returns the display list: provider order, exclusions removed.
// It never fails; a nil or empty input yields an empty list and nameless
// entries are skipped.
func FormatRepositories(repos []domain.Repository, exclusions domain.ExclusionSet) []domain.RepositoryLink {
	links := make([]domain.RepositoryLink, 0, len(repos))
	for _, repo := range repos {
		if repo.Name == "" || exclusions.Contains(repo.Name) {
			continue
		}
		links = append(links, domain.RepositoryLink{Name: repo.Name, URL: repo.URL})
	}
	return links
}

// Summarize computes the figures shown next to the chart.
func Summarize(totalRepos int, records []domain.LanguageUsageRecord, tally *domain.LanguageTally) domain.Summary {
	summary := domain.Summary{
		TotalRepositories:    totalRepos,
		AnalyzedRepositories: len(records),
		DistinctLanguages:    tally.Len(),
	}
	if len(records) == 0 {
		return summary
	}

	perRepo := make(stats.Float64Data, 0, len(records))
	for _, record := range records {
		seen := make(map[string]struct{}, len(record.Languages))
		for _, lang := range record.Languages {
			seen[lang.Name] = struct{}{}
		}
		perRepo = append(perRepo, float64(len(seen)))
	}
	if mean, err := perRepo.Mean(); err == nil {
		summary.MeanLanguagesPerRepo, _ = stats.Round(mean, 2)
	}
	if median, err := perRepo.Median(); err == nil {
		summary.MedianLanguagesPerRepo, _ = stats.Round(median, 2)
	}
	return summary
}
