// Package domain contains the core data structures and domain logic for the application.
package domain

// Repository is a single repository returned by the provider.
// Only Name and URL are required downstream; the rest is raw metadata.
type Repository struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Owner       string `json:"owner,omitempty"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Fork        bool   `json:"fork,omitempty"`
}

// RepositoryLink is an entry of the rendered repository list.
type RepositoryLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ExclusionSet holds repository names omitted from both display and aggregation.
// A nil ExclusionSet excludes nothing.
type ExclusionSet map[string]struct{}

// NewExclusionSet builds an ExclusionSet from a list of repository names.
func NewExclusionSet(names []string) ExclusionSet {
	set := make(ExclusionSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Contains reports whether name is excluded. Matching is exact and case-sensitive.
func (s ExclusionSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the excluded names in no particular order.
func (s ExclusionSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return names
}
