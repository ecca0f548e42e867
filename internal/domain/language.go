package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LanguageBytes is one language entry of a repository's language breakdown.
type LanguageBytes struct {
	Name  string `json:"name"`
	Bytes int64  `json:"bytes"`
}

// LanguageBreakdown is the language usage of one repository in the order the
// provider reported it. The provider answers with a JSON object; decoding into
// a map would lose the key order, so UnmarshalJSON walks the tokens instead.
type LanguageBreakdown []LanguageBytes

// UnmarshalJSON decodes a JSON object of language name to byte count.
func (b *LanguageBreakdown) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return &MalformedDataError{What: "language payload", Err: err}
	}
	if tok == nil {
		*b = LanguageBreakdown{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return &MalformedDataError{What: "language payload", Err: fmt.Errorf("expected object, got %v", tok)}
	}

	out := LanguageBreakdown{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return &MalformedDataError{What: "language payload", Err: err}
		}
		name, _ := keyTok.(string)

		var count json.Number
		if err := dec.Decode(&count); err != nil {
			return &MalformedDataError{What: fmt.Sprintf("byte count of %q", name), Err: err}
		}
		n, err := count.Int64()
		if err != nil {
			return &MalformedDataError{What: fmt.Sprintf("byte count of %q", name), Err: err}
		}
		out = append(out, LanguageBytes{Name: name, Bytes: n})
	}
	if _, err := dec.Token(); err != nil {
		return &MalformedDataError{What: "language payload", Err: err}
	}

	*b = out
	return nil
}

// MarshalJSON encodes the breakdown back into a JSON object, keeping its order.
func (b LanguageBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(l.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", l.Bytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// LanguageUsageRecord is the language breakdown fetched for one repository.
type LanguageUsageRecord struct {
	Repository string            `json:"repository"`
	Languages  LanguageBreakdown `json:"languages"`
}

// LanguageTally counts, per language, the repositories it appears in.
// Languages keep the order in which they were first seen.
type LanguageTally struct {
	order  []string
	counts map[string]int
}

// NewLanguageTally returns an empty tally.
func NewLanguageTally() *LanguageTally {
	return &LanguageTally{counts: make(map[string]int)}
}

// Increment adds one repository to the tally of name.
func (t *LanguageTally) Increment(name string) {
	if _, ok := t.counts[name]; !ok {
		t.order = append(t.order, name)
	}
	t.counts[name]++
}

// Count returns the number of repositories name appears in.
func (t *LanguageTally) Count(name string) int {
	return t.counts[name]
}

// Names returns the languages in first-seen order.
func (t *LanguageTally) Names() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Len returns the number of distinct languages.
func (t *LanguageTally) Len() int {
	return len(t.order)
}

// ChartEntry is one slice of the language pie chart.
type ChartEntry struct {
	Name    string  `json:"name"`
	Value   int     `json:"value"`
	Percent float64 `json:"percent"`
}
