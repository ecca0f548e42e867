package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/naka-gawa/github-viewer/internal/config"
	"github.com/naka-gawa/github-viewer/internal/domain"
	"github.com/naka-gawa/github-viewer/internal/render"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		UserID:       "octocat",
		Status:       domain.StatusReady,
		RepoCount:    1,
		Repositories: []domain.RepositoryLink{{Name: "a", URL: "https://github.com/octocat/a"}},
		Chart:        []domain.ChartEntry{{Name: "Go", Value: 1, Percent: 100}},
	}
}

func TestWriteSnapshot(t *testing.T) {
	size := render.Size{Height: "500px", Width: "800px"}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSnapshot(&buf, testSnapshot(), outputJSON, size))
		var got domain.Snapshot
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, testSnapshot().Chart, got.Chart)
	})

	t.Run("html", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSnapshot(&buf, testSnapshot(), outputHTML, size))
		assert.Contains(t, buf.String(), `id="githubViewerContainer"`)
	})

	t.Run("widget", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSnapshot(&buf, testSnapshot(), outputWidget, size))
		assert.Contains(t, buf.String(), "Number of Repos 1")
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, writeSnapshot(&buf, testSnapshot(), "yaml", size))
	})
}

func TestWriteRepositories(t *testing.T) {
	links := []domain.RepositoryLink{
		{Name: "b", URL: "https://github.com/octocat/b"},
		{Name: "a", URL: "https://github.com/octocat/a"},
	}

	var text bytes.Buffer
	require.NoError(t, writeRepositories(&text, links, "text"))
	assert.Equal(t, "b\thttps://github.com/octocat/b\na\thttps://github.com/octocat/a\n", text.String())

	var js bytes.Buffer
	require.NoError(t, writeRepositories(&js, []domain.RepositoryLink{}, outputJSON))
	assert.JSONEq(t, `[]`, js.String())
}

func TestApplyFlags(t *testing.T) {
	newCmd := func() *cobra.Command {
		c := &cobra.Command{Use: "test"}
		c.Flags().StringP("user", "u", "", "")
		c.Flags().StringSliceP("exclude", "e", nil, "")
		c.Flags().String("api", "", "")
		c.Flags().Int("concurrency", 0, "")
		return c
	}

	t.Run("flags override the configuration", func(t *testing.T) {
		c := newCmd()
		require.NoError(t, c.ParseFlags([]string{"-u", "octocat", "-e", "a,b", "-e", "c", "--api", "graphql", "--concurrency", "4"}))
		cfg := config.Default()
		cfg.UserID = "someone-else"
		cfg.Exclusions = []string{"old"}

		require.NoError(t, applyFlags(c, &cfg))
		assert.Equal(t, "octocat", cfg.UserID)
		assert.Equal(t, []string{"a", "b", "c"}, cfg.Exclusions)
		assert.Equal(t, "graphql", cfg.API)
		assert.Equal(t, 4, cfg.Concurrency)
	})

	t.Run("unset flags keep the configuration", func(t *testing.T) {
		c := newCmd()
		require.NoError(t, c.ParseFlags(nil))
		cfg := config.Default()
		cfg.UserID = "octocat"
		cfg.Exclusions = []string{"keep"}

		require.NoError(t, applyFlags(c, &cfg))
		assert.Equal(t, "octocat", cfg.UserID)
		assert.Equal(t, []string{"keep"}, cfg.Exclusions)
		assert.Equal(t, config.APIRest, cfg.API)
		assert.Equal(t, 1, cfg.Concurrency)
	})
}

func TestShowProgress(t *testing.T) {
	testCases := []struct {
		name     string
		quiet    bool
		output   string
		terminal bool
		expected bool
	}{
		{name: "widget on a terminal", output: outputWidget, terminal: true, expected: true},
		{name: "widget to a pipe", output: outputWidget, terminal: false, expected: true},
		{name: "json on a terminal", output: outputJSON, terminal: true, expected: true},
		{name: "json to a pipe", output: outputJSON, terminal: false, expected: false},
		{name: "quiet wins", quiet: true, output: outputWidget, terminal: true, expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, showProgress(tc.quiet, tc.output, tc.terminal))
		})
	}
}
