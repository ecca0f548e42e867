package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/naka-gawa/github-viewer/internal/domain"
	"github.com/naka-gawa/github-viewer/internal/render"
)

const (
	outputWidget = "widget"
	outputJSON   = "json"
	outputHTML   = "html"
)

// writeSnapshot prints snap in the requested format.
func writeSnapshot(w io.Writer, snap domain.Snapshot, format string, size render.Size) error {
	switch format {
	case outputJSON:
		// Marshal the results into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonData))
		return err
	case outputHTML:
		return render.HTML(w, snap, size)
	case outputWidget, "":
		_, err := fmt.Fprintln(w, render.Terminal(snap))
		return err
	default:
		return fmt.Errorf("unknown output format %q (want %s, %s or %s)", format, outputWidget, outputJSON, outputHTML)
	}
}

// writeRepositories prints the display list, one repository per line or as JSON.
func writeRepositories(w io.Writer, links []domain.RepositoryLink, format string) error {
	if format == outputJSON {
		jsonData, err := json.MarshalIndent(links, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonData))
		return err
	}
	for _, link := range links {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", link.Name, link.URL); err != nil {
			return err
		}
	}
	return nil
}
