package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/naka-gawa/github-viewer/internal/domain"
)

// Colors of the original widget.
const (
	BorderColor     = "#99BA6C"
	TextColor       = "#6576AA"
	BackgroundColor = "#222221"
	RuleColor       = "#F1EAB6"
)

const barWidth = 30

// Terminal renders the snapshot as a two-column box: the repository list on
// the left and a bar per language on the right.
func Terminal(snap domain.Snapshot) string {
	border := lipgloss.Color(BorderColor)
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(TextColor))
	pane := lipgloss.NewStyle().Padding(0, 1)

	var left strings.Builder
	left.WriteString(title.Render(fmt.Sprintf("Number of Repos %d", snap.RepoCount)))
	if status := statusLine(snap); status != "" {
		left.WriteString("\n")
		left.WriteString(status)
	}
	for _, repo := range snap.Repositories {
		left.WriteString("\n")
		left.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(TextColor)).Render(repo.Name))
	}

	var right strings.Builder
	right.WriteString(title.Render("Repo language split"))
	colors := Palette(len(snap.Chart), 0)
	maxValue := 0
	nameWidth := 0
	for _, entry := range snap.Chart {
		maxValue = max(maxValue, entry.Value)
		nameWidth = max(nameWidth, lipgloss.Width(entry.Name))
	}
	for i, entry := range snap.Chart {
		n := 0
		if maxValue > 0 {
			n = max(1, entry.Value*barWidth/maxValue)
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Render(strings.Repeat("█", n))
		fmt.Fprintf(&right, "\n%-*s %s %d (%.2f%%)", nameWidth, entry.Name, bar, entry.Value, entry.Percent)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
	divider := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(border)

	return box.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		divider.Render(pane.Render(left.String())),
		pane.Render(right.String()),
	))
}

func statusLine(snap domain.Snapshot) string {
	muted := lipgloss.NewStyle().Italic(true)
	switch snap.Status {
	case domain.StatusLoading:
		return muted.Render("loading...")
	case domain.StatusEmpty:
		return muted.Render("no repositories")
	case domain.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#D9534F")).Render("error: " + snap.Error)
	}
	if len(snap.FailedRepositories) > 0 {
		return muted.Render(fmt.Sprintf("languages unavailable for %s", strings.Join(snap.FailedRepositories, ", ")))
	}
	return ""
}
