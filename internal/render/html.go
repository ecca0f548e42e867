package render

import (
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/naka-gawa/github-viewer/internal/domain"
)

// Size is the container size, as CSS dimensions.
type Size struct {
	Height string
	Width  string
}

// PieSlice is one chart entry laid out on the pie. Full marks the only
// non-empty slice, drawn as a whole circle since an arc cannot close on itself.
type PieSlice struct {
	domain.ChartEntry
	Color string
	Path  string
	Full  bool
}

type widgetData struct {
	Snapshot       domain.Snapshot
	ContainerStyle template.CSS
	Slices         []PieSlice
}

var widgetTemplate = template.Must(template.New("widget").Parse(`<div id="githubViewerContainer" style="{{.ContainerStyle}}">
  <div id="statsContainer" style="border-right:1px solid #99BA6C;height:inherit;overflow:hidden;width:30%">
    <h2>Number of Repos {{.Snapshot.RepoCount}}</h2>
    {{- if eq .Snapshot.Status "loading"}}
    <p class="status">Loading&hellip;</p>
    {{- else if eq .Snapshot.Status "error"}}
    <p class="status error">Could not load repositories: {{.Snapshot.Error}}</p>
    {{- else if eq .Snapshot.Status "empty"}}
    <p class="status">No repositories</p>
    {{- end}}
    <div id="repoList" style="height:90%;overflow:auto;overflow-y:scroll;text-align:left">
      <ul style="padding-left:0">
      {{- range .Snapshot.Repositories}}
        <li style="list-style:none"><a style="color:#6576AA;margin-left:5%;text-decoration:none" href="{{.URL}}" target="_blank" rel="noopener">{{.Name}}</a><hr style="color:#F1EAB6;background-color:#F1EAB6;height:0.5px;width:100%"></li>
      {{- end}}
      </ul>
    </div>
  </div>
  <div id="chartContainer" style="border-left:1px solid #99BA6C;height:inherit;width:70%">
    <h2>Repo language split</h2>
    {{- if .Slices}}
    <ul class="legend" style="list-style:none;display:flex;flex-wrap:wrap;justify-content:center;padding:0">
    {{- range .Slices}}
      <li style="margin:0 0.5em"><span style="color:{{.Color}}">&#9632;</span> {{.Name}}</li>
    {{- end}}
    </ul>
    <svg viewBox="0 0 100 100" style="height:80%;width:100%">
    {{- range .Slices}}
      {{- if .Full}}
      <circle cx="50" cy="50" r="40" fill="{{.Color}}" stroke="#000" stroke-width="0.3"><title>{{.Name}}: {{.Value}}</title></circle>
      {{- else if .Path}}
      <path d="{{.Path}}" fill="{{.Color}}" stroke="#000" stroke-width="0.3"><title>{{.Name}}: {{.Value}}</title></path>
      {{- end}}
    {{- end}}
    </svg>
    {{- end}}
  </div>
</div>
`))

// HTML writes the embeddable widget for snap.
func HTML(w io.Writer, snap domain.Snapshot, size Size) error {
	data := widgetData{
		Snapshot: snap,
		ContainerStyle: template.CSS(fmt.Sprintf(
			"background-color:%s;border:3px solid %s;color:%s;display:flex;font-family:'Roboto Condensed', sans-serif;height:%s;width:%s",
			BackgroundColor, BorderColor, TextColor, size.Height, size.Width)),
		Slices: PieSlices(snap.Chart),
	}
	if err := widgetTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render widget: %w", err)
	}
	return nil
}

// PieSlices lays the chart entries out on a circle of radius 40 centred in a
// 100x100 view box, clockwise from twelve o'clock.
func PieSlices(entries []domain.ChartEntry) []PieSlice {
	total := 0
	for _, e := range entries {
		total += e.Value
	}
	colors := Palette(len(entries), 0)
	slices := make([]PieSlice, 0, len(entries))
	if total == 0 {
		return slices
	}

	const cx, cy, r = 50.0, 50.0, 40.0
	angle := -math.Pi / 2
	for i, e := range entries {
		sweep := float64(e.Value) / float64(total) * 2 * math.Pi
		s := PieSlice{ChartEntry: e, Color: colors[i]}
		if e.Value == total {
			s.Full = true
		} else if e.Value > 0 {
			x1, y1 := cx+r*math.Cos(angle), cy+r*math.Sin(angle)
			x2, y2 := cx+r*math.Cos(angle+sweep), cy+r*math.Sin(angle+sweep)
			large := 0
			if sweep > math.Pi {
				large = 1
			}
			s.Path = fmt.Sprintf("M%.2f %.2f L%.2f %.2f A%.0f %.0f 0 %d 1 %.2f %.2f Z", cx, cy, x1, y1, r, r, large, x2, y2)
		}
		angle += sweep
		slices = append(slices, s)
	}
	return slices
}
