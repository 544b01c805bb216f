package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/wippyai/osrm-runtime/response"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// printer renders summaries, styled only on a terminal.
type printer struct {
	styled bool
}

func newPrinter(f *os.File) printer {
	return printer{styled: term.IsTerminal(int(f.Fd()))}
}

func (p printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p printer) line(b *strings.Builder, label string, format string, args ...any) {
	b.WriteString(p.render(labelStyle, label+":"))
	b.WriteByte(' ')
	b.WriteString(p.render(valueStyle, fmt.Sprintf(format, args...)))
	b.WriteByte('\n')
}

// summary describes a typed response in a few lines.
func (p printer) summary(v any) string {
	var b strings.Builder
	switch r := v.(type) {
	case *response.TableResponse:
		p.line(&b, "sources", "%d", len(r.Sources))
		p.line(&b, "destinations", "%d", len(r.Destinations))
		for i := range r.Durations {
			cells := make([]string, len(r.Durations[i]))
			for j := range r.Durations[i] {
				if d, ok := r.Durations.At(i, j); ok {
					cells[j] = fmt.Sprintf("%.1f", d)
				} else {
					cells[j] = "-"
				}
			}
			p.line(&b, fmt.Sprintf("durations[%d]", i), "%s", strings.Join(cells, " "))
		}
	case *response.RouteResponse:
		p.line(&b, "routes", "%d", len(r.Routes))
		for i, route := range r.Routes {
			p.line(&b, fmt.Sprintf("route %d", i), "%.1f m, %.1f s, %d legs", route.Distance, route.Duration, len(route.Legs))
		}
	case *response.TripResponse:
		p.line(&b, "trips", "%d", len(r.Trips))
		for _, w := range r.Waypoints {
			p.line(&b, w.Name, "trip %d, stop %d", w.TripsIndex, w.WaypointIndex)
		}
	case *response.MatchResponse:
		p.line(&b, "matchings", "%d", len(r.Matchings))
		for i, m := range r.Matchings {
			p.line(&b, fmt.Sprintf("matching %d", i), "%.1f m, confidence %.2f", m.Distance, m.Confidence)
		}
		unmatched := 0
		for _, tp := range r.Tracepoints {
			if tp == nil {
				unmatched++
			}
		}
		p.line(&b, "unmatched", "%d of %d", unmatched, len(r.Tracepoints))
	case *response.NearestResponse:
		for i, w := range r.Waypoints {
			p.line(&b, fmt.Sprintf("waypoint %d", i), "%s %s (%.1f m)", w.Name, w.Coordinate(), w.Distance)
		}
	default:
		fmt.Fprintf(&b, "%v\n", v)
	}
	return b.String()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
