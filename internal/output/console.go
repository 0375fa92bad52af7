// Package output renders the periodic console summary of a running load test.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/Illyk/perfgun/internal/stats"
)

const (
	summaryWidth = 80
	barWidth     = 60

	barFilled = "█"
	barEmpty  = "░"
)

// ConsoleSummaryConfig configures a ConsoleSummary.
type ConsoleSummaryConfig struct {
	// Scheme selects the colors; defaults to DefaultColorScheme.
	Scheme *ColorScheme
}

// ConsoleSummary builds the Gatling-style console report block. It is a pure
// function of the run data and the current time; it also decides whether the
// run is complete: a run completes once every catalog scenario has a known
// planned population and at least that many users are done. Scenarios with an
// unbounded population never complete on their own, so such runs only end on
// an external stop.
type ConsoleSummary struct {
	scheme *ColorScheme
}

// NewConsoleSummary creates a console summary builder.
func NewConsoleSummary(cfg ConsoleSummaryConfig) *ConsoleSummary {
	if cfg.Scheme == nil {
		cfg.Scheme = DefaultColorScheme()
	}
	return &ConsoleSummary{scheme: cfg.Scheme}
}

// Build renders the report block and reports run completeness.
func (s *ConsoleSummary) Build(data *stats.RunData, now time.Time) (string, bool) {
	var b strings.Builder

	border := s.scheme.Border.Sprint(strings.Repeat("=", summaryWidth))
	elapsed := int64(now.Sub(data.StartTime) / time.Second)

	b.WriteString(border + "\n")
	timestamp := now.Format("2006-01-02 15:04:05 MST")
	right := fmt.Sprintf("%ds elapsed", elapsed)
	b.WriteString(padBetween(timestamp, right, summaryWidth) + "\n")

	s.writeRequests(&b, data)
	s.writeErrors(&b, data)
	for _, name := range data.Scenarios() {
		s.writeScenario(&b, data, name)
	}
	s.writeResponseTimes(&b, data)

	b.WriteString(border + "\n\n")

	return b.String(), s.complete(data)
}

func (s *ConsoleSummary) complete(data *stats.RunData) bool {
	scenarios := data.Scenarios()
	if len(scenarios) == 0 {
		return false
	}
	for _, name := range scenarios {
		u, ok := data.Users(name)
		if !ok || u.Total == nil || u.Done < *u.Total {
			return false
		}
	}
	return true
}

func (s *ConsoleSummary) writeRequests(b *strings.Builder, data *stats.RunData) {
	b.WriteString(s.section("Requests") + "\n")
	s.writeCounters(b, "Global", data.GlobalRequests())
	for _, path := range data.RequestPaths() {
		rc, _ := data.Requests(path)
		s.writeCounters(b, path, rc)
	}
}

func (s *ConsoleSummary) writeCounters(b *strings.Builder, name string, rc stats.RequestCounters) {
	fmt.Fprintf(b, "> %-56s (OK=%s KO=%s)\n",
		truncate(name, 56),
		s.scheme.OK.Sprintf("%-6d", rc.OK),
		s.scheme.KO.Sprintf("%-6d", rc.KO))
}

func (s *ConsoleSummary) writeErrors(b *strings.Builder, data *stats.RunData) {
	errs := data.Errors()
	if len(errs) == 0 {
		return
	}
	total := data.TotalErrors()
	b.WriteString(s.section("Errors") + "\n")
	for _, e := range errs {
		pct := float64(e.Count) / float64(total) * 100
		fmt.Fprintf(b, "> %-58s %s (%s)\n",
			truncate(e.Message, 58),
			s.scheme.KO.Sprintf("%6d", e.Count),
			s.scheme.Muted.Sprintf("%.2f%%", pct))
	}
}

func (s *ConsoleSummary) writeScenario(b *strings.Builder, data *stats.RunData, name string) {
	u, ok := data.Users(name)
	if !ok {
		return
	}

	b.WriteString(s.section(name) + "\n")

	progress := 0.0
	if u.Total != nil && *u.Total > 0 {
		progress = float64(u.Done) / float64(*u.Total)
	}
	fmt.Fprintf(b, "[%s] %3.0f%%\n", s.scheme.Bar.Sprint(renderBar(progress, barWidth)), progress*100)
	fmt.Fprintf(b, "          waiting: %-6d / active: %-6d / done: %-6d\n",
		u.Waiting(), u.Active, u.Done)
}

func (s *ConsoleSummary) writeResponseTimes(b *strings.Builder, data *stats.RunData) {
	rt := data.ResponseTimes()
	if rt.Count == 0 {
		return
	}
	b.WriteString(s.section("Response Times") + "\n")
	fmt.Fprintf(b, "> min=%s  mean=%s  p50=%s  p95=%s  p99=%s  max=%s  (count=%d)\n",
		formatDuration(rt.Min), formatDuration(rt.Mean), formatDuration(rt.P50),
		formatDuration(rt.P95), formatDuration(rt.P99), formatDuration(rt.Max),
		rt.Count)
}

// section renders a "---- Title ----..." divider padded to the summary width.
func (s *ConsoleSummary) section(title string) string {
	head := fmt.Sprintf("---- %s ", truncate(title, summaryWidth-10))
	return s.scheme.Section.Sprint(head + strings.Repeat("-", summaryWidth-len(head)))
}

// renderBar renders a progress bar clamped to [0, 1].
func renderBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * float64(width))
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, width-filled)
}

// padBetween left-aligns left and right-aligns right within width.
func padBetween(left, right string, width int) string {
	pad := width - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
