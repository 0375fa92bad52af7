package output

import (
	"strings"
	"testing"
	"time"

	"github.com/Illyk/perfgun/internal/stats"
)

func intPtr(n int) *int { return &n }

func plainSummary() *ConsoleSummary {
	return NewConsoleSummary(ConsoleSummaryConfig{Scheme: NoColorScheme()})
}

func TestBuild_RendersCounters(t *testing.T) {
	start := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	d := stats.NewRunData([]stats.Scenario{{Name: "S1", TotalUsers: intPtr(2)}}, start)

	d.UserStart("S1")
	d.UserStart("S1")
	d.RecordResponse(nil, "req1", stats.OK, "", 0)
	d.RecordResponse(nil, "req1", stats.KO, "500", 0)
	d.UserDone("S1")

	report, complete := plainSummary().Build(d, start.Add(15*time.Second+750*time.Millisecond))

	if complete {
		t.Error("Build() complete = true, want false while a user is active")
	}

	// Elapsed truncates to whole seconds.
	if !strings.Contains(report, "15s elapsed") {
		t.Errorf("report missing elapsed time:\n%s", report)
	}

	for _, want := range []string{
		"---- Requests ",
		"> Global",
		"> req1",
		"OK=1",
		"KO=1",
		"---- Errors ",
		"> 500",
		"---- S1 ",
		"waiting: 0      / active: 1      / done: 1",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestBuild_CompleteWhenAllDone(t *testing.T) {
	d := stats.NewRunData([]stats.Scenario{
		{Name: "a", TotalUsers: intPtr(1)},
		{Name: "b", TotalUsers: intPtr(2)},
	}, time.Now())

	d.UserStart("a")
	d.UserDone("a")
	d.UserStart("b")
	d.UserStart("b")
	d.UserDone("b")

	if _, complete := plainSummary().Build(d, time.Now()); complete {
		t.Error("complete = true with one user of b still active")
	}

	d.UserDone("b")
	if _, complete := plainSummary().Build(d, time.Now()); !complete {
		t.Error("complete = false after every planned user is done")
	}
}

func TestBuild_UnboundedScenarioNeverCompletes(t *testing.T) {
	d := stats.NewRunData([]stats.Scenario{{Name: "open-ended"}}, time.Now())

	d.UserStart("open-ended")
	d.UserDone("open-ended")

	if _, complete := plainSummary().Build(d, time.Now()); complete {
		t.Error("complete = true for a scenario without a planned population")
	}
}

func TestBuild_ErrorPercentages(t *testing.T) {
	d := stats.NewRunData([]stats.Scenario{{Name: "s"}}, time.Now())

	d.RecordError("timeout")
	d.RecordError("timeout")
	d.RecordError("refused")
	d.RecordError("timeout")

	report, _ := plainSummary().Build(d, time.Now())

	if !strings.Contains(report, "75.00%") {
		t.Errorf("report missing timeout share 75.00%%:\n%s", report)
	}
	if !strings.Contains(report, "25.00%") {
		t.Errorf("report missing refused share 25.00%%:\n%s", report)
	}

	// Insertion order: timeout first.
	if strings.Index(report, "> timeout") > strings.Index(report, "> refused") {
		t.Errorf("errors not in insertion order:\n%s", report)
	}
}

func TestBuild_ResponseTimesSection(t *testing.T) {
	d := stats.NewRunData([]stats.Scenario{{Name: "s"}}, time.Now())

	report, _ := plainSummary().Build(d, time.Now())
	if strings.Contains(report, "Response Times") {
		t.Errorf("response-time section present without timing data:\n%s", report)
	}

	d.RecordResponse(nil, "a", stats.OK, "", 25*time.Millisecond)
	report, _ = plainSummary().Build(d, time.Now())
	if !strings.Contains(report, "---- Response Times ") {
		t.Errorf("report missing response-time section:\n%s", report)
	}
	if !strings.Contains(report, "count=1") {
		t.Errorf("report missing histogram count:\n%s", report)
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		name     string
		progress float64
		filled   int
	}{
		{"empty", 0, 0},
		{"half", 0.5, 5},
		{"full", 1, 10},
		{"clamped low", -1, 0},
		{"clamped high", 2, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := renderBar(tt.progress, 10)
			if got := strings.Count(bar, barFilled); got != tt.filled {
				t.Errorf("renderBar(%v) filled = %d, want %d", tt.progress, got, tt.filled)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("a very long request name", 10); got != "a very ..." {
		t.Errorf("truncate() = %q, want %q", got, "a very ...")
	}
}
