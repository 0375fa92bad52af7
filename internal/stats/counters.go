package stats

import (
	"errors"
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// ErrUnknownScenario is returned when an event references a scenario that was
// never registered in the catalog.
var ErrUnknownScenario = errors.New("scenario not registered")

// Response-time histogram range: 1 microsecond to 1 hour, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// Scenario is one catalog entry: a named virtual-user template with an
// optional planned population. A nil TotalUsers means unbounded/unknown.
type Scenario struct {
	Name       string
	TotalUsers *int
}

// UserCounters tracks the virtual-user population of one scenario.
type UserCounters struct {
	// Total is the planned population, nil when unbounded/unknown.
	Total  *int
	Active int
	Done   int
}

// Waiting returns how many planned users have not started yet,
// floored at zero. Unbounded scenarios always report zero.
func (u *UserCounters) Waiting() int {
	if u.Total == nil {
		return 0
	}
	w := *u.Total - u.Active - u.Done
	if w < 0 {
		return 0
	}
	return w
}

// RequestCounters tallies request outcomes, globally or for one request path.
type RequestCounters struct {
	OK int64
	KO int64
}

// Total returns the number of requests counted, successful and failed.
func (r RequestCounters) Total() int64 {
	return r.OK + r.KO
}

// ErrorCount is one error message with its occurrence count.
type ErrorCount struct {
	Message string
	Count   int64
}

// ResponseTimeStats summarizes the response-time histogram.
type ResponseTimeStats struct {
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
	Count int64
}

// RunData is the aggregate state of one run. It is created by the writer at
// initialization, mutated for the run's duration, and discarded with the
// writer instance. Access is serialized by the owning worker, not by locks.
type RunData struct {
	// StartTime is fixed at initialization and immutable thereafter.
	StartTime time.Time

	// Complete is set by a flush once the summary builder reports the run
	// complete; it never goes back to false.
	Complete bool

	users         map[string]*UserCounters
	scenarioOrder []string

	global       RequestCounters
	requests     map[string]*RequestCounters
	requestOrder []string

	errors     map[string]int64
	errorOrder []string

	responseTimes *hdrhistogram.Histogram
}

// NewRunData allocates the aggregate and seeds one UserCounters per catalog
// scenario, preserving catalog order for reporting.
func NewRunData(catalog []Scenario, start time.Time) *RunData {
	d := &RunData{
		StartTime:     start,
		users:         make(map[string]*UserCounters, len(catalog)),
		requests:      make(map[string]*RequestCounters),
		errors:        make(map[string]int64),
		responseTimes: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
	}
	for _, sc := range catalog {
		if _, ok := d.users[sc.Name]; ok {
			continue
		}
		d.users[sc.Name] = &UserCounters{Total: sc.TotalUsers}
		d.scenarioOrder = append(d.scenarioOrder, sc.Name)
	}
	return d
}

// UserStart increments the active count of a registered scenario.
func (d *RunData) UserStart(scenario string) error {
	u, ok := d.users[scenario]
	if !ok {
		return fmt.Errorf("user start: %w: %q", ErrUnknownScenario, scenario)
	}
	u.Active++
	return nil
}

// UserDone moves one user of a registered scenario from active to done.
// Active is not floored; see the package comment.
func (d *RunData) UserDone(scenario string) error {
	u, ok := d.users[scenario]
	if !ok {
		return fmt.Errorf("user done: %w: %q", ErrUnknownScenario, scenario)
	}
	u.Active--
	u.Done++
	return nil
}

// RecordResponse tallies one request outcome into the global and the per-path
// counters. A KO also counts against the error keyed by message, or by the
// NoMessage sentinel when the message is empty. A non-zero duration is
// recorded in the response-time histogram regardless of outcome.
func (d *RunData) RecordResponse(groups []string, name string, outcome Outcome, message string, duration time.Duration) {
	path := RequestPath(groups, name)
	rc, ok := d.requests[path]
	if !ok {
		rc = &RequestCounters{}
		d.requests[path] = rc
		d.requestOrder = append(d.requestOrder, path)
	}

	if outcome == OK {
		d.global.OK++
		rc.OK++
	} else {
		d.global.KO++
		rc.KO++
		if message == "" {
			message = NoMessage
		}
		d.RecordError(message)
	}

	if duration > 0 {
		micros := duration.Microseconds()
		if micros < histogramMin {
			micros = histogramMin
		}
		if micros > histogramMax {
			micros = histogramMax
		}
		d.responseTimes.RecordValue(micros)
	}
}

// RecordError increments the error counter keyed by message verbatim.
func (d *RunData) RecordError(message string) {
	if _, ok := d.errors[message]; !ok {
		d.errorOrder = append(d.errorOrder, message)
	}
	d.errors[message]++
}

// Scenarios returns the scenario names in catalog order.
func (d *RunData) Scenarios() []string {
	return d.scenarioOrder
}

// Users returns the user counters for a scenario.
func (d *RunData) Users(scenario string) (*UserCounters, bool) {
	u, ok := d.users[scenario]
	return u, ok
}

// GlobalRequests returns the run-wide outcome counters.
func (d *RunData) GlobalRequests() RequestCounters {
	return d.global
}

// RequestPaths returns the request paths in first-seen order.
func (d *RunData) RequestPaths() []string {
	return d.requestOrder
}

// Requests returns the outcome counters for one request path.
func (d *RunData) Requests(path string) (RequestCounters, bool) {
	rc, ok := d.requests[path]
	if !ok {
		return RequestCounters{}, false
	}
	return *rc, true
}

// Errors returns all error counts in first-seen order.
func (d *RunData) Errors() []ErrorCount {
	out := make([]ErrorCount, 0, len(d.errorOrder))
	for _, msg := range d.errorOrder {
		out = append(out, ErrorCount{Message: msg, Count: d.errors[msg]})
	}
	return out
}

// TotalErrors returns the sum of all error counts.
func (d *RunData) TotalErrors() int64 {
	var total int64
	for _, n := range d.errors {
		total += n
	}
	return total
}

// ResponseTimes summarizes the response-time histogram. Count is zero when no
// response carried a duration.
func (d *RunData) ResponseTimes() ResponseTimeStats {
	h := d.responseTimes
	if h.TotalCount() == 0 {
		return ResponseTimeStats{}
	}
	return ResponseTimeStats{
		Min:   time.Duration(h.Min()) * time.Microsecond,
		Max:   time.Duration(h.Max()) * time.Microsecond,
		Mean:  time.Duration(h.Mean()) * time.Microsecond,
		P50:   time.Duration(h.ValueAtQuantile(50)) * time.Microsecond,
		P95:   time.Duration(h.ValueAtQuantile(95)) * time.Microsecond,
		P99:   time.Duration(h.ValueAtQuantile(99)) * time.Microsecond,
		Count: h.TotalCount(),
	}
}
