package stats

import (
	"strings"
	"time"
)

// Outcome classifies a completed request.
type Outcome string

const (
	// OK marks a successful request.
	OK Outcome = "OK"

	// KO marks a failed request.
	KO Outcome = "KO"
)

// PathSeparator joins group hierarchy segments with the request name.
const PathSeparator = " / "

// NoMessage is the error key used for failed responses that carry no message.
const NoMessage = "no message recorded"

// UserStart signals that a virtual user began executing a scenario.
type UserStart struct {
	Scenario string
}

// UserEnd signals that a virtual user finished executing a scenario.
type UserEnd struct {
	Scenario string
}

// Response reports the outcome of a single measured request.
//
// Duration is optional; zero means the engine did not report timing and
// nothing is recorded in the response-time histogram.
type Response struct {
	Groups   []string
	Name     string
	Outcome  Outcome
	Message  string
	Duration time.Duration
}

// Error reports a standalone error raised by the execution engine.
type Error struct {
	Message string
}

// RequestPath returns the group-hierarchy-qualified name of a request,
// e.g. "checkout / payment / authorize".
func RequestPath(groups []string, name string) string {
	if len(groups) == 0 {
		return name
	}
	return strings.Join(groups, PathSeparator) + PathSeparator + name
}
