// Package replay decodes a JSON-lines event stream into writer events.
//
// Each line is validated against the event schema first; lines that are not
// valid JSON, do not match any known event shape, or carry an unknown type
// are skipped without error. That mirrors the writer's own tolerance for
// forward-incompatible event streams.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"

	"github.com/Illyk/perfgun/internal/stats"
)

const eventSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["type"],
  "oneOf": [
    {
      "properties": {"type": {"const": "userStart"}, "scenario": {"type": "string"}},
      "required": ["type", "scenario"]
    },
    {
      "properties": {"type": {"const": "userEnd"}, "scenario": {"type": "string"}},
      "required": ["type", "scenario"]
    },
    {
      "properties": {
        "type": {"const": "response"},
        "name": {"type": "string"},
        "groups": {"type": "array", "items": {"type": "string"}},
        "outcome": {"enum": ["OK", "KO"]},
        "message": {"type": "string"},
        "durationMs": {"type": "number", "minimum": 0}
      },
      "required": ["type", "name", "outcome"]
    },
    {
      "properties": {"type": {"const": "error"}, "message": {"type": "string"}},
      "required": ["type", "message"]
    }
  ]
}`

var compiledEventSchema = jsonschema.MustCompileString("event.json", eventSchema)

// Decoder turns JSON event lines into writer events.
type Decoder struct{}

// NewDecoder creates a decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes one event line. The second return value is false when the
// line should be skipped.
func (d *Decoder) Decode(line string) (any, bool) {
	var doc any
	if err := json.Unmarshal([]byte(line), &doc); err != nil {
		return nil, false
	}
	if err := compiledEventSchema.Validate(doc); err != nil {
		return nil, false
	}

	switch gjson.Get(line, "type").String() {
	case "userStart":
		return stats.UserStart{Scenario: gjson.Get(line, "scenario").String()}, true
	case "userEnd":
		return stats.UserEnd{Scenario: gjson.Get(line, "scenario").String()}, true
	case "response":
		var groups []string
		for _, g := range gjson.Get(line, "groups").Array() {
			groups = append(groups, g.String())
		}
		return stats.Response{
			Groups:   groups,
			Name:     gjson.Get(line, "name").String(),
			Outcome:  stats.Outcome(gjson.Get(line, "outcome").String()),
			Message:  gjson.Get(line, "message").String(),
			Duration: time.Duration(gjson.Get(line, "durationMs").Float() * float64(time.Millisecond)),
		}, true
	case "error":
		return stats.Error{Message: gjson.Get(line, "message").String()}, true
	default:
		return nil, false
	}
}

// DecodeStream reads r line by line and calls dispatch for every decoded
// event. It returns the number of dispatched events and any read error.
func (d *Decoder) DecodeStream(r io.Reader, dispatch func(ev any)) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if ev, ok := d.Decode(line); ok {
			dispatch(ev)
			n++
		}
	}
	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("reading event stream: %w", err)
	}
	return n, nil
}
