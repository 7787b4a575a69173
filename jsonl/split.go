// Package jsonl provides a schema-free splitter for line-oriented JSON
// text. It is the tolerant alternative to the typed protocol parsers:
// every line yields either a decoded generic value or a per-line error
// carrying the raw text, so the caller never loses a line.
//
// Its line contract intentionally differs from the typed parsers': the
// splitter classifies every physical line, so a blank line is a decode
// error here while the typed parsers silently skip it, and Line numbers
// count physical lines. Callers that switch between the two paths must
// not assume the numbering or blank-line behavior carries over.
package jsonl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LineError is a per-line decode failure. It keeps the original raw
// line so callers can route undecodable input elsewhere.
type LineError struct {
	Cause error
	Raw   string
	Line  int
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Cause)
}

func (e *LineError) Unwrap() error {
	return e.Cause
}

// Result is the outcome for one physical line: either Value or Err is
// set, never both.
type Result struct {
	Value any
	Err   *LineError
	Line  int
}

// Split classifies every physical line of text. Line numbers are
// 1-based over physical lines. A trailing empty fragment after a final
// newline is not a line; interior blank lines are, and fail to decode.
// A \r before the delimiter is insignificant.
func Split(text string) []Result {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	results := make([]Result, 0, len(lines))
	for i, line := range lines {
		num := i + 1
		trimmed := strings.TrimSuffix(line, "\r")

		var value any
		if err := json.Unmarshal([]byte(trimmed), &value); err != nil {
			results = append(results, Result{
				Line: num,
				Err:  &LineError{Line: num, Raw: line, Cause: err},
			})
			continue
		}
		results = append(results, Result{Line: num, Value: value})
	}
	return results
}
