// Package ndjson reads newline-delimited byte streams under a hard
// per-line byte budget. It never buffers more than one line (capped at
// the budget) plus one fixed-size read chunk, regardless of input size.
//
// The reader deals in raw bytes only: a trailing \r before the delimiter
// is kept in the line bytes, and no JSON decoding happens here. Trimming
// and classification belong to the protocol parsers.
package ndjson

import (
	"bytes"
	"io"
)

// DefaultMaxLineBytes is the per-line budget used when none is given.
const DefaultMaxLineBytes = 64 * 1024

// chunkSize is the fixed read-buffer size.
const chunkSize = 4096

// RecordType discriminates reader outcomes.
type RecordType int

const (
	// RecordLine is a fully buffered line within budget.
	RecordLine RecordType = iota
	// RecordTooLong is a line that exceeded the budget and was discarded.
	RecordTooLong
	// RecordReadError is a terminal transport failure.
	RecordReadError
)

// Record is the interface for all reader outcomes.
type Record interface {
	RecordType() RecordType
	LineNumber() int
}

// Line is one delimited (or final undelimited) line within budget.
// Bytes excludes the trailing \n but keeps a \r preceding it.
type Line struct {
	Bytes  []byte
	Number int
}

// RecordType returns the record type.
func (r Line) RecordType() RecordType { return RecordLine }

// LineNumber returns the 1-based line number.
func (r Line) LineNumber() int { return r.Number }

// TooLong reports a line whose byte count exceeded MaxLineBytes.
// The line content is discarded; ObservedBytes keeps counting through the
// delimiter for diagnostics.
type TooLong struct {
	Number        int
	ObservedBytes int
	MaxLineBytes  int
}

// RecordType returns the record type.
func (r TooLong) RecordType() RecordType { return RecordTooLong }

// LineNumber returns the 1-based line number.
func (r TooLong) LineNumber() int { return r.Number }

// ReadError reports a transport failure. It is the last record of the
// stream: no further records follow, and any partially buffered line is
// dropped.
type ReadError struct {
	Err    error
	Number int
}

// RecordType returns the record type.
func (r ReadError) RecordType() RecordType { return RecordReadError }

// LineNumber returns the 1-based number of the line being read when the
// failure occurred.
func (r ReadError) LineNumber() int { return r.Number }

// Reader splits a byte source into line records under a per-line budget.
// Line numbers are 1-based and contiguous, including across discarded
// lines. Not safe for concurrent use.
type Reader struct {
	src        io.Reader
	srcErr     error
	chunk      []byte
	pending    []byte
	line       []byte
	lineNum    int
	max        int
	observed   int
	discarding bool
	eof        bool
	done       bool
}

// NewReader creates a Reader over src. A maxLineBytes of zero or less
// selects DefaultMaxLineBytes.
func NewReader(src io.Reader, maxLineBytes int) *Reader {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return &Reader{
		src:     src,
		chunk:   make([]byte, chunkSize),
		line:    make([]byte, 0, 256),
		lineNum: 1,
		max:     maxLineBytes,
	}
}

// Next returns the next record. ok is false once the stream is exhausted;
// after a ReadError record, ok is false on every subsequent call.
func (r *Reader) Next() (rec Record, ok bool) {
	if r.done {
		return nil, false
	}

	for {
		if i := bytes.IndexByte(r.pending, '\n'); i >= 0 {
			seg := r.pending[:i]
			r.pending = r.pending[i+1:]
			r.consume(seg)
			return r.finishLine(), true
		}

		r.consume(r.pending)
		r.pending = nil

		if r.eof {
			if r.observed > 0 {
				// Trailing line with no final delimiter.
				rec := r.finishLine()
				r.done = true
				return rec, true
			}
			r.done = true
			return nil, false
		}

		if err := r.fill(); err != nil {
			r.done = true
			if err == io.EOF {
				continue
			}
			return ReadError{Number: r.lineNum, Err: err}, true
		}
	}
}

// fill reads one chunk from the source into the pending buffer.
// Bytes delivered alongside an error are processed before the error is
// surfaced on the following call.
func (r *Reader) fill() error {
	if r.srcErr != nil {
		err := r.srcErr
		if err == io.EOF {
			r.eof = true
		}
		return err
	}
	n, err := r.src.Read(r.chunk)
	if n > 0 {
		r.pending = r.chunk[:n]
		r.srcErr = err
		return nil
	}
	if err == nil {
		err = io.ErrNoProgress
	}
	if err == io.EOF {
		r.eof = true
	}
	return err
}

// consume appends seg to the current line, entering discard mode once the
// running byte count exceeds the budget. Observed bytes keep counting in
// discard mode so TooLong records can report the true line size.
func (r *Reader) consume(seg []byte) {
	if len(seg) == 0 {
		return
	}
	r.observed += len(seg)
	if r.discarding {
		return
	}
	if r.observed > r.max {
		// Inclusive boundary: a line of exactly max bytes is fine.
		r.discarding = true
		r.line = r.line[:0]
		return
	}
	r.line = append(r.line, seg...)
}

// finishLine emits the record for the current line and resets all
// per-line state. Discard state never leaks past the delimiter.
func (r *Reader) finishLine() Record {
	var rec Record
	if r.discarding {
		rec = TooLong{Number: r.lineNum, ObservedBytes: r.observed, MaxLineBytes: r.max}
	} else {
		out := make([]byte, len(r.line))
		copy(out, r.line)
		rec = Line{Number: r.lineNum, Bytes: out}
	}
	r.lineNum++
	r.line = r.line[:0]
	r.observed = 0
	r.discarding = false
	return rec
}
