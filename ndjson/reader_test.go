package ndjson

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func collect(t *testing.T, input string, max int) []Record {
	t.Helper()
	r := NewReader(strings.NewReader(input), max)
	var recs []Record
	for {
		rec, ok := r.Next()
		if !ok {
			return recs
		}
		recs = append(recs, rec)
	}
}

func TestReader_SimpleLines(t *testing.T) {
	recs := collect(t, "alpha\nbeta\ngamma\n", 0)
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	want := []string{"alpha", "beta", "gamma"}
	for i, rec := range recs {
		line, ok := rec.(Line)
		if !ok {
			t.Fatalf("record %d: expected Line, got %T", i, rec)
		}
		if line.Number != i+1 {
			t.Errorf("record %d: expected line number %d, got %d", i, i+1, line.Number)
		}
		if string(line.Bytes) != want[i] {
			t.Errorf("record %d: expected %q, got %q", i, want[i], line.Bytes)
		}
	}
}

func TestReader_TrailingPartialLine(t *testing.T) {
	recs := collect(t, "one\ntwo", 0)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	last := recs[1].(Line)
	if string(last.Bytes) != "two" || last.Number != 2 {
		t.Errorf("unexpected trailing record: %+v", last)
	}
}

func TestReader_NoTrailingEmptyRecord(t *testing.T) {
	recs := collect(t, "only\n", 0)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
}

func TestReader_KeepsCarriageReturn(t *testing.T) {
	recs := collect(t, "crlf\r\nplain\n", 0)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if got := string(recs[0].(Line).Bytes); got != "crlf\r" {
		t.Errorf("expected CR retained, got %q", got)
	}
	if got := string(recs[1].(Line).Bytes); got != "plain" {
		t.Errorf("unexpected second line %q", got)
	}
}

func TestReader_BlankLinesAreRecords(t *testing.T) {
	recs := collect(t, "a\n\nb\n", 0)
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	blank := recs[1].(Line)
	if len(blank.Bytes) != 0 || blank.Number != 2 {
		t.Errorf("unexpected blank record: %+v", blank)
	}
}

func TestReader_TooLongThenRecovers(t *testing.T) {
	long := strings.Repeat("x", 50)
	recs := collect(t, "ok1\n"+long+"\nok2\n", 16)
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if _, ok := recs[0].(Line); !ok {
		t.Fatalf("record 0: expected Line, got %T", recs[0])
	}
	tooLong, ok := recs[1].(TooLong)
	if !ok {
		t.Fatalf("record 1: expected TooLong, got %T", recs[1])
	}
	if tooLong.Number != 2 {
		t.Errorf("expected line number 2, got %d", tooLong.Number)
	}
	if tooLong.ObservedBytes != 50 {
		t.Errorf("expected 50 observed bytes, got %d", tooLong.ObservedBytes)
	}
	if tooLong.MaxLineBytes != 16 {
		t.Errorf("expected max 16, got %d", tooLong.MaxLineBytes)
	}
	// Discard state must not leak into the next line.
	next, ok := recs[2].(Line)
	if !ok {
		t.Fatalf("record 2: expected Line, got %T", recs[2])
	}
	if string(next.Bytes) != "ok2" || next.Number != 3 {
		t.Errorf("unexpected record after TooLong: %+v", next)
	}
}

func TestReader_ExactBudgetBoundary(t *testing.T) {
	exact := strings.Repeat("y", 16)
	recs := collect(t, exact+"\n", 16)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	line, ok := recs[0].(Line)
	if !ok {
		t.Fatalf("expected Line at inclusive boundary, got %T", recs[0])
	}
	if string(line.Bytes) != exact {
		t.Errorf("boundary line corrupted: %q", line.Bytes)
	}

	over := exact + "z"
	recs = collect(t, over+"\n", 16)
	tooLong, ok := recs[0].(TooLong)
	if !ok {
		t.Fatalf("expected TooLong one past boundary, got %T", recs[0])
	}
	if tooLong.ObservedBytes != 17 {
		t.Errorf("expected 17 observed bytes, got %d", tooLong.ObservedBytes)
	}
}

func TestReader_LongLineSpanningChunks(t *testing.T) {
	// Longer than one read chunk to exercise the chunked scan path.
	long := strings.Repeat("a", chunkSize*3+17)
	recs := collect(t, long+"\nshort\n", 0)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if got := recs[0].(Line).Bytes; len(got) != len(long) {
		t.Errorf("expected %d bytes, got %d", len(long), len(got))
	}
	if got := string(recs[1].(Line).Bytes); got != "short" {
		t.Errorf("unexpected second line %q", got)
	}
}

func TestReader_ContiguousNumbering(t *testing.T) {
	long := strings.Repeat("x", 100)
	input := "a\n" + long + "\n\n" + long + "\nb"
	recs := collect(t, input, 10)
	if len(recs) != 5 {
		t.Fatalf("expected 5 records, got %d", len(recs))
	}
	for i, rec := range recs {
		if rec.LineNumber() != i+1 {
			t.Errorf("record %d: expected line number %d, got %d", i, i+1, rec.LineNumber())
		}
	}
}

// errReader fails after delivering its prefix.
type errReader struct {
	data []byte
	err  error
}

func (r *errReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestReader_IOErrorIsTerminal(t *testing.T) {
	boom := errors.New("pipe burst")
	r := NewReader(&errReader{data: []byte("good\npart"), err: boom}, 0)

	rec, ok := r.Next()
	if !ok {
		t.Fatal("expected first record")
	}
	if got := string(rec.(Line).Bytes); got != "good" {
		t.Errorf("unexpected first line %q", got)
	}

	rec, ok = r.Next()
	if !ok {
		t.Fatal("expected ReadError record")
	}
	readErr, isErr := rec.(ReadError)
	if !isErr {
		t.Fatalf("expected ReadError, got %T", rec)
	}
	if !errors.Is(readErr.Err, boom) {
		t.Errorf("expected wrapped cause, got %v", readErr.Err)
	}
	if readErr.Number != 2 {
		t.Errorf("expected line number 2, got %d", readErr.Number)
	}

	if _, ok := r.Next(); ok {
		t.Error("expected no records after terminal error")
	}
}

func TestReader_EmptyInput(t *testing.T) {
	recs := collect(t, "", 0)
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}
}

func TestReader_BytesAreCopied(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("first\nsecond\n")
	r := NewReader(&buf, 0)

	rec1, _ := r.Next()
	rec2, _ := r.Next()
	if string(rec1.(Line).Bytes) != "first" {
		t.Errorf("first record mutated: %q", rec1.(Line).Bytes)
	}
	if string(rec2.(Line).Bytes) != "second" {
		t.Errorf("second record mutated: %q", rec2.(Line).Bytes)
	}
}

func TestReader_ReadAfterExhaustion(t *testing.T) {
	r := NewReader(io.MultiReader(strings.NewReader("x\n")), 0)
	if _, ok := r.Next(); !ok {
		t.Fatal("expected one record")
	}
	for i := 0; i < 3; i++ {
		if _, ok := r.Next(); ok {
			t.Fatal("expected exhausted reader to stay exhausted")
		}
	}
}
