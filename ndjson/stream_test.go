package ndjson

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestStream_DeliversAllRecords(t *testing.T) {
	src := strings.NewReader("a\nb\nc")
	var recs []Record
	for rec := range Stream(context.Background(), src, 0) {
		recs = append(recs, rec)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	for i, rec := range recs {
		if rec.LineNumber() != i+1 {
			t.Errorf("record %d: expected line %d, got %d", i, i+1, rec.LineNumber())
		}
	}
}

func TestStream_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// A pipe that never delivers a delimiter keeps the reader waiting on
	// its single suspension point.
	pr, pw := io.Pipe()
	defer pw.Close()

	ch := Stream(ctx, pr, 0)
	cancel()
	pw.CloseWithError(io.EOF)

	select {
	case _, open := <-ch:
		if open {
			// A record may have raced the cancel; the channel must still
			// close.
			for range ch {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after cancel")
	}
}

func TestStream_IndependentSessions(t *testing.T) {
	ctx := context.Background()
	out := Stream(ctx, strings.NewReader("stdout line\n"), 0)
	errs := Stream(ctx, strings.NewReader("stderr line\n"), 0)

	o := <-out
	e := <-errs
	if string(o.(Line).Bytes) != "stdout line" {
		t.Errorf("unexpected stdout record: %v", o)
	}
	if string(e.(Line).Bytes) != "stderr line" {
		t.Errorf("unexpected stderr record: %v", e)
	}
	if o.LineNumber() != 1 || e.LineNumber() != 1 {
		t.Error("sessions must number lines independently")
	}
}
