package jsonl

import (
	"strings"
	"testing"
)

func TestSplit_MixedLines(t *testing.T) {
	text := `{"type":"ok","n":1}
not json
{"type":"ok","n":2}
`
	results := Split(text)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	first, ok := results[0].Value.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", results[0].Value)
	}
	if first["n"] != float64(1) {
		t.Errorf("expected n=1, got %v", first["n"])
	}

	if results[1].Err == nil {
		t.Fatal("expected error for line 2")
	}
	if results[1].Err.Line != 2 {
		t.Errorf("expected line 2, got %d", results[1].Err.Line)
	}
	if !strings.Contains(results[1].Err.Raw, "not json") {
		t.Errorf("expected raw line retained, got %q", results[1].Err.Raw)
	}

	third := results[2].Value.(map[string]any)
	if third["n"] != float64(2) {
		t.Errorf("expected n=2, got %v", third["n"])
	}
}

func TestSplit_PhysicalLineNumbering(t *testing.T) {
	// Unlike the typed parsers, blank lines are classified (and fail to
	// decode) and every physical line gets a number.
	results := Split("1\n\n3\n")
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Value != float64(1) || results[0].Line != 1 {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].Err == nil || results[1].Line != 2 {
		t.Errorf("expected blank line 2 to be an error, got %+v", results[1])
	}
	if results[2].Value != float64(3) || results[2].Line != 3 {
		t.Errorf("unexpected third result: %+v", results[2])
	}
}

func TestSplit_NoTrailingPhantomLine(t *testing.T) {
	if got := len(Split("{}\n")); got != 1 {
		t.Errorf("expected 1 result for delimited input, got %d", got)
	}
	if got := len(Split("{}")); got != 1 {
		t.Errorf("expected 1 result for undelimited input, got %d", got)
	}
	if got := len(Split("")); got != 0 {
		t.Errorf("expected 0 results for empty input, got %d", got)
	}
}

func TestSplit_CarriageReturn(t *testing.T) {
	results := Split("{\"a\":1}\r\n{\"b\":2}\r\n")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result %d: unexpected error %v", i, r.Err)
		}
	}
}

func TestSplit_ScalarsAndArrays(t *testing.T) {
	results := Split("42\n\"text\"\n[1,2]\nnull\ntrue\n")
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result %d: unexpected error %v", i, r.Err)
		}
	}
	if results[0].Value != float64(42) {
		t.Errorf("unexpected scalar %v", results[0].Value)
	}
	if results[3].Value != nil {
		t.Errorf("expected decoded null, got %v", results[3].Value)
	}
}

func TestSplit_NeverPanics(t *testing.T) {
	inputs := []string{
		"\x00\x01\x02\n",
		strings.Repeat("{", 1000) + "\n",
		"\n\n\n\n",
		"}{\n][\n",
	}
	for _, input := range inputs {
		results := Split(input)
		for _, r := range results {
			if r.Err == nil && r.Value == nil {
				t.Errorf("input %q: result carries neither value nor error", input)
			}
		}
	}
}
