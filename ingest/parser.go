package ingest

// LineParser is the contract every per-agent protocol parser implements.
//
// Both entry points classify one line of text into an event (ok true),
// no event (ok false, err nil — blank and whitespace-only lines), or a
// classified error. ParseValue additionally receives a generic JSON
// value the caller already decoded for its own purposes; the two entry
// points must yield the same classification for logically equivalent
// input, so callers never pay for a second decode to get identical
// behavior.
//
// Reset clears any cross-line state the implementation keeps. The
// Session calls it after a discarded or corrupted line so that one bad
// line cannot silently skew the classification of later ones.
type LineParser[E any] interface {
	ParseText(line string) (ev E, ok bool, err *AdapterError)
	ParseValue(line string, decoded map[string]any) (ev E, ok bool, err *AdapterError)
	Reset()

	// Name identifies the parser in error-sink records.
	Name() string
}
