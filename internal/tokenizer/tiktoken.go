package tokenizer

import (
	"github.com/tiktoken-go/tokenizer"
)

// tiktokenCounter adapts a tiktoken-go Codec to the Counter interface.
// Grounded on shinmentakezo07-CLIProxyAPI's codex executor, which selects
// a codec once per model and reuses it across calls the same way.
type tiktokenCounter struct {
	codec tokenizer.Codec
}

// NewTiktoken returns a Counter backed by the cl100k_base BPE vocabulary,
// the same default codec the reference executor falls back to for
// unrecognized/empty model names. Returns (nil, err) if the vocabulary
// cannot be loaded, so callers can fall back to Approx.
func NewTiktoken() (Counter, error) {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, err
	}
	return &tiktokenCounter{codec: codec}, nil
}

func (t *tiktokenCounter) Count(text string) int {
	ids, _, err := t.codec.Encode(text)
	if err != nil {
		// Degrade gracefully rather than propagating: Counter has no
		// error result, so an encoding failure falls back to the
		// approximate count.
		return approxCount(text)
	}
	return len(ids)
}
