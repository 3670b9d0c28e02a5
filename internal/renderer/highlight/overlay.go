package highlight

import (
	"sort"

	"github.com/dshills/slate/internal/engine/buffer"
)

// Tokenizer classifies a whole text into tokens.
//
// Tokens should be ordered by Start and cover the text, but consumers
// tolerate gaps, overlaps and tokens reaching past the end of the text.
type Tokenizer interface {
	Tokenize(text string) ([]Token, error)
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(text string) ([]Token, error)

// Tokenize implements Tokenizer.
func (f TokenizerFunc) Tokenize(text string) ([]Token, error) {
	return f(text)
}

// Overlay caches the token stream of a buffer.
//
// The owner calls Invalidate on every text change; the tokens are recomputed
// on the next query, once per distinct content.
type Overlay struct {
	tokenizer Tokenizer
	tokens    []Token
	dirty     bool
	err       error

	recomputes uint64
}

// NewOverlay creates an overlay using t. A nil tokenizer produces no tokens.
func NewOverlay(t Tokenizer) *Overlay {
	return &Overlay{tokenizer: t, dirty: true}
}

// SetTokenizer replaces the tokenizer and invalidates the cache.
func (o *Overlay) SetTokenizer(t Tokenizer) {
	o.tokenizer = t
	o.dirty = true
}

// Invalidate marks the cached tokens as stale.
func (o *Overlay) Invalidate() {
	o.dirty = true
}

// IsDirty reports whether the next query will re-tokenize.
func (o *Overlay) IsDirty() bool {
	return o.dirty
}

// Err returns the error of the last tokenization, if any. A failed
// tokenization leaves the text unstyled.
func (o *Overlay) Err() error {
	return o.err
}

// Recomputes returns how many times the tokenizer has run.
func (o *Overlay) Recomputes() uint64 {
	return o.recomputes
}

// Tokens returns the tokens of text, re-tokenizing if the cache is dirty.
// The returned slice must not be modified.
func (o *Overlay) Tokens(text string) []Token {
	if !o.dirty {
		return o.tokens
	}
	o.dirty = false
	o.recomputes++
	o.tokens = nil
	o.err = nil

	if o.tokenizer == nil {
		return nil
	}
	tokens, err := o.tokenizer.Tokenize(text)
	if err != nil {
		o.err = err
		return nil
	}
	o.tokens = normalizeTokens(tokens, ByteOffset(len(text)))
	return o.tokens
}

// normalizeTokens drops empty tokens, clips tokens to [0, limit) and orders
// them by start offset.
func normalizeTokens(tokens []Token, limit ByteOffset) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Start < 0 || tok.Start >= limit || tok.Text == "" {
			continue
		}
		if tok.End() > limit {
			tok.Text = tok.Text[:limit-tok.Start]
		}
		out = append(out, tok)
	}
	if !sort.SliceIsSorted(out, func(i, j int) bool { return out[i].Start < out[j].Start }) {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	}
	return out
}

// Spans returns the styled spans of each range in lines. lines must be
// ordered by offset, as visual lines are. Every range is fully covered: the
// parts no token touches are returned as TokenNone spans.
func (o *Overlay) Spans(text string, lines []buffer.Range) [][]Span {
	return MergeSpans(o.Tokens(text), lines)
}

// MergeSpans splits ordered tokens across ordered ranges in a single forward
// scan. Tokens spanning several ranges are split between them.
func MergeSpans(tokens []Token, lines []buffer.Range) [][]Span {
	out := make([][]Span, len(lines))
	idx := 0
	for li, r := range lines {
		// Skip tokens that end before this line.
		for idx < len(tokens) && tokens[idx].End() <= r.Start {
			idx++
		}

		var spans []Span
		pos := r.Start
		for j := idx; j < len(tokens); j++ {
			tok := tokens[j]
			if tok.Start >= r.End {
				break
			}
			s := max(tok.Start, pos)
			e := min(tok.End(), r.End)
			if e <= s {
				continue
			}
			if s > pos {
				spans = append(spans, Span{Start: pos, End: s, Type: TokenNone})
			}
			spans = append(spans, Span{Start: s, End: e, Type: tok.Type})
			pos = e
		}
		if pos < r.End {
			spans = append(spans, Span{Start: pos, End: r.End, Type: TokenNone})
		}
		out[li] = spans
	}
	return out
}
