// Package highlight provides syntax highlighting for the renderer.
//
// A Tokenizer classifies the whole buffer into Tokens. The Overlay caches the
// most recent token stream, recomputes it lazily after the text changes and
// slices it into per-line Spans for drawing. Themes map token types to
// colors.
package highlight

import (
	"github.com/dshills/slate/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// TokenType represents the semantic type of a token.
type TokenType uint16

// Token types for syntax highlighting.
const (
	TokenNone TokenType = iota

	TokenComment
	TokenString
	TokenStringEscape
	TokenNumber

	// Keywords
	TokenKeyword
	TokenKeywordType     // int, char, bool, etc.
	TokenKeywordConstant // true, false, nil, null

	// Operators and punctuation
	TokenOperator
	TokenPunctuation

	// Names
	TokenIdentifier
	TokenFunction
	TokenTypeName
	TokenConstant
	TokenBuiltin

	// Special
	TokenPreprocessor
	TokenMarkup
	TokenInvalid

	// Sentinel for iteration
	tokenTypeCount
)

// String returns the string representation of a token type.
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// IsComment returns true if this is a comment token.
func (t TokenType) IsComment() bool {
	return t == TokenComment
}

// IsKeyword returns true if this is a keyword token.
func (t TokenType) IsKeyword() bool {
	return t >= TokenKeyword && t <= TokenKeywordConstant
}

// TokenTypeFromString converts a name such as "keyword" or "comment" back to
// its TokenType. Unknown names map to TokenNone.
func TokenTypeFromString(name string) TokenType {
	if t, ok := nameToToken[name]; ok {
		return t
	}
	return TokenNone
}

// Token is a classified run of buffer text.
type Token struct {
	Start ByteOffset // Offset of the first byte
	Text  string     // The token's text
	Type  TokenType  // Semantic type
}

// End returns the offset just past the token.
func (t Token) End() ByteOffset {
	return t.Start + ByteOffset(len(t.Text))
}

// Len returns the length of the token in bytes.
func (t Token) Len() ByteOffset {
	return ByteOffset(len(t.Text))
}

// Contains returns true if offset is within the token.
func (t Token) Contains(offset ByteOffset) bool {
	return offset >= t.Start && offset < t.End()
}

// Span is a styled byte range of one visual line.
type Span struct {
	Start ByteOffset
	End   ByteOffset
	Type  TokenType
}

// Len returns the length of the span in bytes.
func (s Span) Len() ByteOffset {
	return s.End - s.Start
}

// tokenTypeNames maps token types to their string names.
var tokenTypeNames = []string{
	TokenNone: "none",

	TokenComment:      "comment",
	TokenString:       "string",
	TokenStringEscape: "string.escape",
	TokenNumber:       "number",

	TokenKeyword:         "keyword",
	TokenKeywordType:     "keyword.type",
	TokenKeywordConstant: "keyword.constant",

	TokenOperator:    "operator",
	TokenPunctuation: "punctuation",

	TokenIdentifier: "identifier",
	TokenFunction:   "function",
	TokenTypeName:   "type",
	TokenConstant:   "constant",
	TokenBuiltin:    "builtin",

	TokenPreprocessor: "preprocessor",
	TokenMarkup:       "markup",
	TokenInvalid:      "invalid",
}

// nameToToken maps names back to token types.
var nameToToken = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenTypeNames))
	for i, name := range tokenTypeNames {
		if name != "" {
			m[name] = TokenType(i)
		}
	}
	return m
}()
