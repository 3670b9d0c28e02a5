package highlight

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// ChromaTokenizer tokenizes text with a chroma lexer.
type ChromaTokenizer struct {
	lexer chroma.Lexer
}

// NewChromaTokenizer picks a lexer by language name, then by filename, then
// by analysing sample. Plain text is used when nothing matches.
func NewChromaTokenizer(language, filename, sample string) *ChromaTokenizer {
	return &ChromaTokenizer{lexer: chroma.Coalesce(resolveLexer(language, filename, sample))}
}

// NewChromaTokenizerForLexer wraps an explicit lexer.
func NewChromaTokenizerForLexer(l chroma.Lexer) *ChromaTokenizer {
	if l == nil {
		l = lexers.Fallback
	}
	return &ChromaTokenizer{lexer: chroma.Coalesce(l)}
}

func resolveLexer(language, filename, sample string) chroma.Lexer {
	if language != "" {
		if l := lexers.Get(language); l != nil {
			return l
		}
	}
	if filename != "" {
		if l := lexers.Match(filename); l != nil {
			return l
		}
	}
	if sample != "" {
		if l := lexers.Analyse(sample); l != nil {
			return l
		}
	}
	return lexers.Fallback
}

// Language returns the name of the lexer in use.
func (c *ChromaTokenizer) Language() string {
	if cfg := c.lexer.Config(); cfg != nil {
		return cfg.Name
	}
	return ""
}

// Tokenize implements Tokenizer. Offsets are accumulated from the token
// values, so the lexer must not rewrite its input; buffers are already
// LF-normalized.
func (c *ChromaTokenizer) Tokenize(text string) ([]Token, error) {
	it, err := c.lexer.Tokenise(nil, text)
	if err != nil {
		return nil, fmt.Errorf("tokenise %s: %w", c.Language(), err)
	}

	var tokens []Token
	var pos ByteOffset
	for tok := it(); tok != chroma.EOF; tok = it() {
		n := ByteOffset(len(tok.Value))
		if n == 0 {
			continue
		}
		if typ := fromChroma(tok.Type); typ != TokenNone {
			tokens = append(tokens, Token{Start: pos, Text: tok.Value, Type: typ})
		}
		pos += n
	}
	return tokens, nil
}

// fromChroma maps a chroma token type onto the coarser TokenType set.
// Subcategories are checked before their parent category.
func fromChroma(t chroma.TokenType) TokenType {
	switch {
	case t == chroma.Error:
		return TokenInvalid
	case t.InSubCategory(chroma.CommentPreproc):
		return TokenPreprocessor
	case t.InCategory(chroma.Comment):
		return TokenComment

	case t == chroma.KeywordType:
		return TokenKeywordType
	case t == chroma.KeywordConstant:
		return TokenKeywordConstant
	case t.InCategory(chroma.Keyword):
		return TokenKeyword

	case t.InSubCategory(chroma.NameFunction):
		return TokenFunction
	case t.InSubCategory(chroma.NameBuiltin):
		return TokenBuiltin
	case t == chroma.NameClass:
		return TokenTypeName
	case t == chroma.NameConstant:
		return TokenConstant
	case t.InCategory(chroma.Name):
		return TokenIdentifier

	case t == chroma.LiteralStringEscape:
		return TokenStringEscape
	case t.InSubCategory(chroma.LiteralString):
		return TokenString
	case t.InSubCategory(chroma.LiteralNumber):
		return TokenNumber

	case t.InCategory(chroma.Operator):
		return TokenOperator
	case t.InCategory(chroma.Punctuation):
		return TokenPunctuation
	case t.InCategory(chroma.Generic):
		return TokenMarkup
	}
	return TokenNone
}
