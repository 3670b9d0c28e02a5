package highlight

import (
	"testing"
)

func TestTokenTypeString(t *testing.T) {
	tests := []struct {
		tokenType TokenType
		expected  string
	}{
		{TokenNone, "none"},
		{TokenComment, "comment"},
		{TokenString, "string"},
		{TokenStringEscape, "string.escape"},
		{TokenKeyword, "keyword"},
		{TokenKeywordType, "keyword.type"},
		{TokenFunction, "function"},
		{TokenTypeName, "type"},
		{TokenPreprocessor, "preprocessor"},
		{tokenTypeCount, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.tokenType.String(); got != tt.expected {
				t.Errorf("TokenType.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTokenTypeFromString(t *testing.T) {
	for typ := TokenNone; typ < tokenTypeCount; typ++ {
		if got := TokenTypeFromString(typ.String()); got != typ {
			t.Errorf("TokenTypeFromString(%q) = %v, want %v", typ.String(), got, typ)
		}
	}
	if got := TokenTypeFromString("nonsense"); got != TokenNone {
		t.Errorf("unknown name should map to none, got %v", got)
	}
}

func TestTokenTypeCategories(t *testing.T) {
	if !TokenComment.IsComment() || TokenString.IsComment() {
		t.Error("IsComment misclassified")
	}
	for _, typ := range []TokenType{TokenKeyword, TokenKeywordType, TokenKeywordConstant} {
		if !typ.IsKeyword() {
			t.Errorf("%v should be a keyword", typ)
		}
	}
	if TokenOperator.IsKeyword() {
		t.Error("operator should not be a keyword")
	}
}

func TestToken(t *testing.T) {
	tok := Token{Start: 4, Text: "func", Type: TokenKeyword}

	if tok.End() != 8 || tok.Len() != 4 {
		t.Errorf("End/Len = %d/%d, want 8/4", tok.End(), tok.Len())
	}
	if !tok.Contains(4) || !tok.Contains(7) {
		t.Error("token should contain its bytes")
	}
	if tok.Contains(8) || tok.Contains(3) {
		t.Error("token should not contain bytes outside it")
	}
	if (Span{Start: 2, End: 9}).Len() != 7 {
		t.Error("Span.Len wrong")
	}
}
