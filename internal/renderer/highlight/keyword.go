package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Language describes the lexical surface of a language for the
// KeywordTokenizer. A Language is immutable once constructed.
type Language struct {
	name         string
	extensions   []string
	lineComment  string
	blockStart   string
	blockEnd     string
	stringDelims string
	preprocessor byte
	keywords     map[string]TokenType
}

// LanguageSpec is the construction input for NewLanguage.
type LanguageSpec struct {
	Name         string
	Extensions   []string
	LineComment  string
	BlockStart   string
	BlockEnd     string
	StringDelims string // quote characters, e.g. `"'`
	Preprocessor byte   // line prefix such as '#', 0 for none

	// Keywords maps token types to the words classified as them.
	Keywords map[TokenType][]string
}

// NewLanguage builds an immutable Language from spec.
func NewLanguage(spec LanguageSpec) *Language {
	l := &Language{
		name:         spec.Name,
		extensions:   append([]string(nil), spec.Extensions...),
		lineComment:  spec.LineComment,
		blockStart:   spec.BlockStart,
		blockEnd:     spec.BlockEnd,
		stringDelims: spec.StringDelims,
		preprocessor: spec.Preprocessor,
		keywords:     make(map[string]TokenType),
	}
	if l.blockStart == "" || l.blockEnd == "" {
		l.blockStart, l.blockEnd = "", ""
	}
	for typ, words := range spec.Keywords {
		for _, w := range words {
			l.keywords[w] = typ
		}
	}
	return l
}

// Name returns the language name.
func (l *Language) Name() string { return l.name }

// Extensions returns a copy of the file extensions of the language.
func (l *Language) Extensions() []string { return append([]string(nil), l.extensions...) }

// LineComment returns the line comment prefix, or "".
func (l *Language) LineComment() string { return l.lineComment }

// BlockComment returns the block comment delimiters, or two empty strings.
func (l *Language) BlockComment() (start, end string) { return l.blockStart, l.blockEnd }

// Keyword returns the classification of word.
func (l *Language) Keyword(word string) (TokenType, bool) {
	t, ok := l.keywords[word]
	return t, ok
}

// CLanguage returns the C/C++ language definition.
func CLanguage() *Language {
	return NewLanguage(LanguageSpec{
		Name:         "c",
		Extensions:   []string{".c", ".h", ".cc", ".cpp", ".cxx", ".hpp", ".hh"},
		LineComment:  "//",
		BlockStart:   "/*",
		BlockEnd:     "*/",
		StringDelims: `"'`,
		Preprocessor: '#',
		Keywords: map[TokenType][]string{
			TokenKeyword: {
				"auto", "break", "case", "class", "const", "constexpr", "continue",
				"default", "delete", "do", "else", "enum", "extern", "for", "goto",
				"if", "inline", "namespace", "new", "private", "protected", "public",
				"register", "return", "sizeof", "static", "struct", "switch",
				"template", "this", "typedef", "typename", "union", "using",
				"virtual", "volatile", "while",
			},
			TokenKeywordType: {
				"bool", "char", "double", "float", "int", "long", "short",
				"signed", "unsigned", "void", "size_t", "int8_t", "int16_t",
				"int32_t", "int64_t", "uint8_t", "uint16_t", "uint32_t", "uint64_t",
			},
			TokenKeywordConstant: {"true", "false", "NULL", "nullptr"},
		},
	})
}

// GoLanguage returns the Go language definition.
func GoLanguage() *Language {
	return NewLanguage(LanguageSpec{
		Name:         "go",
		Extensions:   []string{".go"},
		LineComment:  "//",
		BlockStart:   "/*",
		BlockEnd:     "*/",
		StringDelims: "\"'`",
		Keywords: map[TokenType][]string{
			TokenKeyword: {
				"break", "case", "chan", "const", "continue", "default", "defer",
				"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
				"interface", "map", "package", "range", "return", "select",
				"struct", "switch", "type", "var",
			},
			TokenKeywordType: {
				"int", "int8", "int16", "int32", "int64",
				"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
				"float32", "float64", "complex64", "complex128",
				"bool", "byte", "rune", "string", "error", "any",
			},
			TokenKeywordConstant: {"true", "false", "nil", "iota"},
			TokenBuiltin: {
				"make", "new", "len", "cap", "append", "copy", "delete",
				"close", "panic", "recover", "print", "println", "min", "max", "clear",
			},
		},
	})
}

// PythonLanguage returns the Python language definition.
func PythonLanguage() *Language {
	return NewLanguage(LanguageSpec{
		Name:         "python",
		Extensions:   []string{".py", ".pyw", ".pyi"},
		LineComment:  "#",
		StringDelims: `"'`,
		Keywords: map[TokenType][]string{
			TokenKeyword: {
				"and", "as", "assert", "async", "await", "break", "class",
				"continue", "def", "del", "elif", "else", "except", "finally",
				"for", "from", "global", "if", "import", "in", "is", "lambda",
				"nonlocal", "not", "or", "pass", "raise", "return", "try",
				"while", "with", "yield",
			},
			TokenKeywordConstant: {"True", "False", "None"},
			TokenBuiltin:         {"print", "len", "range", "int", "str", "list", "dict", "set"},
		},
	})
}

// PlainLanguage returns a language with no lexical rules.
func PlainLanguage() *Language {
	return NewLanguage(LanguageSpec{Name: "text", Extensions: []string{".txt"}})
}

// KeywordTokenizer is a small hand-written scanner driven by a Language.
// It recognizes comments, strings, numbers, keywords, preprocessor lines,
// operators and punctuation.
type KeywordTokenizer struct {
	lang *Language
}

// NewKeywordTokenizer creates a tokenizer for lang.
func NewKeywordTokenizer(lang *Language) *KeywordTokenizer {
	if lang == nil {
		lang = PlainLanguage()
	}
	return &KeywordTokenizer{lang: lang}
}

// Language returns the language of the tokenizer.
func (k *KeywordTokenizer) Language() *Language {
	return k.lang
}

// Tokenize implements Tokenizer. It never fails.
func (k *KeywordTokenizer) Tokenize(text string) ([]Token, error) {
	var tokens []Token
	emit := func(start, end int, typ TokenType) {
		tokens = append(tokens, Token{Start: ByteOffset(start), Text: text[start:end], Type: typ})
	}

	l := k.lang
	lineStart := true
	i := 0
	for i < len(text) {
		c := text[i]
		rest := text[i:]

		switch {
		case c == '\n':
			lineStart = true
			i++
			continue

		case c == ' ' || c == '\t':
			i++
			continue

		case lineStart && l.preprocessor != 0 && c == l.preprocessor:
			end := lineEnd(text, i)
			emit(i, end, TokenPreprocessor)
			i = end

		case l.lineComment != "" && strings.HasPrefix(rest, l.lineComment):
			end := lineEnd(text, i)
			emit(i, end, TokenComment)
			i = end

		case l.blockStart != "" && strings.HasPrefix(rest, l.blockStart):
			end := len(text)
			if j := strings.Index(text[i+len(l.blockStart):], l.blockEnd); j >= 0 {
				end = i + len(l.blockStart) + j + len(l.blockEnd)
			}
			emit(i, end, TokenComment)
			i = end

		case strings.IndexByte(l.stringDelims, c) >= 0:
			i = k.scanString(text, i, emit)

		case isDigit(c):
			end := scanNumber(text, i)
			emit(i, end, TokenNumber)
			i = end

		case isIdentStart(text, i):
			end := scanIdent(text, i)
			word := text[i:end]
			typ := TokenIdentifier
			if kt, ok := l.Keyword(word); ok {
				typ = kt
			} else if next := skipSpace(text, end); next < len(text) && text[next] == '(' {
				typ = TokenFunction
			}
			emit(i, end, typ)
			i = end

		case strings.IndexByte("+-*/%=<>!&|^~?:", c) >= 0:
			end := i + 1
			for end < len(text) && strings.IndexByte("+-*/%=<>!&|^~?:", text[end]) >= 0 &&
				!(l.lineComment != "" && strings.HasPrefix(text[end:], l.lineComment)) &&
				!(l.blockStart != "" && strings.HasPrefix(text[end:], l.blockStart)) {
				end++
			}
			emit(i, end, TokenOperator)
			i = end

		case strings.IndexByte("()[]{},;.", c) >= 0:
			emit(i, i+1, TokenPunctuation)
			i++

		default:
			_, size := utf8.DecodeRuneInString(rest)
			i += size
		}
		lineStart = false
	}
	return tokens, nil
}

// scanString emits a string starting at i, splitting escape sequences into
// TokenStringEscape tokens. Strings end at the closing quote or at the end
// of the line, except backtick strings which may span lines.
func (k *KeywordTokenizer) scanString(text string, i int, emit func(int, int, TokenType)) int {
	quote := text[i]
	multiline := quote == '`'
	segStart := i
	j := i + 1
	for j < len(text) {
		c := text[j]
		if c == quote {
			j++
			break
		}
		if c == '\n' && !multiline {
			break
		}
		if c == '\\' && !multiline && j+1 < len(text) && text[j+1] != '\n' {
			if j > segStart {
				emit(segStart, j, TokenString)
			}
			_, size := utf8.DecodeRuneInString(text[j+1:])
			emit(j, j+1+size, TokenStringEscape)
			j += 1 + size
			segStart = j
			continue
		}
		j++
	}
	if j > segStart {
		emit(segStart, j, TokenString)
	}
	return j
}

func lineEnd(text string, i int) int {
	if j := strings.IndexByte(text[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(text)
}

func skipSpace(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func scanNumber(text string, i int) int {
	j := i
	for j < len(text) {
		c := text[j]
		if isDigit(c) || c == '.' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			j++
			continue
		}
		// Exponent sign, as in 1e-9.
		if (c == '+' || c == '-') && j > i && (text[j-1] == 'e' || text[j-1] == 'E') {
			j++
			continue
		}
		break
	}
	return j
}

func isIdentStart(text string, i int) bool {
	r, _ := utf8.DecodeRuneInString(text[i:])
	return r == '_' || unicode.IsLetter(r)
}

func scanIdent(text string, i int) int {
	j := i
	for j < len(text) {
		r, size := utf8.DecodeRuneInString(text[j:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		j += size
	}
	return j
}
