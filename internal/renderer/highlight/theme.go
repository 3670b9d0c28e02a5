package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Style is the drawing style of one token type.
type Style struct {
	Foreground colorful.Color
	Bold       bool
	Italic     bool
	Underline  bool
}

// Theme maps token types to styles. A Theme is immutable once constructed;
// use the With methods to derive variants.
type Theme struct {
	name          string
	background    colorful.Color
	foreground    colorful.Color
	selection     colorful.Color
	cursor        colorful.Color
	lineHighlight colorful.Color
	gutter        colorful.Color
	styles        [tokenTypeCount]Style
	hasStyle      [tokenTypeCount]bool
}

// ThemeColors holds the editor-level colors of a theme.
type ThemeColors struct {
	Background    colorful.Color
	Foreground    colorful.Color
	Selection     colorful.Color
	Cursor        colorful.Color
	LineHighlight colorful.Color
	Gutter        colorful.Color
}

// NewTheme creates a theme from editor colors and per-token styles. Zero
// selection, line highlight and gutter colors are derived from the
// background and foreground.
func NewTheme(name string, colors ThemeColors, tokenStyles map[TokenType]Style) *Theme {
	t := &Theme{
		name:          name,
		background:    colors.Background,
		foreground:    colors.Foreground,
		selection:     colors.Selection,
		cursor:        colors.Cursor,
		lineHighlight: colors.LineHighlight,
		gutter:        colors.Gutter,
	}
	zero := colorful.Color{}
	if t.selection == zero {
		t.selection = t.background.BlendLab(t.foreground, 0.25).Clamped()
	}
	if t.lineHighlight == zero {
		t.lineHighlight = t.background.BlendLab(t.foreground, 0.06).Clamped()
	}
	if t.gutter == zero {
		t.gutter = t.background.BlendLab(t.foreground, 0.45).Clamped()
	}
	if t.cursor == zero {
		t.cursor = t.foreground
	}
	for typ, s := range tokenStyles {
		if typ < tokenTypeCount {
			t.styles[typ] = s
			t.hasStyle[typ] = true
		}
	}
	return t
}

// Name returns the display name of the theme.
func (t *Theme) Name() string { return t.name }

// Background returns the editor background color.
func (t *Theme) Background() colorful.Color { return t.background }

// Foreground returns the default text color.
func (t *Theme) Foreground() colorful.Color { return t.foreground }

// Selection returns the selection highlight color.
func (t *Theme) Selection() colorful.Color { return t.selection }

// Cursor returns the cursor color.
func (t *Theme) Cursor() colorful.Color { return t.cursor }

// LineHighlight returns the current line highlight color.
func (t *Theme) LineHighlight() colorful.Color { return t.lineHighlight }

// Gutter returns the line number color.
func (t *Theme) Gutter() colorful.Color { return t.gutter }

// StyleFor returns the style for a token type. Types without a style of
// their own use the style of their parent type, and finally the plain
// foreground.
func (t *Theme) StyleFor(typ TokenType) Style {
	for typ < tokenTypeCount {
		if t.hasStyle[typ] {
			return t.styles[typ]
		}
		parent, ok := parentType[typ]
		if !ok {
			break
		}
		typ = parent
	}
	return Style{Foreground: t.foreground}
}

// WithSelection returns a copy of the theme with another selection color.
func (t *Theme) WithSelection(c colorful.Color) *Theme {
	cp := *t
	cp.selection = c
	return &cp
}

// parentType lists the fallbacks of the finer token types.
var parentType = map[TokenType]TokenType{
	TokenStringEscape:    TokenString,
	TokenKeywordType:     TokenKeyword,
	TokenKeywordConstant: TokenKeyword,
	TokenBuiltin:         TokenFunction,
	TokenConstant:        TokenIdentifier,
	TokenFunction:        TokenIdentifier,
	TokenTypeName:        TokenIdentifier,
}

// DefaultTheme returns the built-in dark theme.
func DefaultTheme() *Theme {
	comment := mustHex("#6a9955")
	keyword := mustHex("#569cd6")
	str := mustHex("#ce9178")
	number := mustHex("#b5cea8")
	function := mustHex("#dcdcaa")
	typ := mustHex("#4ec9b0")
	variable := mustHex("#9cdcfe")
	operator := mustHex("#d4d4d4")
	invalid := mustHex("#f44747")

	return NewTheme("default", ThemeColors{
		Background: mustHex("#1e1e1e"),
		Foreground: mustHex("#d4d4d4"),
		Selection:  mustHex("#404080"),
		Cursor:     mustHex("#ffffff"),
	}, map[TokenType]Style{
		TokenComment:         {Foreground: comment, Italic: true},
		TokenString:          {Foreground: str},
		TokenStringEscape:    {Foreground: mustHex("#d7ba7d")},
		TokenNumber:          {Foreground: number},
		TokenKeyword:         {Foreground: keyword},
		TokenKeywordType:     {Foreground: typ},
		TokenKeywordConstant: {Foreground: keyword},
		TokenOperator:        {Foreground: operator},
		TokenPunctuation:     {Foreground: operator},
		TokenIdentifier:      {Foreground: variable},
		TokenFunction:        {Foreground: function},
		TokenTypeName:        {Foreground: typ},
		TokenPreprocessor:    {Foreground: mustHex("#c586c0")},
		TokenMarkup:          {Foreground: keyword, Bold: true},
		TokenInvalid:         {Foreground: invalid, Underline: true},
	})
}

// ThemeByName returns the built-in theme or, failing that, the chroma style
// of that name. Unknown names return the default theme and false.
func ThemeByName(name string) (*Theme, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "default" {
		return DefaultTheme(), true
	}
	s, ok := styles.Registry[name]
	if !ok {
		return DefaultTheme(), false
	}
	return ThemeFromChroma(s), true
}

// representative is the chroma type whose style a token type takes.
var representative = [tokenTypeCount]chroma.TokenType{
	TokenNone:            chroma.Text,
	TokenComment:         chroma.Comment,
	TokenString:          chroma.LiteralString,
	TokenStringEscape:    chroma.LiteralStringEscape,
	TokenNumber:          chroma.LiteralNumber,
	TokenKeyword:         chroma.Keyword,
	TokenKeywordType:     chroma.KeywordType,
	TokenKeywordConstant: chroma.KeywordConstant,
	TokenOperator:        chroma.Operator,
	TokenPunctuation:     chroma.Punctuation,
	TokenIdentifier:      chroma.Name,
	TokenFunction:        chroma.NameFunction,
	TokenTypeName:        chroma.NameClass,
	TokenConstant:        chroma.NameConstant,
	TokenBuiltin:         chroma.NameBuiltin,
	TokenPreprocessor:    chroma.CommentPreproc,
	TokenMarkup:          chroma.GenericHeading,
	TokenInvalid:         chroma.Error,
}

// ThemeFromChroma converts a chroma style into a Theme.
func ThemeFromChroma(s *chroma.Style) *Theme {
	bg := s.Get(chroma.Background)
	fg := fromColour(bg.Colour, mustHex("#d4d4d4"))
	colors := ThemeColors{
		Background: fromColour(bg.Background, mustHex("#000000")),
		Foreground: fg,
	}
	if lh := s.Get(chroma.LineHighlight); lh.Background.IsSet() {
		colors.LineHighlight = fromColour(lh.Background, colorful.Color{})
	}
	if ln := s.Get(chroma.LineNumbers); ln.Colour.IsSet() {
		colors.Gutter = fromColour(ln.Colour, colorful.Color{})
	}

	tokenStyles := make(map[TokenType]Style, tokenTypeCount)
	for typ := TokenComment; typ < tokenTypeCount; typ++ {
		e := s.Get(representative[typ])
		tokenStyles[typ] = Style{
			Foreground: fromColour(e.Colour, fg),
			Bold:       e.Bold == chroma.Yes,
			Italic:     e.Italic == chroma.Yes,
			Underline:  e.Underline == chroma.Yes,
		}
	}
	return NewTheme(s.Name, colors, tokenStyles)
}

func fromColour(c chroma.Colour, fallback colorful.Color) colorful.Color {
	if !c.IsSet() {
		return fallback
	}
	return colorful.Color{
		R: float64(c.Red()) / 255,
		G: float64(c.Green()) / 255,
		B: float64(c.Blue()) / 255,
	}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
