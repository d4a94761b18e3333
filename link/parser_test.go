package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/rangelink/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  ParsedLink
	}{
		{
			input: "src/auth.ts#L42C10-L58C25",
			want: ParsedLink{
				Path:          "src/auth.ts",
				Start:         LinkPosition{Line: 42, Character: 10},
				End:           LinkPosition{Line: 58, Character: 25},
				LinkType:      LinkTypeRegular,
				SelectionType: SelectionNormal,
			},
		},
		{
			input: "src/auth.ts#L42",
			want: ParsedLink{
				Path:          "src/auth.ts",
				Start:         LinkPosition{Line: 42},
				End:           LinkPosition{Line: 42},
				LinkType:      LinkTypeRegular,
				SelectionType: SelectionNormal,
			},
		},
		{
			input: "src/auth.ts#L1-L3C4",
			want: ParsedLink{
				Path:          "src/auth.ts",
				Start:         LinkPosition{Line: 1},
				End:           LinkPosition{Line: 3, Character: 4},
				LinkType:      LinkTypeRegular,
				SelectionType: SelectionNormal,
			},
		},
		{
			input: "file#1.ts#L42",
			want: ParsedLink{
				Path:          "file#1.ts",
				Start:         LinkPosition{Line: 42},
				End:           LinkPosition{Line: 42},
				LinkType:      LinkTypeRegular,
				SelectionType: SelectionNormal,
			},
		},
		{
			input: "data.csv##L10C5-L20C10",
			want: ParsedLink{
				Path:          "data.csv",
				Start:         LinkPosition{Line: 10, Character: 5},
				End:           LinkPosition{Line: 20, Character: 10},
				LinkType:      LinkTypeRectangular,
				SelectionType: SelectionRectangular,
			},
		},
		{
			input: "  /abs/path/main.go#L7  ",
			want: ParsedLink{
				Path:          "/abs/path/main.go",
				Start:         LinkPosition{Line: 7},
				End:           LinkPosition{Line: 7},
				LinkType:      LinkTypeRegular,
				SelectionType: SelectionNormal,
			},
		},
		{
			input: "'my file.ts'#L3",
			want: ParsedLink{
				Path:          "my file.ts",
				Start:         LinkPosition{Line: 3},
				End:           LinkPosition{Line: 3},
				LinkType:      LinkTypeRegular,
				SelectionType: SelectionNormal,
			},
		},
		{
			input: `'it'\''s.ts'#L3`,
			want: ParsedLink{
				Path:          "it's.ts",
				Start:         LinkPosition{Line: 3},
				End:           LinkPosition{Line: 3},
				LinkType:      LinkTypeRegular,
				SelectionType: SelectionNormal,
			},
		},
		{
			input: `"say \"hi\".ts"#L3C2`,
			want: ParsedLink{
				Path:          `say "hi".ts`,
				Start:         LinkPosition{Line: 3, Character: 2},
				End:           LinkPosition{Line: 3, Character: 2},
				LinkType:      LinkTypeRegular,
				SelectionType: SelectionNormal,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := Parse(tt.input, DefaultDelimiters())
			require.True(t, res.OK(), "unexpected error: %v", res.Err)
			assert.Equal(t, tt.want, *res.Link)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		input string
		kind  ErrorKind
	}{
		{"", ErrorKindMalformed},
		{"not a link", ErrorKindMalformed},
		{"#L10", ErrorKindMalformed},
		{"src/auth.ts", ErrorKindMalformed},
		{"a.ts#L0", ErrorKindInvalidLine},
		{"a.ts#L-5", ErrorKindInvalidLine},
		{"a.ts#Labc", ErrorKindInvalidLine},
		{"a.ts#L99999999999999999999", ErrorKindInvalidLine},
		{"a.ts#L10-L0", ErrorKindInvalidLine},
		{"a.ts#L10C0", ErrorKindInvalidCharacter},
		{"a.ts#L10C-2", ErrorKindInvalidCharacter},
		{"a.ts#L10-L12C0", ErrorKindInvalidCharacter},
		{"a.ts#L10Cx", ErrorKindInvalidCharacter},
		{"a.ts#L10C", ErrorKindInvalidCharacter},
		{"a.ts#L10C5-L20Cz", ErrorKindInvalidCharacter},
		{"a.ts#L10-Lx", ErrorKindInvalidLine},
		{"a.ts#L10-", ErrorKindMalformed},
		{"a.ts#L10-20", ErrorKindMalformed},
		{"a.ts#L10 trailing", ErrorKindMalformed},
		{"https://x.io/a.ts#Lx", ErrorKindURLPath},
		{"https://example.com/file.ts#L10", ErrorKindURLPath},
		{"ftp://host/file.ts#L10", ErrorKindURLPath},
		{"a.ts#L20-L10", ErrorKindInvertedRange},
		{"a.ts#L10C9-L10C3", ErrorKindInvertedRange},
		{"a.ts#L10~#~L~L~C~", ErrorKindPortableMetadata},
		{"a.ts#L10~#~L1~-~C~", ErrorKindPortableMetadata},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := Parse(tt.input, DefaultDelimiters())
			require.False(t, res.OK())
			require.NotNil(t, res.Err)
			assert.Nil(t, res.Link)
			assert.Equal(t, tt.kind, res.Err.Kind)
			assert.True(t, errors.Is(res.Err, errors.ErrInvalidLink))
		})
	}
}

func TestParse_ErrorMessages(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a.ts#Lx", "line number is missing"},
		{"a.ts#L10Cx", `position delimiter "C"`},
		{"a.ts#L10-", `range delimiter "-" is not followed by L`},
		{"a.ts#L10C5 trailing", `unexpected text " trailing"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := Parse(tt.input, DefaultDelimiters())
			require.NotNil(t, res.Err)
			assert.Contains(t, res.Err.Message, tt.want)
			assert.Equal(t, tt.input, res.Err.Input)
		})
	}
}

func TestParse_MultiRuneHash(t *testing.T) {
	cfg := DelimiterConfig{Line: "L", Position: "C", Hash: ">>", Range: "-"}

	res := Parse("b.ts>>L10", cfg)
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Equal(t, "b.ts", res.Link.Path)
	assert.False(t, res.Link.IsRectangular())

	res = Parse("y.ts>>>>L1C2-L4C5", cfg)
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Equal(t, "y.ts", res.Link.Path)
	assert.True(t, res.Link.IsRectangular())
	assert.Equal(t, LinkPosition{Line: 1, Character: 2}, res.Link.Start)
	assert.Equal(t, LinkPosition{Line: 4, Character: 5}, res.Link.End)

	// A multi-rune hash may not appear inside the path
	res = Parse("a>>b.ts>>L10", cfg)
	require.NotNil(t, res.Err)
	assert.Equal(t, ErrorKindMalformed, res.Err.Kind)
	assert.Contains(t, res.Err.Message, "contains the hash delimiter")
}

func TestParse_ForeignPortableUsesCache(t *testing.T) {
	embedded := DelimiterConfig{Line: "line", Position: "col", Hash: "$", Range: ".."}
	parserCache.Delete(embedded)

	p := NewParser(DefaultDelimiters())
	first := p.Parse("a.ts$line10~$~line~..~col~")
	require.True(t, first.OK(), "unexpected error: %v", first.Err)

	cached, ok := parserCache.Load(embedded)
	require.True(t, ok)

	second := p.Parse("b.ts$line3col1~$~line~..~col~")
	require.True(t, second.OK(), "unexpected error: %v", second.Err)
	again, _ := parserCache.Load(embedded)
	assert.Same(t, cached, again)
	assert.Equal(t, LinkPosition{Line: 3, Character: 1}, second.Link.Start)
}

func TestParse_LineBoundary(t *testing.T) {
	assert.True(t, Parse("a.ts#L1", DefaultDelimiters()).OK())
	assert.False(t, Parse("a.ts#L0", DefaultDelimiters()).OK())
	assert.False(t, Parse("a.ts#L-1", DefaultDelimiters()).OK())
}

func TestParse_SameLineWholeLineEnd(t *testing.T) {
	// A missing end character means the whole line, so this is not inverted
	res := Parse("a.ts#L10C5-L10", DefaultDelimiters())

	require.True(t, res.OK())
	assert.Equal(t, LinkPosition{Line: 10}, res.Link.End)
}

func TestParse_CustomDelimiters(t *testing.T) {
	cfg := DelimiterConfig{Line: "line", Position: "col", Hash: "$", Range: ".."}

	res := Parse("pkg/a.go$line10col2..line12col8", cfg)
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Equal(t, "pkg/a.go", res.Link.Path)
	assert.Equal(t, LinkPosition{Line: 10, Character: 2}, res.Link.Start)
	assert.Equal(t, LinkPosition{Line: 12, Character: 8}, res.Link.End)

	// Default syntax means nothing under other delimiters
	assert.False(t, Parse("pkg/a.go#L10", cfg).OK())
}

func TestParse_Portable(t *testing.T) {
	res := Parse("a.ts#L10C2~#~L~-~C~", DefaultDelimiters())
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.True(t, res.Link.Portable)
	require.NotNil(t, res.Link.Delimiters)
	assert.Equal(t, DefaultDelimiters(), *res.Link.Delimiters)
	assert.Equal(t, "a.ts", res.Link.Path)
	assert.Equal(t, LinkPosition{Line: 10, Character: 2}, res.Link.Start)
}

func TestParse_PortableForeignDelimiters(t *testing.T) {
	foreign := DelimiterConfig{Line: "line", Position: "col", Hash: "$", Range: ".."}

	res := Parse("a.ts$line10col2..line12~$~line~..~col~", DefaultDelimiters())
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.True(t, res.Link.Portable)
	assert.Equal(t, foreign, *res.Link.Delimiters)
	assert.Equal(t, LinkPosition{Line: 10, Character: 2}, res.Link.Start)
	assert.Equal(t, LinkPosition{Line: 12}, res.Link.End)
}

func TestIsPortable(t *testing.T) {
	assert.True(t, IsPortable("a.ts#L10~#~L~-~C~"))
	assert.True(t, IsPortable(" a.ts#L10~#~L~-~C~ "))
	assert.False(t, IsPortable("a.ts#L10"))
	assert.False(t, IsPortable("~/notes.md#L3"))
}

func TestPortableSuffix(t *testing.T) {
	assert.Equal(t, "~#~L~-~C~", PortableSuffix(DefaultDelimiters()))
}

func TestParser_ConcurrentUse(t *testing.T) {
	parser := NewParser(DefaultDelimiters())
	done := make(chan bool)

	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				res := parser.Parse("src/auth.ts#L42C10-L58C25")
				if !res.OK() || res.Link.Start.Line != 42 {
					done <- false
					return
				}
			}
			done <- true
		}()
	}

	for i := 0; i < 8; i++ {
		assert.True(t, <-done)
	}
}

func TestParseError_Format(t *testing.T) {
	res := Parse("a.ts#L0", DefaultDelimiters())
	require.NotNil(t, res.Err)

	plain := res.Err.FormatError(ErrorContextPlain)
	assert.Contains(t, plain, "line number 0 must be at least 1")
	assert.Contains(t, plain, `(in "a.ts#L0")`)
	assert.Equal(t, plain, res.Err.Error())

	terminal := res.Err.FormatError(ErrorContextTerminal)
	assert.Contains(t, terminal, "line number 0 must be at least 1")
	assert.Contains(t, terminal, "invalid_line")
}

func TestParseError_Builder(t *testing.T) {
	err := NewParseError(ErrorKindMalformed, "text is not a link").
		WithInput("foo").
		WithSuggestion("add a line").
		WithSuggestion("add a hash")

	assert.Equal(t, SeverityError, err.Severity)
	assert.Equal(t, []string{"add a line", "add a hash"}, err.Suggestions)
	assert.Equal(t, `text is not a link (in "foo"). Suggestions: add a line, add a hash`, err.Error())

	wrapped := err.WithUnderlying(errors.ErrInvalidDelimiters)
	assert.True(t, errors.Is(wrapped, errors.ErrInvalidDelimiters))
}
