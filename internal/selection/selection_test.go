package selection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/link"
)

func pos(line, char int) link.EditorPosition {
	return link.EditorPosition{Line: line, Character: char}
}

func TestParse(t *testing.T) {
	lengths := FromLengths([]int{10, 20, 30, 40})

	tests := []struct {
		name       string
		spec       string
		lineLength func(int) int
		want       link.Selection
	}{
		{"single line", "2", nil, link.Selection{Start: pos(1, 0), End: pos(2, 0), Coverage: link.FullLine}},
		{"line range", "1-3", nil, link.Selection{Start: pos(0, 0), End: pos(3, 0), Coverage: link.FullLine}},
		{"line range with lengths", "1-3", lengths, link.Selection{Start: pos(0, 0), End: pos(2, 30), Coverage: link.FullLine}},
		{"point", "2:5", nil, link.Selection{Start: pos(1, 4), End: pos(1, 4), Coverage: link.PartialLine}},
		{"positions", "1:5-3:3", lengths, link.Selection{Start: pos(0, 4), End: pos(2, 2), Coverage: link.PartialLine}},
		{"whitespace", " 1 - 2 ", nil, link.Selection{Start: pos(0, 0), End: pos(2, 0), Coverage: link.FullLine}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.spec, tt.lineLength)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, spec := range []string{"", "abc", "0", "-1", "3-1", "2:0", "2:x", "1-"} {
		t.Run(spec, func(t *testing.T) {
			_, err := Parse(spec, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidSelection))
		})
	}
}

func TestParse_FormatsBack(t *testing.T) {
	cfg := link.DefaultDelimiters()
	tests := map[string]string{
		"10":      "a.go#L10",
		"10-12":   "a.go#L10-L12",
		"10:5":    "a.go#L10C5",
		"10:5-12": "a.go#L10C5-L13C1",
		"1:5-3:3": "a.go#L1C5-L3C3",
	}
	for spec, want := range tests {
		t.Run(spec, func(t *testing.T) {
			sel, err := Parse(spec, nil)
			require.NoError(t, err)
			got, err := link.Format("a.go", []link.Selection{sel}, cfg, link.FormatOptions{})
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLineLengths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc\nhéllo\n\nx"), 0644))

	lengths := LineLengths(path)
	require.NotNil(t, lengths)
	assert.Equal(t, 3, lengths(0))
	assert.Equal(t, 5, lengths(1))
	assert.Equal(t, 0, lengths(2))
	assert.Equal(t, 1, lengths(3))
	assert.Equal(t, 0, lengths(9))

	assert.Nil(t, LineLengths(filepath.Join(t.TempDir(), "missing")))
}
