package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewf(t *testing.T) {
	err := Newf("delimiter %q rejected", "1")
	require.NotNil(t, err)
	assert.Equal(t, `delimiter "1" rejected`, err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestMark(t *testing.T) {
	err := Mark(New("selection list is empty"), ErrNoSelections)

	assert.True(t, Is(err, ErrNoSelections))
	assert.False(t, Is(err, ErrInvalidLink))
	assert.Equal(t, "selection list is empty", err.Error())
}

func TestAssertionFailure(t *testing.T) {
	err := AssertionFailedf("formatter called with %d selections", 0)

	assert.True(t, IsAssertionFailure(err))
	assert.Contains(t, err.Error(), "0 selections")
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "try this fix")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestSentinelHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"invalid link wrapped", Wrap(ErrInvalidLink, "parse"), IsInvalidLinkError, true},
		{"invalid link nil", nil, IsInvalidLinkError, false},
		{"invalid delimiters wrapped", Wrapf(ErrInvalidDelimiters, "field %s", "hash"), IsInvalidDelimitersError, true},
		{"invalid delimiters other", ErrNotFound, IsInvalidDelimitersError, false},
		{"not found formatted", NewNotFoundError("key %q", "delimiters.line"), IsNotFoundError, true},
		{"not found other", NewInvalidRequestError("bad"), IsNotFoundError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func TestErrorChaining(t *testing.T) {
	err := Wrap(ErrInvalidDelimiters, "layer 1")
	err = WithHint(err, "helpful hint")
	err = WithDetail(err, "DELIMITER_DIGITS")
	err = Wrap(err, "layer 2")

	assert.True(t, Is(err, ErrInvalidDelimiters))
	assert.Contains(t, err.Error(), "layer 2")
	assert.Contains(t, err.Error(), "layer 1")
	assert.Contains(t, GetAllHints(err), "helpful hint")
	assert.Contains(t, GetAllDetails(err), "DELIMITER_DIGITS")
}

func ExampleWrap() {
	err := Wrap(ErrInvalidLink, "src/auth.ts#L0")
	fmt.Println(err)
	// Output: src/auth.ts#L0: invalid link
}
