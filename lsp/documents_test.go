package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStore_EvictsLeastRecent(t *testing.T) {
	s := newDocumentStore(2)

	assert.Empty(t, s.put("file:///a", 1, "a"))
	assert.Empty(t, s.put("file:///b", 1, "b"))

	// Touch a so b becomes the oldest
	_, ok := s.get("file:///a")
	require.True(t, ok)

	assert.Equal(t, "file:///b", s.put("file:///c", 1, "c"))
	assert.Equal(t, 2, s.len())

	_, ok = s.get("file:///b")
	assert.False(t, ok)
}

func TestDocumentStore_Replace(t *testing.T) {
	s := newDocumentStore(1)
	s.put("file:///a", 1, "old")
	assert.Empty(t, s.put("file:///a", 2, "new"))

	doc, ok := s.get("file:///a")
	require.True(t, ok)
	assert.Equal(t, "new", doc.text)
	assert.EqualValues(t, 2, doc.version)
}

func TestDocumentStore_Remove(t *testing.T) {
	s := newDocumentStore(3)
	s.put("file:///a", 1, "a")
	s.remove("file:///a")
	s.remove("file:///missing")
	assert.Equal(t, 0, s.len())
}

func TestDocumentStore_Resize(t *testing.T) {
	s := newDocumentStore(3)
	s.put("file:///a", 1, "a")
	s.put("file:///b", 1, "b")
	s.put("file:///c", 1, "c")

	assert.Equal(t, []string{"file:///a", "file:///b"}, s.resize(1))
	_, ok := s.get("file:///c")
	assert.True(t, ok)

	assert.Empty(t, s.resize(0))
	assert.Equal(t, 1, s.len())
}
