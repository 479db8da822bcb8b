package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/postboard/internal/model"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "db.json"))
	posts, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NotNil(t, posts)
}

func TestSaveThenLoad(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nested", "db.json"))
	want := []model.Post{
		{ID: "1", Title: "Hello", Author: "A", Content: "C", Image: "img"},
		{ID: "abc", Title: "World", Author: "B", Content: "D", Image: "img"},
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_ReadsJSONServerLayout(t *testing.T) {
	p := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"posts":[{"id":1,"title":"Hello","author":"A","content":"C","image":"x"}]}`), 0o644))

	got, err := New(p).Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.ID("1"), got[0].ID)
	assert.Equal(t, "Hello", got[0].Title)
}

func TestLoad_Corrupt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(p, []byte(`{not json`), 0o644))
	_, err := New(p).Load()
	assert.Error(t, err)
}
