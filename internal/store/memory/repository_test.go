package memory

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/postboard/internal/logger"
	"github.com/idilsaglam/postboard/internal/model"
	"github.com/idilsaglam/postboard/internal/store/jsonstore"
)

func strPtr(s string) *string { return &s }

func TestPostRepository_CRUD(t *testing.T) {
	r := NewPostRepository(logger.Discard())

	a, err := r.Create(model.PostInput{Title: "Hello", Author: "A", Content: "C"})
	require.NoError(t, err)
	b, err := r.Create(model.PostInput{Title: "World", Author: "B", Content: "D", Image: "img"})
	require.NoError(t, err)

	assert.Equal(t, model.ID("1"), a.ID)
	assert.Equal(t, model.ID("2"), b.ID)
	assert.Equal(t, model.DefaultImage, a.Image)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Hello", list[0].Title)
	assert.Equal(t, "World", list[1].Title)

	got, err := r.Merge(b.ID, model.PostUpdate{Title: strPtr("New"), Content: strPtr("Y")})
	require.NoError(t, err)
	assert.Equal(t, model.Post{ID: "2", Title: "New", Author: "B", Content: "Y", Image: "img"}, got)

	require.NoError(t, r.Delete(a.ID))
	_, err = r.GetByID(a.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, r.Delete(a.ID), ErrPostNotFound)

	c, err := r.Create(model.PostInput{Title: "Third", Author: "C", Content: "E"})
	require.NoError(t, err)
	assert.Equal(t, model.ID("3"), c.ID, "ids are never reused")
}

func TestPostRepository_Replace(t *testing.T) {
	r := NewPostRepository(logger.Discard())
	p, err := r.Create(model.PostInput{Title: "T", Author: "A", Content: "C", Image: "i1"})
	require.NoError(t, err)

	got, err := r.Replace(p.ID, model.PostInput{Title: "T2", Author: "A2", Content: "C2", Image: "i2"})
	require.NoError(t, err)
	assert.Equal(t, model.Post{ID: p.ID, Title: "T2", Author: "A2", Content: "C2", Image: "i2"}, got)

	_, err = r.Replace("404", model.PostInput{})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestOpen_ContinuesIDsAndPersists(t *testing.T) {
	js := jsonstore.New(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, js.Save([]model.Post{{ID: "7", Title: "Old"}, {ID: "x1", Title: "Str"}}))

	r, err := Open(logger.Discard(), js)
	require.NoError(t, err)
	p, err := r.Create(model.PostInput{Title: "New", Author: "A", Content: "C"})
	require.NoError(t, err)
	assert.Equal(t, model.ID("8"), p.ID)

	onDisk, err := js.Load()
	require.NoError(t, err)
	require.Len(t, onDisk, 3)
	assert.Equal(t, "New", onDisk[2].Title)
}

type failingSink struct{}

func (failingSink) Load() ([]model.Post, error) { return nil, nil }
func (failingSink) Save([]model.Post) error     { return errors.New("disk full") }

func TestPersistFailureRollsBack(t *testing.T) {
	r, err := Open(logger.Discard(), failingSink{})
	require.NoError(t, err)

	_, err = r.Create(model.PostInput{Title: "T", Author: "A", Content: "C"})
	require.Error(t, err)
	assert.Empty(t, r.List())
}
