// Package memory keeps the dev server's posts in insertion order,
// optionally mirroring every change to a Persister.
package memory

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/idilsaglam/postboard/internal/model"
)

var ErrPostNotFound = errors.New("post not found")

// Persister receives the full collection after each mutation.
type Persister interface {
	Load() ([]model.Post, error)
	Save(posts []model.Post) error
}

type PostRepository struct {
	log    *slog.Logger
	mu     sync.RWMutex
	posts  []model.Post
	nextID int64
	sink   Persister
}

// NewPostRepository starts empty. Use Open to start from persisted state.
func NewPostRepository(log *slog.Logger) *PostRepository {
	return &PostRepository{log: log, posts: []model.Post{}, nextID: 1}
}

// Open loads p and writes back to it on every change.
func Open(log *slog.Logger, p Persister) (*PostRepository, error) {
	posts, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}
	r := NewPostRepository(log)
	r.sink = p
	r.posts = posts
	for _, post := range posts {
		if n, err := strconv.ParseInt(post.ID.String(), 10, 64); err == nil && n >= r.nextID {
			r.nextID = n + 1
		}
	}
	log.Debug("posts loaded", slog.Int("count", len(posts)), slog.Int64("next_id", r.nextID))
	return r, nil
}

func (r *PostRepository) List() []model.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Post, len(r.posts))
	copy(out, r.posts)
	return out
}

func (r *PostRepository) GetByID(id model.ID) (model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		r.log.Debug("post not found by id", slog.String("id", id.String()))
		return model.Post{}, ErrPostNotFound
	}
	return r.posts[i], nil
}

// Create assigns the next numeric id and appends.
func (r *PostRepository) Create(in model.PostInput) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post := model.Post{
		ID:      model.ID(strconv.FormatInt(r.nextID, 10)),
		Title:   in.Title,
		Author:  in.Author,
		Content: in.Content,
		Image:   in.Image,
	}
	if post.Image == "" {
		post.Image = model.DefaultImage
	}
	r.nextID++
	r.posts = append(r.posts, post)
	if err := r.persist(); err != nil {
		r.posts = r.posts[:len(r.posts)-1]
		r.nextID--
		return model.Post{}, err
	}
	return post, nil
}

// Merge applies the fields present in u.
func (r *PostRepository) Merge(id model.ID, u model.PostUpdate) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Post{}, ErrPostNotFound
	}
	prev := r.posts[i]
	r.posts[i] = u.Apply(prev)
	if err := r.persist(); err != nil {
		r.posts[i] = prev
		return model.Post{}, err
	}
	return r.posts[i], nil
}

// Replace overwrites everything but the id.
func (r *PostRepository) Replace(id model.ID, in model.PostInput) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Post{}, ErrPostNotFound
	}
	prev := r.posts[i]
	r.posts[i] = model.Post{ID: prev.ID, Title: in.Title, Author: in.Author, Content: in.Content, Image: in.Image}
	if err := r.persist(); err != nil {
		r.posts[i] = prev
		return model.Post{}, err
	}
	return r.posts[i], nil
}

func (r *PostRepository) Delete(id model.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrPostNotFound
	}
	prev := r.posts
	next := make([]model.Post, 0, len(r.posts)-1)
	next = append(next, r.posts[:i]...)
	next = append(next, r.posts[i+1:]...)
	r.posts = next
	if err := r.persist(); err != nil {
		r.posts = prev
		return err
	}
	return nil
}

// callers hold mu
func (r *PostRepository) indexOf(id model.ID) int {
	for i, p := range r.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// callers hold mu
func (r *PostRepository) persist() error {
	if r.sink == nil {
		return nil
	}
	if err := r.sink.Save(r.posts); err != nil {
		r.log.Error("persist posts", slog.String("error", err.Error()))
		return fmt.Errorf("persist posts: %w", err)
	}
	return nil
}
