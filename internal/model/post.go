package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultImage is the placeholder every new post gets unless configured otherwise.
const DefaultImage = "https://photos.google.com/photo/AF1QipM-16X45kF99KxZQCGby8_C-iJZIPQP1Z3QWSD4"

// ID identifies a post. Servers hand out either numbers or strings, so both are
// accepted and whatever came in goes back out in the same shape.
type ID string

func (id ID) String() string { return string(id) }

// numeric reports whether id is a JSON number literal, of any size or form.
func (id ID) numeric() bool {
	s := string(id)
	if s == "" {
		return false
	}
	first, last := s[0], s[len(s)-1]
	if first != '-' && (first < '0' || first > '9') {
		return false
	}
	return last >= '0' && last <= '9' && json.Valid([]byte(s))
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("post id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Post is the single resource the board works with.
type Post struct {
	ID      ID     `json:"id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Content string `json:"content"`
	Image   string `json:"image"`
}

// PostInput is the create payload. The server assigns the id.
type PostInput struct {
	Title   string `json:"title" binding:"required"`
	Author  string `json:"author" binding:"required"`
	Content string `json:"content" binding:"required"`
	Image   string `json:"image"`
}

// PostPatch holds the editable fields. Image and id are never part of an update.
type PostPatch struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// NewPostInput builds a create payload with the given image, falling back to DefaultImage.
func NewPostInput(title, author, content, image string) PostInput {
	if image == "" {
		image = DefaultImage
	}
	return PostInput{Title: title, Author: author, Content: content, Image: image}
}

// Patch returns the editable fields of p.
func (p Post) Patch() PostPatch {
	return PostPatch{Title: p.Title, Author: p.Author, Content: p.Content}
}

// PostUpdate is a partial update as the server reads it: nil fields are left alone.
type PostUpdate struct {
	Title   *string `json:"title,omitempty"`
	Author  *string `json:"author,omitempty"`
	Content *string `json:"content,omitempty"`
	Image   *string `json:"image,omitempty"`
}

// Apply merges u into p and returns the result. The id is never touched.
func (u PostUpdate) Apply(p Post) Post {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Author != nil {
		p.Author = *u.Author
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	return p
}
