package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/postboard/internal/model"
)

const (
	fieldTitle = iota
	fieldAuthor
	fieldContent
	fieldCount
)

// postForm holds the three editable fields shared by the create and edit forms.
type postForm struct {
	title   textinput.Model
	author  textinput.Model
	content textarea.Model
	field   int
	err     string

	// orig is the post a fill started from and shown is what the inputs
	// displayed right after. A field still equal to shown is sent as orig,
	// since the inputs rewrite tabs and newlines on the way in.
	orig  model.PostPatch
	shown model.PostPatch
}

func newPostForm() postForm {
	f := postForm{
		title:   newInput("Title"),
		author:  newInput("Author"),
		content: textarea.New(),
	}
	f.content.Placeholder = "Content..."
	f.content.ShowLineNumbers = false
	f.content.CharLimit = 0
	f.content.MaxHeight = 0
	f.content.SetHeight(4)
	f.content.Cursor.SetMode(cursor.CursorStatic)
	return f
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder + "..."
	ti.CharLimit = 0
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// focus puts the cursor on the current field.
func (f *postForm) focus() tea.Cmd {
	f.title.Blur()
	f.author.Blur()
	f.content.Blur()
	switch f.field {
	case fieldTitle:
		return f.title.Focus()
	case fieldAuthor:
		return f.author.Focus()
	default:
		return f.content.Focus()
	}
}

func (f *postForm) blur() {
	f.title.Blur()
	f.author.Blur()
	f.content.Blur()
}

func (f *postForm) next() tea.Cmd {
	f.field = (f.field + 1) % fieldCount
	return f.focus()
}

func (f *postForm) prev() tea.Cmd {
	f.field = (f.field + fieldCount - 1) % fieldCount
	return f.focus()
}

func (f *postForm) onLastField() bool { return f.field == fieldContent }

func (f *postForm) fill(p model.Post) {
	f.title.SetValue(p.Title)
	f.title.CursorEnd()
	f.author.SetValue(p.Author)
	f.author.CursorEnd()
	f.content.SetValue(p.Content)
	f.orig = p.Patch()
	f.shown = f.values()
	f.field = fieldTitle
	f.err = ""
}

func (f *postForm) reset() {
	f.title.Reset()
	f.author.Reset()
	f.content.Reset()
	f.orig = model.PostPatch{}
	f.shown = model.PostPatch{}
	f.field = fieldTitle
	f.err = ""
}

func (f *postForm) values() model.PostPatch {
	return model.PostPatch{
		Title:   f.title.Value(),
		Author:  f.author.Value(),
		Content: f.content.Value(),
	}
}

// patch returns the fields as typed. Untouched fields keep their filled value.
func (f *postForm) patch() model.PostPatch {
	p := f.values()
	if p.Title == f.shown.Title {
		p.Title = f.orig.Title
	}
	if p.Author == f.shown.Author {
		p.Author = f.orig.Author
	}
	if p.Content == f.shown.Content {
		p.Content = f.orig.Content
	}
	return p
}

// validate mirrors the required attribute on each input.
func (f *postForm) validate() error {
	p := f.patch()
	switch {
	case strings.TrimSpace(p.Title) == "":
		return errors.New("title is required")
	case strings.TrimSpace(p.Author) == "":
		return errors.New("author is required")
	case strings.TrimSpace(p.Content) == "":
		return errors.New("content is required")
	}
	return nil
}

func (f *postForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.field {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldAuthor:
		f.author, cmd = f.author.Update(msg)
	default:
		f.content, cmd = f.content.Update(msg)
	}
	return cmd
}

func (f *postForm) setWidth(w int) {
	if w < 10 {
		w = 10
	}
	f.title.Width = w - 4
	f.author.Width = w - 4
	f.content.SetWidth(w)
}

func (f postForm) view(heading string) string {
	h := headingStyle.Render(heading)
	if f.err != "" {
		h += " " + errorStyle.Render("✖ "+f.err)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		h,
		f.title.View(),
		f.author.View(),
		f.content.View(),
	)
}
