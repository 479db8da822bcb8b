// Package tui is the interactive posts board: a list pane, a detail pane and
// a create form, kept in step with the server by re-fetching after every change.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/postboard/internal/model"
)

// detailState is what the detail pane shows.
type detailState int

const (
	detailEmpty detailState = iota
	detailViewing
	detailEditing
)

func (s detailState) String() string {
	switch s {
	case detailViewing:
		return "viewing"
	case detailEditing:
		return "editing"
	default:
		return "empty"
	}
}

type focusArea int

const (
	focusList focusArea = iota
	focusCreate
	focusEdit
)

// postItem adapts a post summary to bubbles/list.
type postItem struct {
	id    model.ID
	title string
}

func (i postItem) Title() string       { return i.title }
func (i postItem) Description() string { return "" }
func (i postItem) FilterValue() string { return i.title }

// itemDelegate renders one title per line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(postItem)
	prefix := "  "
	title := it.title
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
		title = titleStyle.Render(title)
	}
	fmt.Fprintln(w, prefix+title)
}

// Options configure a board. Zero values fall back to the package defaults.
type Options struct {
	DefaultImage string
	Logger       *slog.Logger
}

// Model is the Bubble Tea model for the board.
type Model struct {
	// ctx scopes every request the board issues; the program owns it.
	ctx    context.Context
	client PostsClient
	log    *slog.Logger
	image  string

	list list.Model

	detail     detailState
	detailPost model.Post // the post whose id the Edit/Delete controls act on

	create      postForm
	createBound bool
	edit        postForm
	editID      model.ID

	focus    focusArea
	inflight int
	status   string
	failed   bool

	keys          keyMap
	help          help.Model
	width, height int
}

// New builds the board. Init paints the list; the create form is bound here.
func New(ctx context.Context, c PostsClient, opt Options) Model {
	if opt.DefaultImage == "" {
		opt.DefaultImage = model.DefaultImage
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Posts"
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("post", "posts")
	l.KeyMap.Quit.SetEnabled(false)

	m := Model{
		ctx:    ctx,
		client: c,
		log:    opt.Logger,
		image:  opt.DefaultImage,
		list:   l,
		edit:   newPostForm(),
		keys:   defaultKeys(),
		help:   help.New(),
	}
	m.bindCreateForm()
	m.resize(80, 24)
	m.inflight = 1 // initial paint, issued by Init
	return m
}

func (m Model) Init() tea.Cmd { return fetchPosts(m.ctx, m.client) }

// ---------------------------------------------------
// Board operations
// ---------------------------------------------------

// loadList fetches the collection; the reply is painted by renderList.
func (m *Model) loadList() tea.Cmd {
	m.inflight++
	return fetchPosts(m.ctx, m.client)
}

// renderList replaces the list pane wholesale with posts, in server order.
func (m *Model) renderList(posts []model.Post) tea.Cmd {
	items := make([]list.Item, 0, len(posts))
	for _, p := range posts {
		items = append(items, postItem{id: p.ID, title: p.Title})
	}
	cmd := m.list.SetItems(items)
	if m.list.Index() >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
	return cmd
}

func (m *Model) appendToList(p model.Post) tea.Cmd {
	return m.list.InsertItem(len(m.list.Items()), postItem{id: p.ID, title: p.Title})
}

// showDetail fetches id and shows it in the detail pane.
func (m *Model) showDetail(id model.ID) tea.Cmd {
	m.inflight++
	return fetchDetail(m.ctx, m.client, id)
}

func (m *Model) renderDetail(p model.Post) {
	m.detail = detailViewing
	m.detailPost = p
	if m.focus == focusEdit {
		m.edit.blur()
		m.focus = focusList
	}
}

// bindCreateForm sets up the create form once.
func (m *Model) bindCreateForm() {
	if m.createBound {
		return
	}
	m.create = newPostForm()
	m.createBound = true
}

func (m *Model) submitCreate() tea.Cmd {
	if err := m.create.validate(); err != nil {
		m.create.err = err.Error()
		return nil
	}
	m.create.err = ""
	p := m.create.patch()
	m.inflight++
	return createPost(m.ctx, m.client, model.NewPostInput(p.Title, p.Author, p.Content, m.image))
}

// startEdit fetches id and swaps the detail pane for a filled edit form.
func (m *Model) startEdit(id model.ID) tea.Cmd {
	m.inflight++
	return fetchForEdit(m.ctx, m.client, id)
}

func (m *Model) renderEdit(id model.ID, p model.Post) tea.Cmd {
	m.detail = detailEditing
	m.detailPost = p
	m.editID = id
	m.edit.fill(p)
	m.create.blur()
	m.focus = focusEdit
	return m.edit.focus()
}

func (m *Model) submitEdit() tea.Cmd {
	if err := m.edit.validate(); err != nil {
		m.edit.err = err.Error()
		return nil
	}
	m.edit.err = ""
	m.inflight++
	return updatePost(m.ctx, m.client, m.editID, m.edit.patch())
}

// removePost deletes id; the reply clears the detail pane and reloads the list.
func (m *Model) removePost(id model.ID) tea.Cmd {
	m.inflight++
	return deletePost(m.ctx, m.client, id)
}

// refresh re-fetches both views so they match the server after a change to id.
func (m *Model) refresh(id model.ID) tea.Cmd {
	return tea.Batch(m.loadList(), m.showDetail(id))
}

func (m *Model) done() {
	if m.inflight > 0 {
		m.inflight--
	}
}

func (m *Model) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

// ---------------------------------------------------
// Update
// ---------------------------------------------------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case postsLoadedMsg:
		m.done()
		return m, m.renderList(msg.posts)

	case detailLoadedMsg:
		m.done()
		m.renderDetail(msg.post)
		return m, nil

	case editLoadedMsg:
		m.done()
		return m, m.renderEdit(msg.id, msg.post)

	case postCreatedMsg:
		m.done()
		m.create.reset()
		m.create.blur()
		if m.focus == focusCreate {
			m.focus = focusList
		}
		m.setStatus(fmt.Sprintf("created %q", msg.post.Title), false)
		return m, m.appendToList(msg.post)

	case postUpdatedMsg:
		m.done()
		m.edit.blur()
		m.focus = focusList
		m.setStatus("updated post "+msg.id.String(), false)
		return m, m.refresh(msg.id)

	case postDeletedMsg:
		m.done()
		m.detail = detailEmpty
		m.detailPost = model.Post{}
		m.setStatus("deleted post "+msg.id.String(), false)
		return m, m.loadList()

	case errMsg:
		m.done()
		m.log.Error("request failed", slog.String("op", msg.op), slog.String("error", msg.err.Error()))
		m.setStatus(msg.Error(), true)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQ) {
			return m, tea.Quit
		}
		switch m.focus {
		case focusCreate:
			return m.updateCreate(msg)
		case focusEdit:
			return m.updateEdit(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Open):
		if it, ok := m.list.SelectedItem().(postItem); ok {
			return m, m.showDetail(it.id)
		}
		return m, nil
	case key.Matches(msg, m.keys.New):
		m.focus = focusCreate
		return m, m.create.focus()
	case key.Matches(msg, m.keys.Edit):
		if m.detail == detailViewing {
			return m, m.startEdit(m.detailPost.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if m.detail == detailViewing {
			return m, m.removePost(m.detailPost.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadList()
	case key.Matches(msg, m.keys.Resume):
		if m.detail == detailEditing {
			m.focus = focusEdit
			return m, m.edit.focus()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.create.blur()
		m.focus = focusList
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m, m.submitCreate()
	case key.Matches(msg, m.keys.Next):
		return m, m.create.next()
	case key.Matches(msg, m.keys.Prev):
		return m, m.create.prev()
	case key.Matches(msg, m.keys.Advance) && !m.create.onLastField():
		return m, m.create.next()
	}
	return m, m.create.update(msg)
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		// No cancel: the pane stays in Editing until the form is submitted.
		m.edit.blur()
		m.focus = focusList
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m, m.submitEdit()
	case key.Matches(msg, m.keys.Next):
		return m, m.edit.next()
	case key.Matches(msg, m.keys.Prev):
		return m, m.edit.prev()
	case key.Matches(msg, m.keys.Advance) && !m.edit.onLastField():
		return m, m.edit.next()
	}
	return m, m.edit.update(msg)
}

// ---------------------------------------------------
// accessors used by Run and tests
// ---------------------------------------------------

// Titles returns the list pane's titles in display order.
func (m Model) Titles() []string {
	items := m.list.Items()
	out := make([]string, 0, len(items))
	for _, it := range items {
		if pi, ok := it.(postItem); ok {
			out = append(out, pi.title)
		}
	}
	return out
}

func (m Model) listIDs() []model.ID {
	items := m.list.Items()
	out := make([]model.ID, 0, len(items))
	for _, it := range items {
		if pi, ok := it.(postItem); ok {
			out = append(out, pi.id)
		}
	}
	return out
}

// Status is the last status line, and whether it reports a failure.
func (m Model) Status() (string, bool) { return m.status, m.failed }

func (m Model) busy() bool { return m.inflight > 0 }

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if n <= 3 || len([]rune(s)) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
