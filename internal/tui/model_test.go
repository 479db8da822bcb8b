package tui

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/postboard/internal/api"
	"github.com/idilsaglam/postboard/internal/logger"
	"github.com/idilsaglam/postboard/internal/model"
	"github.com/idilsaglam/postboard/internal/server"
	"github.com/idilsaglam/postboard/internal/store/memory"
)

// backend serves a real posts collection over httptest.
func backend(t *testing.T, seed ...model.PostInput) (*api.Client, *memory.PostRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := memory.NewPostRepository(logger.Discard())
	for _, in := range seed {
		_, err := repo.Create(in)
		require.NoError(t, err)
	}
	ts := httptest.NewServer(server.New(repo, logger.Discard(), server.Options{}).Engine())
	t.Cleanup(ts.Close)

	c, err := api.New(ts.URL+"/posts", api.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	return c, repo
}

// run executes cmd and every command it leads to, feeding each result back
// through Update, until the chain settles.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 200, "command chain did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, nc := m.Update(msg)
			m = next.(Model)
			queue = append(queue, nc)
		}
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = run(t, next.(Model), cmd)
	}
	return m
}

func start(t *testing.T, c PostsClient) Model {
	t.Helper()
	m := New(context.Background(), c, Options{})
	return run(t, m, m.Init())
}

func TestScenario_CreateShowDelete(t *testing.T) {
	c, repo := backend(t, model.PostInput{Title: "Hello", Author: "H", Content: "first"})
	m := start(t, c)
	assert.Equal(t, []string{"Hello"}, m.Titles())
	assert.False(t, m.busy())

	m = press(t, m, "n", "World", "enter", "Ann", "enter", "Body text", "ctrl+s")
	assert.Equal(t, []string{"Hello", "World"}, m.Titles())
	assert.Equal(t, model.PostPatch{}, m.create.patch(), "form is reset after create")
	assert.Equal(t, focusList, m.focus)

	stored := repo.List()
	require.Len(t, stored, 2)
	assert.Equal(t, model.Post{ID: stored[1].ID, Title: "World", Author: "Ann", Content: "Body text", Image: model.DefaultImage}, stored[1])

	m.list.Select(1)
	m = press(t, m, "enter")
	assert.Equal(t, detailViewing, m.detail)
	assert.Equal(t, "Ann", m.detailPost.Author)
	assert.Equal(t, "Body text", m.detailPost.Content)
	assert.Contains(t, m.View(), "DELETE THIS POST")

	m = press(t, m, "x")
	assert.Equal(t, []string{"Hello"}, m.Titles())
	assert.Equal(t, detailEmpty, m.detail)
	assert.NotContains(t, m.listIDs(), stored[1].ID)
	assert.Len(t, repo.List(), 1)
}

func TestRenderList_Idempotent(t *testing.T) {
	c, _ := backend(t, model.PostInput{Title: "A", Author: "x", Content: "y"}, model.PostInput{Title: "B", Author: "x", Content: "y"})
	m := start(t, c)
	first := m.Titles()

	m = press(t, m, "r")
	m = press(t, m, "r")
	assert.Equal(t, first, m.Titles())
	assert.Len(t, m.Titles(), 2)
}

func TestEdit_MergesAndRefreshesBothViews(t *testing.T) {
	c, repo := backend(t, model.PostInput{Title: "Old", Author: "A", Content: "X", Image: "img1"})
	m := start(t, c)

	m = press(t, m, "enter", "e")
	require.Equal(t, detailEditing, m.detail)
	require.Equal(t, focusEdit, m.focus)
	assert.Equal(t, model.PostPatch{Title: "Old", Author: "A", Content: "X"}, m.edit.patch(), "edit form is pre-filled")

	m.edit.title.SetValue("New")
	m.edit.content.SetValue("Y")
	m = press(t, m, "ctrl+s")

	got, err := repo.GetByID("1")
	require.NoError(t, err)
	assert.Equal(t, model.Post{ID: "1", Title: "New", Author: "A", Content: "Y", Image: "img1"}, got)

	assert.Equal(t, []string{"New"}, m.Titles())
	assert.Equal(t, detailViewing, m.detail)
	assert.Equal(t, got, m.detailPost)
	assert.Equal(t, focusList, m.focus)
}

func TestEdit_LongFieldsSurviveAuthorOnlyEdit(t *testing.T) {
	title := strings.Repeat("t", 250)
	content := strings.Repeat("c", 5000)
	c, repo := backend(t, model.PostInput{Title: title, Author: "A", Content: content, Image: "img"})
	m := start(t, c)

	m = press(t, m, "enter", "e")
	require.Equal(t, detailEditing, m.detail)
	assert.Len(t, m.edit.title.Value(), 250)
	assert.Len(t, m.edit.content.Value(), 5000)

	m.edit.author.SetValue("B")
	m = press(t, m, "ctrl+s")

	got, err := repo.GetByID("1")
	require.NoError(t, err)
	assert.Equal(t, model.Post{ID: "1", Title: title, Author: "B", Content: content, Image: "img"}, got)
}

func TestEdit_UnchangedSubmitKeepsExactText(t *testing.T) {
	seed := model.PostInput{Title: "tab\there", Author: " A ", Content: "  indented\n"}
	c, repo := backend(t, seed)
	m := start(t, c)

	m = press(t, m, "enter", "e", "ctrl+s")
	assert.Empty(t, m.edit.err)

	got, err := repo.GetByID("1")
	require.NoError(t, err)
	assert.Equal(t, seed.Title, got.Title)
	assert.Equal(t, seed.Author, got.Author)
	assert.Equal(t, seed.Content, got.Content)
}

func TestEdit_WhitespaceOnlyIsRequired(t *testing.T) {
	c, repo := backend(t, model.PostInput{Title: "T", Author: "A", Content: "C"})
	m := start(t, c)

	m = press(t, m, "enter", "e")
	m.edit.author.SetValue("   ")
	m = press(t, m, "ctrl+s")
	assert.Equal(t, "author is required", m.edit.err)

	got, err := repo.GetByID("1")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Author)
}

func TestEdit_EscKeepsEditingPane(t *testing.T) {
	c, _ := backend(t, model.PostInput{Title: "T", Author: "A", Content: "C"})
	m := start(t, c)
	m = press(t, m, "enter", "e", "esc")

	assert.Equal(t, detailEditing, m.detail, "there is no cancel back to viewing")
	assert.Equal(t, focusList, m.focus)

	m = press(t, m, "e")
	assert.Equal(t, focusList, m.focus, "edit only starts from viewing")

	m = press(t, m, "tab")
	assert.Equal(t, focusEdit, m.focus)
}

func TestDetail_ControlsBindRenderedPost(t *testing.T) {
	var seed []model.PostInput
	for i := 0; i < 7; i++ {
		seed = append(seed, model.PostInput{Title: "p", Author: "a", Content: "c"})
	}
	c, repo := backend(t, seed...)
	m := start(t, c)

	m = run(t, m, m.showDetail("5"))
	m = run(t, m, m.showDetail("7"))
	m.list.Select(0)

	m = press(t, m, "e")
	assert.Equal(t, model.ID("7"), m.editID)

	m = press(t, m, "esc")
	m = run(t, m, m.showDetail("7"))
	m = press(t, m, "x")
	_, err := repo.GetByID("7")
	assert.ErrorIs(t, err, memory.ErrPostNotFound)
	_, err = repo.GetByID("5")
	assert.NoError(t, err)
}

func TestDetail_LastResolvedResponseWins(t *testing.T) {
	c, _ := backend(t,
		model.PostInput{Title: "one", Author: "a", Content: "c"},
		model.PostInput{Title: "two", Author: "a", Content: "c"},
	)
	m := start(t, c)

	cmdOne := m.showDetail("1")
	cmdTwo := m.showDetail("2")
	two, one := cmdTwo(), cmdOne()

	next, _ := m.Update(two)
	next, _ = next.(Model).Update(one)
	m = next.(Model)
	assert.Equal(t, model.ID("1"), m.detailPost.ID)
	assert.False(t, m.busy())
}

func TestCreate_RequiredFields(t *testing.T) {
	c, repo := backend(t)
	m := start(t, c)

	m = press(t, m, "n", "Only a title", "ctrl+s")
	assert.Equal(t, "author is required", m.create.err)
	assert.Equal(t, focusCreate, m.focus)
	assert.Empty(t, repo.List())
	assert.Empty(t, m.Titles())
}

type failingClient struct {
	PostsClient
	err error
}

func (f failingClient) Create(context.Context, model.PostInput) (model.Post, error) {
	return model.Post{}, f.err
}

func TestCreate_FailureKeepsForm(t *testing.T) {
	c, _ := backend(t)
	m := start(t, failingClient{PostsClient: c, err: errors.New("connection refused")})

	m = press(t, m, "n", "T", "enter", "A", "enter", "C", "ctrl+s")
	assert.Equal(t, model.PostPatch{Title: "T", Author: "A", Content: "C"}, m.create.patch())
	status, failed := m.Status()
	assert.True(t, failed)
	assert.Contains(t, status, "create post")
	assert.Contains(t, m.View(), "connection refused")
}

func TestDelete_FailureLeavesDetail(t *testing.T) {
	c, repo := backend(t, model.PostInput{Title: "T", Author: "A", Content: "C"})
	m := start(t, c)
	m = press(t, m, "enter")

	require.NoError(t, repo.Delete("1"))
	m = press(t, m, "x")

	assert.Equal(t, detailViewing, m.detail, "stale detail stays after a failed delete")
	_, failed := m.Status()
	assert.True(t, failed)
}

func TestQuitKeys(t *testing.T) {
	m := New(context.Background(), nil, Options{})
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m = press(t, m, "n")
	_, cmd = m.Update(keyMsg("q"))
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd(), "q types into the form")
	}
	_, cmd = m.Update(keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
