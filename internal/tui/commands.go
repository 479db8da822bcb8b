package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/postboard/internal/model"
)

// PostsClient is the REST surface the board needs. *api.Client satisfies it.
type PostsClient interface {
	List(ctx context.Context) ([]model.Post, error)
	Get(ctx context.Context, id model.ID) (model.Post, error)
	Create(ctx context.Context, in model.PostInput) (model.Post, error)
	Update(ctx context.Context, id model.ID, patch model.PostPatch) (model.Post, error)
	Delete(ctx context.Context, id model.ID) error
}

type (
	postsLoadedMsg struct{ posts []model.Post }
	detailLoadedMsg struct{ post model.Post }
	editLoadedMsg   struct {
		id   model.ID
		post model.Post
	}
	postCreatedMsg struct{ post model.Post }
	postUpdatedMsg struct{ id model.ID }
	postDeletedMsg struct{ id model.ID }

	// errMsg ends a failed chain. Panes stay as they were.
	errMsg struct {
		op  string
		err error
	}
)

func (e errMsg) Error() string { return e.op + ": " + e.err.Error() }

func fetchPosts(ctx context.Context, c PostsClient) tea.Cmd {
	return func() tea.Msg {
		posts, err := c.List(ctx)
		if err != nil {
			return errMsg{op: "load posts", err: err}
		}
		return postsLoadedMsg{posts: posts}
	}
}

func fetchDetail(ctx context.Context, c PostsClient, id model.ID) tea.Cmd {
	return func() tea.Msg {
		p, err := c.Get(ctx, id)
		if err != nil {
			return errMsg{op: "load post " + id.String(), err: err}
		}
		return detailLoadedMsg{post: p}
	}
}

func fetchForEdit(ctx context.Context, c PostsClient, id model.ID) tea.Cmd {
	return func() tea.Msg {
		p, err := c.Get(ctx, id)
		if err != nil {
			return errMsg{op: "load post " + id.String(), err: err}
		}
		return editLoadedMsg{id: id, post: p}
	}
}

func createPost(ctx context.Context, c PostsClient, in model.PostInput) tea.Cmd {
	return func() tea.Msg {
		p, err := c.Create(ctx, in)
		if err != nil {
			return errMsg{op: "create post", err: err}
		}
		return postCreatedMsg{post: p}
	}
}

func updatePost(ctx context.Context, c PostsClient, id model.ID, patch model.PostPatch) tea.Cmd {
	return func() tea.Msg {
		if _, err := c.Update(ctx, id, patch); err != nil {
			return errMsg{op: "update post " + id.String(), err: err}
		}
		return postUpdatedMsg{id: id}
	}
}

func deletePost(ctx context.Context, c PostsClient, id model.ID) tea.Cmd {
	return func() tea.Msg {
		if err := c.Delete(ctx, id); err != nil {
			return errMsg{op: "delete post " + id.String(), err: err}
		}
		return postDeletedMsg{id: id}
	}
}
