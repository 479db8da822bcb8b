package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/idilsaglam/postboard/internal/api"
	"github.com/idilsaglam/postboard/internal/config"
	"github.com/idilsaglam/postboard/internal/logger"
	"github.com/idilsaglam/postboard/internal/model"
	"github.com/idilsaglam/postboard/internal/server"
	"github.com/idilsaglam/postboard/internal/store/jsonstore"
	"github.com/idilsaglam/postboard/internal/store/memory"
	"github.com/idilsaglam/postboard/internal/tui"
	"github.com/idilsaglam/postboard/internal/ui"
)

// Options carry what the root command resolved.
type Options struct {
	Config *config.Config
	Out    io.Writer
	Err    io.Writer
}

type runner struct {
	cfg    *config.Config
	out    io.Writer
	errw   io.Writer
	log    *slog.Logger
	client *api.Client
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.Out == nil {
		opt.Out = os.Stdout
	}
	if opt.Err == nil {
		opt.Err = os.Stderr
	}
	if len(args) == 0 {
		PrintHelp(opt.Out)
		return 2
	}
	ui.SetTheme(opt.Config.Theme)
	cmd, a := args[0], args[1:]

	if cmd == "serve" {
		return doServe(ctx, opt)
	}
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		PrintHelp(opt.Out)
		return 0
	}

	log, closeLog, err := logger.ToFile(opt.Config.Env, opt.Config.LogFile)
	if err != nil {
		ui.Fail(opt.Err, err.Error())
		return 1
	}
	defer closeLog()

	clientOpts := []api.Option{api.WithTimeout(opt.Config.Timeout), api.WithLogger(log)}
	if opt.Config.LenientStatus {
		clientOpts = append(clientOpts, api.WithLenientStatus())
	}
	client, err := api.New(opt.Config.BaseURL, clientOpts...)
	if err != nil {
		ui.Fail(opt.Err, err.Error())
		return 2
	}
	r := &runner{cfg: opt.Config, out: opt.Out, errw: opt.Err, log: log, client: client}

	switch cmd {
	case "ui":
		return r.doUI(ctx)

	case "ls":
		return r.doList(ctx)

	case "show":
		if len(a) != 1 {
			ui.Fail(r.errw, "usage: postboard show <id>")
			return 2
		}
		return r.doShow(ctx, model.ID(a[0]))

	case "add":
		if len(a) < 3 {
			ui.Fail(r.errw, "usage: postboard add <title> <author> <content...>")
			return 2
		}
		return r.doAdd(ctx, a[0], a[1], strings.Join(a[2:], " "))

	case "edit":
		return r.doEdit(ctx, a)

	case "rm":
		if len(a) != 1 {
			ui.Fail(r.errw, "usage: postboard rm <id>")
			return 2
		}
		return r.doRemove(ctx, model.ID(a[0]))
	}

	ui.Fail(opt.Err, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Err)
	PrintHelp(opt.Err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `postboard - a posts board for a REST collection

Usage:
  postboard [-url URL] [-theme NAME] [-config FILE] <subcommand> [args]

Subcommands:
  ui                                  Interactive board (list, detail, create, edit, delete)
  ls                                  List posts
  show <id>                           Show one post
  add <title> <author> <content...>   Create a post with the default image
  edit <id> [-title T] [-author A] [-content C]
                                      Update the given fields of a post
  rm <id>                             Delete a post
  serve                               Run a local posts server (json-server style)

Examples:
  postboard serve
  postboard add "Hello" "Ada" "First post"
  postboard ls
  postboard edit 1 -title "Hello again"
  postboard rm 1
`)
}

// -------------- subcommand impls ----------------

func (r *runner) doUI(ctx context.Context) int {
	err := tui.Run(ctx, r.client, tui.Options{DefaultImage: r.cfg.DefaultImage, Logger: r.log})
	if err != nil {
		ui.Fail(r.errw, "ui: "+err.Error())
		return 1
	}
	return 0
}

func (r *runner) doList(ctx context.Context) int {
	posts, err := r.client.List(ctx)
	if err != nil {
		ui.Fail(r.errw, "list: "+err.Error())
		return 1
	}
	t := ui.Current()
	lines := []string{
		fmt.Sprintf("%s  %s %d", ui.C(t.Title, "Posts"), ui.C(t.Accent, "Total"), len(posts)),
		ui.C(t.Muted, r.client.BaseURL()),
		"",
	}
	lines = append(lines, listLines(posts)...)
	lines = append(lines, "", ui.C(t.Muted, "Tip: open one with `postboard show <id>`"))
	ui.Panel(r.out, lines)
	return 0
}

func (r *runner) doShow(ctx context.Context, id model.ID) int {
	p, err := r.client.Get(ctx, id)
	if err != nil {
		ui.Fail(r.errw, "show: "+err.Error())
		return 1
	}
	ui.Panel(r.out, detailLines(p))
	return 0
}

func (r *runner) doAdd(ctx context.Context, title, author, content string) int {
	in := model.NewPostInput(title, author, content, r.cfg.DefaultImage)
	if blank(in.Title) || blank(in.Author) || blank(in.Content) {
		ui.Fail(r.errw, "add: title, author and content are required")
		return 2
	}
	p, err := r.client.Create(ctx, in)
	if err != nil {
		ui.Fail(r.errw, "add: "+err.Error())
		return 1
	}
	ui.OK(r.out, fmt.Sprintf("added post %s", p.ID))
	return 0
}

func (r *runner) doEdit(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(r.errw)
	title := fs.String("title", "", "new title")
	author := fs.String("author", "", "new author")
	content := fs.String("content", "", "new content")
	if len(args) == 0 {
		ui.Fail(r.errw, "usage: postboard edit <id> [-title T] [-author A] [-content C]")
		return 2
	}
	id, rest := model.ID(args[0]), args[1:]
	if err := fs.Parse(rest); err != nil {
		return 2
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 {
		ui.Fail(r.errw, "edit: nothing to change, pass -title, -author or -content")
		return 2
	}

	// The update always carries all three editable fields, so start from the current post.
	cur, err := r.client.Get(ctx, id)
	if err != nil {
		ui.Fail(r.errw, "edit: "+err.Error())
		return 1
	}
	patch := cur.Patch()
	if set["title"] {
		patch.Title = *title
	}
	if set["author"] {
		patch.Author = *author
	}
	if set["content"] {
		patch.Content = *content
	}
	if blank(patch.Title) || blank(patch.Author) || blank(patch.Content) {
		ui.Fail(r.errw, "edit: title, author and content cannot be empty")
		return 2
	}
	if _, err := r.client.Update(ctx, id, patch); err != nil {
		ui.Fail(r.errw, "edit: "+err.Error())
		return 1
	}
	ui.OK(r.out, "updated post "+id.String())
	return 0
}

func (r *runner) doRemove(ctx context.Context, id model.ID) int {
	if err := r.client.Delete(ctx, id); err != nil {
		ui.Fail(r.errw, "rm: "+err.Error())
		return 1
	}
	ui.OK(r.out, "removed post "+id.String())
	return 0
}

func doServe(ctx context.Context, opt Options) int {
	cfg := opt.Config
	log := logger.New(cfg.Env, opt.Err)
	if cfg.Env == logger.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, err := memory.Open(log, jsonstore.New(cfg.Server.DataFile))
	if err != nil {
		ui.Fail(opt.Err, "serve: "+err.Error())
		return 1
	}
	srv := server.New(repo, log, server.Options{DefaultImage: cfg.DefaultImage})
	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		ui.Fail(opt.Err, "serve: "+err.Error())
		return 1
	}
	return 0
}

// -------------- rendering helpers --------------

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func listLines(posts []model.Post) []string {
	t := ui.Current()
	if len(posts) == 0 {
		return []string{ui.C(t.Muted, "no posts")}
	}
	out := make([]string, 0, len(posts))
	for i, p := range posts {
		title := p.Title
		if len([]rune(title)) > 80 {
			title = string([]rune(title)[:77]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.C("\033[2m", fmt.Sprintf("%2d.", i+1)), title, ui.C(t.Muted, "#"+p.ID.String())))
	}
	return out
}

func detailLines(p model.Post) []string {
	t := ui.Current()
	lines := []string{
		ui.C(t.Title, p.Title),
		ui.C(t.Muted, "image:  ") + p.Image,
		ui.C(t.Muted, "author: ") + p.Author,
		ui.C(t.Muted, "id:     ") + p.ID.String(),
		"",
	}
	for _, ln := range ui.Wrap(p.Content, 72) {
		lines = append(lines, strings.TrimRight(ln, " "))
	}
	return lines
}
