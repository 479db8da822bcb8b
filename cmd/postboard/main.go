package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/postboard/internal/cli"
	"github.com/idilsaglam/postboard/internal/config"
	"github.com/idilsaglam/postboard/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	baseURL := flag.String("url", "", "posts collection URL (overrides base_url)")
	theme := flag.String("theme", "", "output theme: classic, neon, mono")
	cfgFile := flag.String("config", "", "config file (default ./postboard.yaml)")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stdout)
		os.Exit(2)
	}

	cfg, err := config.Load(config.Overrides{ConfigFile: *cfgFile, BaseURL: *baseURL, Theme: *theme})
	if err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, args, cli.Options{Config: cfg})
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
