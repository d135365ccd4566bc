package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pictag/internal/adapters/editor"
	"pictag/internal/adapters/pixiv"
	"pictag/internal/adapters/tui"
	"pictag/internal/application"
	"pictag/internal/bootstrap"
	"pictag/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// stderr belongs to the alt screen; records only go to the log dir
	env, err := bootstrap.Open(cfg, "pictag", io.Discard)
	if err != nil {
		return err
	}
	defer env.Close()
	env.EnsureIndex()

	catalog := application.NewGuarded(env.Catalog)
	app := tui.NewApp(catalog, editor.NewOpener(), pixiv.NewOpener(""), env.Tree.Path())

	p := tea.NewProgram(app, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, err := env.Watch(ctx, catalog, func() { p.Send(tui.TreeChangedMsg{}) })
	if err != nil {
		env.Log.Warn("tree file watching disabled", "error", err)
	} else {
		defer w.Stop()
	}

	_, err = p.Run()
	return err
}
