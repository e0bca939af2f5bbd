package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"trilang/internal/corpus"
	"trilang/internal/langdb"
	"trilang/internal/ui"
)

type trainOutcome struct {
	db  *langdb.Database
	err error
}

func runTrainWithUI(ctx context.Context, title string, files []corpus.File, opts corpus.Options) (*langdb.Database, error) {
	events := make(chan corpus.Event, 256)
	outcomeCh := make(chan trainOutcome, 1)

	go func() {
		opts.Sink = corpus.ChannelSink{Ch: events}
		db, err := corpus.BuildFiles(ctx, files, opts)
		outcomeCh <- trainOutcome{db: db, err: err}
		close(events)
	}()

	languages := make([]string, len(files))
	for i, f := range files {
		languages[i] = f.Language
	}
	model := ui.NewProgressModel(title, languages, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// UI мог завершиться раньше, дочитываем события
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.db, uiErr
	}
	return outcome.db, outcome.err
}
