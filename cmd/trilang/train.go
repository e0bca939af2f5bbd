package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trilang/internal/corpus"
	"trilang/internal/langdb"
	"trilang/internal/logging"
	"trilang/internal/textenc"
)

func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train [corpus-dir]",
		Short: "Build a language database from corpus files",
		Long: `Profile every <language>.txt file of the corpus directory and write the
language database. --threshold sets the profile size, --workers the number
of files profiled at once and --db-format the output format.`,
		Args: cobra.MaximumNArgs(1),
		RunE: trainExecution,
	}
	cmd.Flags().StringP("out", "o", "", "output database (default: train.out of trilang.toml or languages.msgpack)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

func trainExecution(cmd *cobra.Command, args []string) (err error) {
	uiValue, _ := cmd.Flags().GetString("ui")
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	s, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	tc := s.cfg.Train
	dir := tc.Corpus
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("no corpus directory: pass it as argument or set train.corpus")
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = tc.Out
	}
	format, err := langdb.ParseFormat(s.flagString("db-format", s.cfg.Database.Format))
	if err != nil {
		return err
	}
	transcoder, err := textenc.New(s.flagString("encoding", tc.Encoding))
	if err != nil {
		return err
	}

	files, err := corpus.ListFiles(dir)
	if err != nil {
		return err
	}
	opts := corpus.Options{
		Threshold:  s.flagInt("threshold", tc.Threshold),
		Jobs:       s.flagInt("workers", tc.Jobs),
		Transcoder: transcoder,
	}

	idx := s.timer.Begin("train")
	var db *langdb.Database
	if !s.quiet && shouldUseTUI(uiModeValue) {
		db, err = runTrainWithUI(s.ctx, "profiling "+dir, files, opts)
	} else {
		opts.Sink = corpus.SinkFunc(func(ev corpus.Event) {
			if ev.Status == corpus.StatusDone || ev.Status == corpus.StatusSkipped {
				logging.Debug("profiled", "language", ev.Language, "trigrams", ev.Trigrams, "elapsed", ev.Elapsed)
			}
		})
		db, err = corpus.BuildFiles(s.ctx, files, opts)
	}
	if err != nil {
		return err
	}
	s.timer.End(idx, len(files), "files")

	idx = s.timer.Begin("write")
	if err := langdb.Write(s.ctx, out, db, format); err != nil {
		return err
	}
	s.timer.End(idx, db.Len(), out)
	s.info("wrote %d languages (threshold %d) to %s", db.Len(), db.Threshold(), out)
	return nil
}
