package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"trilang/internal/config"
	"trilang/internal/detect"
	"trilang/internal/langdb"
	"trilang/internal/logging"
	"trilang/internal/observ"
	"trilang/internal/scoring"
	"trilang/internal/textenc"
)

// session holds what every command sets up from the persistent flags.
type session struct {
	cmd   *cobra.Command
	ctx   context.Context
	cfg   *config.Config
	timer *observ.Timer
	quiet bool

	stopProfiling func()
	stopTracing   func(failed bool)
}

// startSession configures logging, color, profiling and tracing and loads
// trilang.toml. The caller must call finish with the command's error.
func startSession(cmd *cobra.Command) (*session, error) {
	pf := cmd.Root().PersistentFlags()
	s := &session{cmd: cmd, stopProfiling: func() {}, stopTracing: func(bool) {}}

	logLevel, _ := pf.GetString("log-level")
	if err := logging.Init(cmd.ErrOrStderr(), logLevel); err != nil {
		return nil, err
	}
	colorValue, _ := pf.GetString("color")
	if err := applyColor(colorValue); err != nil {
		return nil, err
	}
	s.quiet, _ = pf.GetBool("quiet")
	if timings, _ := pf.GetBool("timings"); timings {
		s.timer = observ.NewTimer()
	}

	idx := s.timer.Begin("config")
	cfgPath, _ := pf.GetString("config")
	var err error
	if cfgPath != "" {
		s.cfg, err = config.Load(cfgPath)
	} else {
		s.cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}
	s.timer.End(idx, 0, s.cfg.Path)
	if s.cfg.Path != "" {
		logging.Debug("config loaded", "path", s.cfg.Path)
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return nil, err
	}
	ctx, stopTracing, err := setupTracing(cmd)
	if err != nil {
		stopProfiling()
		return nil, err
	}
	s.ctx, s.stopProfiling, s.stopTracing = ctx, stopProfiling, stopTracing
	return s, nil
}

// finish releases the session and passes err through.
func (s *session) finish(err error) error {
	s.stopTracing(err != nil)
	s.stopProfiling()
	printTimings(s.cmd.ErrOrStderr(), s.timer)
	return err
}

func (s *session) out() io.Writer { return s.cmd.OutOrStdout() }

// info prints a status line to stderr unless --quiet.
func (s *session) info(format string, args ...any) {
	if s.quiet {
		return
	}
	fmt.Fprintf(s.cmd.ErrOrStderr(), format+"\n", args...)
}

// flagString returns the persistent flag when it was set on the command
// line, otherwise the config value, otherwise the flag default.
func (s *session) flagString(name, fromConfig string) string {
	f := s.cmd.Root().PersistentFlags().Lookup(name)
	if f.Changed || strings.TrimSpace(fromConfig) == "" {
		return f.Value.String()
	}
	return fromConfig
}

func (s *session) flagInt(name string, fromConfig int) int {
	pf := s.cmd.Root().PersistentFlags()
	v, _ := pf.GetInt(name)
	if pf.Changed(name) || fromConfig == 0 {
		return v
	}
	return fromConfig
}

func (s *session) flagList(name string, fromConfig []string) []string {
	pf := s.cmd.Root().PersistentFlags()
	v, _ := pf.GetStringSlice(name)
	if pf.Changed(name) {
		return v
	}
	return fromConfig
}

func (s *session) openDatabase() (*langdb.Database, error) {
	path := s.flagString("db", s.cfg.Database.Path)
	if path == "" {
		return nil, fmt.Errorf("no language database: pass --db or set database.path in %s", config.FileName)
	}
	format, err := langdb.ParseFormat(s.flagString("db-format", s.cfg.Database.Format))
	if err != nil {
		return nil, err
	}
	idx := s.timer.Begin("load")
	db, err := langdb.Open(s.ctx, path, format)
	if err != nil {
		return nil, err
	}
	s.timer.End(idx, db.Len(), path)
	logging.Debug("database loaded", "path", path, "languages", db.Len(), "threshold", db.Threshold())
	return db, nil
}

// openDetector loads the database and applies the detection flags and
// config on top of it.
func (s *session) openDetector() (*detect.Detector, error) {
	db, err := s.openDatabase()
	if err != nil {
		return nil, err
	}
	dc := s.cfg.Detect

	mode, err := scoring.ParseMode(s.flagString("mode", dc.Mode))
	if err != nil {
		return nil, err
	}
	names, err := detect.ParseNameMode(s.flagString("names", dc.Names))
	if err != nil {
		return nil, err
	}
	tc, err := textenc.New(s.flagString("encoding", dc.Encoding))
	if err != nil {
		return nil, err
	}

	opts := []detect.Option{
		detect.WithMode(mode),
		detect.WithNameMode(names),
		detect.WithThreshold(s.flagInt("threshold", dc.Threshold)),
		detect.WithTranscoder(tc),
		detect.WithLogger(logging.WithPrefix("detect")),
	}
	if workers := s.flagInt("workers", dc.Workers); workers > 0 {
		opts = append(opts, detect.WithWorkers(workers))
	}
	d := detect.New(db, opts...)

	omit := s.flagList("omit", dc.Omit)
	only := s.flagList("only", dc.Only)
	if len(only) > 0 {
		if _, err := d.OmitLanguages(only, true); err != nil {
			return nil, err
		}
	}
	if len(omit) > 0 {
		if _, err := d.OmitLanguages(omit, false); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// readSample joins args, or reads stdin when there are none.
func readSample(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return "", fmt.Errorf("no text given: pass it as arguments or pipe it to stdin")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func checkFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if !slices.Contains([]string{"pretty", "json"}, format) {
		return "", fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	return format, nil
}
