package detect

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"trilang/internal/iso639"
	"trilang/internal/scoring"
	"trilang/internal/textenc"
	"trilang/internal/trace"
)

// Option configures a Detector.
type Option func(*Detector)

// WithMode selects the scoring convention.
func WithMode(mode scoring.Mode) Option {
	return func(d *Detector) { d.mode = mode }
}

// WithThreshold overrides the rank table size used for samples and
// normalization. Non-positive values keep the database threshold.
func WithThreshold(threshold int) Option {
	return func(d *Detector) {
		if threshold > 0 {
			d.threshold = threshold
		}
	}
}

// WithWorkers bounds the goroutines used to score languages.
func WithWorkers(n int) Option {
	return func(d *Detector) { d.workers = n }
}

// WithNameMode selects how languages are named in results and accepted as input.
func WithNameMode(mode NameMode) Option {
	return func(d *Detector) { d.names = mode }
}

// WithTranscoder converts every sample before tokenization.
func WithTranscoder(t textenc.Transcoder) Option {
	return func(d *Detector) { d.transcoder = t }
}

// WithTracer records spans of every operation. Without it the tracer is
// taken from the operation's context.
func WithTracer(t trace.Tracer) Option {
	return func(d *Detector) { d.tracer = t }
}

// WithLogger sets the operator logger.
func WithLogger(l *log.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.log = l
		}
	}
}

// NameMode selects the identifiers of languages.
type NameMode uint8

const (
	NameModeName NameMode = iota // "english"
	NameModeISO2                 // "en", falling back to the name
	NameModeISO3                 // "eng"
)

// String returns the flag spelling of m.
func (m NameMode) String() string {
	switch m {
	case NameModeName:
		return "name"
	case NameModeISO2:
		return "iso2"
	case NameModeISO3:
		return "iso3"
	default:
		return "unknown"
	}
}

// ParseNameMode converts a flag or config value to a NameMode.
func ParseNameMode(s string) (NameMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name":
		return NameModeName, nil
	case "iso2", "2":
		return NameModeISO2, nil
	case "iso3", "3":
		return NameModeISO3, nil
	default:
		return NameModeName, fmt.Errorf("invalid name mode: %q (expected: name|iso2|iso3)", s)
	}
}

// Label renders a database language name in mode m.
func (m NameMode) Label(name string) string {
	var (
		code string
		ok   bool
	)
	switch m {
	case NameModeISO2:
		code, ok = iso639.Code2(name)
	case NameModeISO3:
		code, ok = iso639.Code3(name)
	}
	if !ok {
		return name
	}
	return code
}
