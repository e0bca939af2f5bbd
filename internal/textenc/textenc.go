// Package textenc converts input samples to NFC-normalized UTF-8 before they
// reach the tokenizer.
package textenc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/unicode/norm"
)

// Transcoder turns raw sample bytes (held in a string) into UTF-8.
type Transcoder interface {
	Transcode(raw string) (string, error)
}

// Auto is the label of the transcoder that keeps valid UTF-8 and reads
// anything else as windows-1252.
const Auto = "auto"

// New returns the transcoder for label: "auto", "utf-8" or any WHATWG
// encoding label ("latin1", "windows-1251", "koi8-r", ...).
func New(label string) (Transcoder, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	switch label {
	case "", Auto:
		return autoTranscoder{fallback: charmap.Windows1252}, nil
	case "utf-8", "utf8":
		return utf8Transcoder{}, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return encodingTranscoder{enc: enc}, nil
}

type utf8Transcoder struct{}

func (utf8Transcoder) Transcode(raw string) (string, error) {
	return norm.NFC.String(raw), nil
}

type autoTranscoder struct {
	fallback encoding.Encoding
}

func (t autoTranscoder) Transcode(raw string) (string, error) {
	if utf8.ValidString(raw) {
		return norm.NFC.String(raw), nil
	}
	out, err := t.fallback.NewDecoder().String(raw)
	if err != nil {
		return "", fmt.Errorf("transcode sample: %w", err)
	}
	return norm.NFC.String(out), nil
}

type encodingTranscoder struct {
	enc encoding.Encoding
}

func (t encodingTranscoder) Transcode(raw string) (string, error) {
	out, err := t.enc.NewDecoder().String(raw)
	if err != nil {
		return "", fmt.Errorf("transcode sample: %w", err)
	}
	return norm.NFC.String(out), nil
}
