package trigram

import (
	"errors"
	"strings"
	"testing"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func FuzzExtract(f *testing.F) {
	seeds := []string{
		"",
		"abc",
		"The quick brown fox.",
		"Ça m'étonne, ÉTÉ!",
		"Привет, мир",
		"中文 😀 text",
		"\xc3",
		"\x80\x80",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		freqs, err := Extract(string(input), EdgesAll)
		if err != nil {
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("unexpected error type: %v", err)
			}
			return
		}
		for tri, count := range freqs {
			if count <= 0 {
				t.Fatalf("non-positive count %d for %q", count, tri)
			}
			if strings.Contains(tri, "  ") {
				t.Fatalf("trigram %q has adjacent spaces", tri)
			}
		}
		table := Rank(freqs, DefaultThreshold)
		if len(table) > DefaultThreshold {
			t.Fatalf("rank table too large: %d", len(table))
		}
		if d := Distance(table, table, DefaultThreshold); d != 0 {
			t.Fatalf("self distance %d", d)
		}
	})
}
