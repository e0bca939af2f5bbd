package textenc

import "testing"

func TestTranscode(t *testing.T) {
	tests := []struct {
		label string
		raw   string
		want  string
	}{
		{"auto", "déjà vu", "déjà vu"},
		{"auto", "d\xe9j\xe0 vu", "déjà vu"},
		// combining acute accent is composed
		{"auto", "cafe\u0301", "caf\u00e9"},
		{"utf-8", "cafe\u0301", "caf\u00e9"},
		{"latin1", "\xc0 bient\xf4t", "À bientôt"},
		{"windows-1251", "\xef\xf0\xe8\xe2\xe5\xf2", "привет"},
		{"koi8-r", "\xd0\xd2\xc9\xd7\xc5\xd4", "привет"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			tr, err := New(tt.label)
			if err != nil {
				t.Fatal(err)
			}
			got, err := tr.Transcode(tt.raw)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Transcode(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestUnknownLabel(t *testing.T) {
	if _, err := New("no-such-charset"); err == nil {
		t.Fatal("New accepted an unknown label")
	}
}
