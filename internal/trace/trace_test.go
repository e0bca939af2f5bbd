package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	Begin(ring, ScopeOperation, "detect", 0).End("")
	Point(ring, ScopeLanguage, "score:english", 0, "0.91")
	Point(ring, ScopeStep, "merge", 0, "")

	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Kind != KindSpanBegin || events[1].Kind != KindSpanEnd {
		t.Errorf("kinds = %v, %v", events[0].Kind, events[1].Kind)
	}
	if events[0].Seq >= events[1].Seq {
		t.Errorf("sequence not increasing: %d, %d", events[0].Seq, events[1].Seq)
	}
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopeStep, name, 0, "")
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ""); got != "cde" {
		t.Errorf("snapshot = %q, want cde", got)
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	span := Begin(tr, ScopeOperation, "similarity", 0)
	Point(tr, ScopeLanguage, "pair", span.ID(), "english/french")
	span.WithExtra("pairs", "1").End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	var last jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &last); err != nil {
		t.Fatal(err)
	}
	if last.Kind != "end" || last.Extra["pairs"] != "1" || last.Detail != "done" {
		t.Errorf("end event = %+v", last)
	}
	var mid jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &mid); err != nil {
		t.Fatal(err)
	}
	if mid.ParentID != span.ID() {
		t.Errorf("point parent = %d, want %d", mid.ParentID, span.ID())
	}
}

func TestDisabledTracer(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("LevelOff tracer is enabled")
	}
	span := Begin(tr, ScopeCommand, "detect", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Error("disabled span recorded something")
	}
	if FromContext(context.Background()) != Nop {
		t.Error("empty context has a tracer")
	}
}

func TestRingOf(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Mode: ModeBoth, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if RingOf(tr) == nil {
		t.Error("ModeBoth tracer has no ring")
	}
	if RingOf(Nop) != nil {
		t.Error("Nop has a ring")
	}
}
