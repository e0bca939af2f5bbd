package corpus

import "time"

// Status captures the progress of one corpus file.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped" // no trigram in the file
	StatusError   Status = "error"
)

// Event reports progress for one language file.
type Event struct {
	Language string
	File     string
	Status   Status
	Trigrams int
	Err      error
	Elapsed  time.Duration
}

// Sink consumes progress events. OnEvent is called from worker goroutines.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
