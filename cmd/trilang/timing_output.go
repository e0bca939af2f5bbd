package main

import (
	"fmt"
	"io"

	"trilang/internal/observ"
)

// printTimings writes the phase table of --timings. Output errors are
// ignored; timings go to stderr next to the operator log.
func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	if len(timer.Report().Phases) == 0 {
		return
	}
	_, _ = fmt.Fprint(out, timer.Summary())
}
