// Package trace records spans and point events of trilang operations.
//
// Spans are opened with Begin and closed with End; the level decides which
// scopes reach the tracer:
//
//   - phase: commands and operations (detect, similarity, cluster, search, train)
//   - detail: per-language scoring and per-file profile building
//   - debug: individual cluster merges and search steps
//
// Events go to a stream (text or NDJSON), to an in-memory ring that is dumped
// on failure, or to both:
//
//	trilang detect --trace=- --trace-level=detail "some text"
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeOperation, "detect", 0)
//	defer span.End("")
package trace
