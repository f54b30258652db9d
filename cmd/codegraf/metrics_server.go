package main

import (
	"net/http"

	"github.com/codegraf/codegraf/internal/metrics"
	"github.com/codegraf/codegraf/internal/obslog"
)

// serveMetrics blocks serving the Prometheus exposition endpoint; callers
// run it in its own goroutine so an indexing run isn't held up by it.
func serveMetrics(addr string, rec *metrics.Recorder) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	obslog.Indexing("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		obslog.Warn("metrics server stopped", "error", err)
	}
}
