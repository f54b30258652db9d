package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorderExposesObservedPhases(t *testing.T) {
	r := New()
	r.ObservePhase("symbols", 0.5)
	r.CountFile("indexed")
	r.AddSymbols(3)
	r.AddRelationships(2)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "codegraf_phase_duration_seconds")
	assert.Contains(t, rec.Body.String(), "codegraf_files_total")
}

func TestNilRecorderIsNoOp(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObservePhase("x", 1)
		r.CountFile("y")
		r.AddSymbols(1)
		r.AddRelationships(1)
		r.Handler()
	})
}
