package handlers

import "net/http"

type Health struct {
	health HealthContract
}

func NewHealth(h HealthContract) *Health { return &Health{health: h} }

// Handler answers 503 only when a critical check fails; a degraded service
// still answers 200.
func (h *Health) Handler(w http.ResponseWriter, r *http.Request) {
	res := h.health.Check(r.Context())
	status := http.StatusOK
	if !res.OK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, res)
}
