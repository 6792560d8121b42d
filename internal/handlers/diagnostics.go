package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// DocumentCounter reports how many documents the probe collection holds.
type DocumentCounter interface {
	CountDocuments(ctx context.Context) (int64, error)
}

type DiagnosticsHandler struct {
	counter DocumentCounter
	service string
	log     *zap.Logger
}

func NewDiagnosticsHandler(counter DocumentCounter, service string, log *zap.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{counter: counter, service: service, log: log}
}

// --- GET /api/test ---

func (h *DiagnosticsHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	count, err := h.counter.CountDocuments(r.Context())
	if err != nil {
		h.log.Error("count probe documents", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to connect to MongoDB", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Connected to MongoDB successfully!",
		"documentCount": count,
	})
}

// --- GET /health ---

func (h *DiagnosticsHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": h.service})
}
