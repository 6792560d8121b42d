package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ecotrack-backend/internal/apperr"
	"ecotrack-backend/internal/metrics"
	"ecotrack-backend/internal/middleware"
	"ecotrack-backend/internal/models"
	"ecotrack-backend/internal/notify"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const notifyTimeout = 10 * time.Second

// FeedbackStore is the persistence boundary for feedback records.
type FeedbackStore interface {
	Insert(ctx context.Context, record models.Feedback) (string, error)
	ListAll(ctx context.Context) ([]models.Feedback, error)
}

// Broadcaster pushes an event to the connected realtime clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, event models.Event)
}

type FeedbackHandler struct {
	store       FeedbackStore
	broadcaster Broadcaster
	notifier    notify.Notifier
	metrics     *metrics.Metrics
	log         *zap.Logger
}

func NewFeedbackHandler(store FeedbackStore, broadcaster Broadcaster, notifier notify.Notifier, m *metrics.Metrics, log *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		store:       store,
		broadcaster: broadcaster,
		notifier:    notifier,
		metrics:     m,
		log:         log,
	}
}

type SubmitFeedbackResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// --- POST /api/feedback ---

func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.String("username", middleware.GetUsername(r.Context())),
	)

	var record models.Feedback
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil || record.IsEmpty() {
		writeError(w, http.StatusBadRequest, "Feedback data is required", "")
		return
	}

	id, err := h.store.Insert(r.Context(), record)
	if err != nil {
		status := apperr.StatusCode(err)
		if errors.Is(err, apperr.ErrInvalidRequest) {
			writeError(w, status, "Feedback data is required", "")
			return
		}
		log.Error("insert feedback", zap.Error(err))
		writeError(w, status, "Failed to save feedback", err.Error())
		return
	}
	h.metrics.FeedbackSubmitted()

	// Persisted; only now may the record be announced.
	h.broadcaster.Broadcast(r.Context(), models.NewFeedbackEvent(record))

	if h.notifier != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := h.notifier.Notify(ctx, id, record); err != nil {
				log.Warn("feedback notification failed", zap.String("feedback_id", id), zap.Error(err))
			}
		}()
	}

	log.Info("feedback saved", zap.String("feedback_id", id))
	writeJSON(w, http.StatusCreated, SubmitFeedbackResponse{
		Message: "Feedback saved successfully",
		ID:      id,
	})
}

// --- GET /api/feedback ---

func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListAll(r.Context())
	if err != nil {
		h.log.Error("list feedback",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err))
		writeError(w, apperr.StatusCode(err), "Failed to retrieve feedback", err.Error())
		return
	}
	if records == nil {
		records = []models.Feedback{}
	}
	writeJSON(w, http.StatusOK, records)
}
