package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecotrack-backend/internal/apperr"
	"ecotrack-backend/internal/handlers"
	"ecotrack-backend/internal/metrics"
	"ecotrack-backend/internal/models"
)

type feedbackEnv struct {
	store       *memStore
	broadcaster *recordingBroadcaster
	notifier    *chanNotifier
	handler     *handlers.FeedbackHandler
}

func newFeedbackEnv() *feedbackEnv {
	env := &feedbackEnv{
		store:       &memStore{},
		broadcaster: &recordingBroadcaster{},
		notifier:    newChanNotifier(),
	}
	env.handler = handlers.NewFeedbackHandler(env.store, env.broadcaster, env.notifier, metrics.New(), zap.NewNop())
	return env
}

func (e *feedbackEnv) submit(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.SubmitFeedback(rec, req)
	return rec
}

func (e *feedbackEnv) list() *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ListFeedback(rec, httptest.NewRequest(http.MethodGet, "/api/feedback", nil))
	return rec
}

func TestSubmitFeedback_PersistsThenBroadcasts(t *testing.T) {
	env := newFeedbackEnv()

	body := `{"rating":5,"category":"app","feedback":"Great!","submittedAt":"2024-01-01T00:00:00Z"}`
	rec := env.submit(body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp handlers.SubmitFeedbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Feedback saved successfully", resp.Message)
	assert.Equal(t, "id-1", resp.ID)

	assert.Equal(t, 1, env.store.Len())

	events := env.broadcaster.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventNewFeedback, events[0].Name)
	assert.Equal(t, models.Feedback{
		"rating":      5.0,
		"category":    "app",
		"feedback":    "Great!",
		"submittedAt": "2024-01-01T00:00:00Z",
	}, events[0].Payload)

	select {
	case id := <-env.notifier.calls:
		assert.Equal(t, "id-1", id)
	case <-time.After(time.Second):
		t.Fatal("notifier not called")
	}
}

func TestSubmitFeedback_RejectsEmpty(t *testing.T) {
	for _, body := range []string{``, `{}`, `null`, `[1,2]`, `"text"`, `{bad json`} {
		t.Run(fmt.Sprintf("%q", body), func(t *testing.T) {
			env := newFeedbackEnv()
			rec := env.submit(body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, env.store.Len())
			assert.Empty(t, env.broadcaster.Events())
		})
	}
}

func TestSubmitFeedback_StoreFailureSkipsBroadcast(t *testing.T) {
	env := newFeedbackEnv()
	env.store.err = fmt.Errorf("insert: %w: connection refused", apperr.ErrStoreUnavailable)

	rec := env.submit(`{"rating":1}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to save feedback", body["error"])
	assert.Contains(t, body["details"], "connection refused")
	assert.Empty(t, env.broadcaster.Events())
	assert.Empty(t, env.notifier.calls)
}

func TestSubmitFeedback_NotifierFailureIsInvisible(t *testing.T) {
	env := newFeedbackEnv()
	env.notifier.err = errors.New("smtp down")

	rec := env.submit(`{"category":"bins"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	<-env.notifier.calls
}

func TestListFeedback_GrowsWithEachSubmission(t *testing.T) {
	env := newFeedbackEnv()

	rec := env.list()
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	for i := 1; i <= 3; i++ {
		require.Equal(t, http.StatusCreated, env.submit(fmt.Sprintf(`{"rating":%d}`, i)).Code)

		rec := env.list()
		require.Equal(t, http.StatusOK, rec.Code)
		var records []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		require.Len(t, records, i)
		assert.Equal(t, float64(i), records[i-1]["rating"])
		assert.Equal(t, fmt.Sprintf("id-%d", i), records[i-1]["_id"])
	}
}

func TestListFeedback_StoreFailure(t *testing.T) {
	env := newFeedbackEnv()
	env.store.err = fmt.Errorf("find: %w", apperr.ErrStoreUnavailable)

	rec := env.list()
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to retrieve feedback", body["error"])
}
