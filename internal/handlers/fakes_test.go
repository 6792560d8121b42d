package handlers_test

import (
	"context"
	"fmt"
	"sync"

	"ecotrack-backend/internal/apperr"
	"ecotrack-backend/internal/models"
)

type memStore struct {
	mu      sync.Mutex
	records []models.Feedback
	err     error
}

func (s *memStore) Insert(_ context.Context, record models.Feedback) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if record.IsEmpty() {
		return "", fmt.Errorf("memStore.Insert: %w", apperr.ErrInvalidRequest)
	}
	id := fmt.Sprintf("id-%d", len(s.records)+1)
	doc := record.Clone()
	doc[models.FieldID] = id
	s.records = append(s.records, doc)
	return id, nil
}

func (s *memStore) ListAll(context.Context) ([]models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.Feedback(nil), s.records...), nil
}

func (s *memStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []models.Event
}

func (b *recordingBroadcaster) Broadcast(_ context.Context, event models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBroadcaster) Events() []models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Event(nil), b.events...)
}

type chanNotifier struct {
	calls chan string
	err   error
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{calls: make(chan string, 8)}
}

func (n *chanNotifier) Notify(_ context.Context, id string, _ models.Feedback) error {
	n.calls <- id
	return n.err
}

type countStub struct {
	n   int64
	err error
}

func (c countStub) CountDocuments(context.Context) (int64, error) {
	return c.n, c.err
}
