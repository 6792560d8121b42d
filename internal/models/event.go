package models

// EventNewFeedback is emitted to realtime subscribers after a feedback
// record has been persisted.
const EventNewFeedback = "newFeedback"

// Event is a message pushed over the realtime channel.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

// NewFeedbackEvent wraps a just-persisted record.
func NewFeedbackEvent(record Feedback) Event {
	return Event{Name: EventNewFeedback, Payload: record}
}
