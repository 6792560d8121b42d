package notify

import (
	"context"

	"go.uber.org/zap"

	"ecotrack-backend/internal/models"
)

// LogNotifier writes the summary to the log. It is used when no email
// provider is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, id string, record models.Feedback) error {
	n.log.Info("feedback notification", zap.String("feedback_id", id), zap.String("summary", Summary(id, record)))
	return nil
}
