package notify

import (
	"context"
	"fmt"
	"strings"

	"ecotrack-backend/internal/models"
)

// Notifier tells the operators about a newly stored feedback record. It is
// called in the background after persistence and its errors are only logged.
type Notifier interface {
	Notify(ctx context.Context, id string, record models.Feedback) error
}

// Summary renders a one-paragraph, human readable digest of a record.
func Summary(id string, record models.Feedback) string {
	var b strings.Builder
	b.WriteString("New feedback received")
	if id != "" {
		fmt.Fprintf(&b, " (%s)", id)
	}
	b.WriteString("\n")

	if rating, ok := record.Rating(); ok {
		fmt.Fprintf(&b, "Rating: %s (%d)\n", strings.Repeat("★", clamp(rating, 0, 5)), rating)
	}
	if c := record.String(models.FieldCategory); c != "" {
		fmt.Fprintf(&b, "Category: %s\n", c)
	}
	if e := record.String(models.FieldEmail); e != "" {
		fmt.Fprintf(&b, "Email: %s\n", e)
	}
	if s := record.String(models.FieldSubmittedAt); s != "" {
		fmt.Fprintf(&b, "Submitted: %s\n", s)
	}
	if text := record.String(models.FieldText); text != "" {
		fmt.Fprintf(&b, "Feedback: %s\n", text)
	}
	return strings.TrimRight(b.String(), "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
