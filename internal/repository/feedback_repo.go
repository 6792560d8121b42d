package repository

import (
	"context"
	"fmt"

	"ecotrack-backend/internal/apperr"
	"ecotrack-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// FeedbackRepo persists feedback records in a single collection.
type FeedbackRepo struct {
	collection *mongo.Collection
}

func NewFeedbackRepo(collection *mongo.Collection) *FeedbackRepo {
	return &FeedbackRepo{
		collection: collection,
	}
}

// Insert stores a copy of record and returns the assigned id as hex.
// Only emptiness is checked; field contents are stored as given.
func (r *FeedbackRepo) Insert(ctx context.Context, record models.Feedback) (string, error) {
	const op = "repository.Feedback.Insert"

	if record.IsEmpty() {
		return "", fmt.Errorf("%s: %w: feedback data is required", op, apperr.ErrInvalidRequest)
	}

	doc := record.Clone()
	delete(doc, models.FieldID)

	result, err := r.collection.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", op, apperr.ErrStoreUnavailable, err)
	}

	switch id := result.InsertedID.(type) {
	case bson.ObjectID:
		return id.Hex(), nil
	default:
		return fmt.Sprint(id), nil
	}
}

// ListAll returns every record in natural storage order.
func (r *FeedbackRepo) ListAll(ctx context.Context) ([]models.Feedback, error) {
	const op = "repository.Feedback.ListAll"

	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, apperr.ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	records := make([]models.Feedback, 0)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: %w: decode: %v", op, apperr.ErrStoreUnavailable, err)
		}
		records = append(records, toFeedback(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, apperr.ErrStoreUnavailable, err)
	}
	return records, nil
}

// EnsureIndexes creates secondary indexes for the admin listing views.
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: models.FieldSubmittedAt, Value: -1}}},
		{Keys: bson.D{{Key: models.FieldCategory, Value: 1}}},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func toFeedback(doc bson.M) models.Feedback {
	out := make(models.Feedback, len(doc))
	for k, v := range doc {
		out[k] = normalize(v)
	}
	return out
}

// normalize turns driver types into plain JSON-friendly values: nested
// documents become maps, arrays become slices and ObjectIDs become hex.
func normalize(v any) any {
	switch val := v.(type) {
	case bson.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]any, len(val))
		for k, e := range val {
			m[k] = normalize(e)
		}
		return m
	case bson.A:
		s := make([]any, len(val))
		for i, e := range val {
			s[i] = normalize(e)
		}
		return s
	case bson.ObjectID:
		return val.Hex()
	default:
		return v
	}
}
