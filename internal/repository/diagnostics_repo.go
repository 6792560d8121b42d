package repository

import (
	"context"
	"fmt"

	"ecotrack-backend/internal/apperr"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// DiagnosticsRepo backs the connectivity probe behind GET /api/test.
type DiagnosticsRepo struct {
	collection *mongo.Collection
}

func NewDiagnosticsRepo(collection *mongo.Collection) *DiagnosticsRepo {
	return &DiagnosticsRepo{collection: collection}
}

// CountDocuments counts every document in the probe collection.
func (r *DiagnosticsRepo) CountDocuments(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("repository.Diagnostics.CountDocuments: %w: %v", apperr.ErrStoreUnavailable, err)
	}
	return count, nil
}
