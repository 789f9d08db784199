package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
)

// RequestRepo implements domain.RequestRepository on the blood_requests collection.
type RequestRepo struct {
	coll *mongo.Collection
}

func NewRequestRepo(db *mongo.Database) *RequestRepo {
	return &RequestRepo{coll: db.Collection("blood_requests")}
}

func (r *RequestRepo) Create(ctx context.Context, request *domain.BloodRequest) error {
	if _, err := r.coll.InsertOne(ctx, request); err != nil {
		return fmt.Errorf("failed to insert blood request: %w", err)
	}
	return nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id string) (*domain.BloodRequest, error) {
	var request domain.BloodRequest
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&request)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find blood request: %w", err)
	}
	return &request, nil
}

// ListActive returns active requests, newest first.
func (r *RequestRepo) ListActive(ctx context.Context) ([]domain.BloodRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"status": domain.RequestActive}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list blood requests: %w", err)
	}

	var requests []domain.BloodRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode blood requests: %w", err)
	}
	return requests, nil
}

func (r *RequestRepo) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	update := bson.M{
		"$set":         bson.M{"status": status},
		"$currentDate": bson.M{"updated_at": true},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepo) IncrementAlertsSent(ctx context.Context, id string, delta int) error {
	update := bson.M{"$inc": bson.M{"alerts_sent": delta}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to increment alerts sent: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepo) CountActive(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"status": domain.RequestActive})
	if err != nil {
		return 0, fmt.Errorf("failed to count blood requests: %w", err)
	}
	return count, nil
}

func (r *RequestRepo) CountActiveByType(ctx context.Context, bt domain.BloodType) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"status": domain.RequestActive, "blood_type_needed": bt})
	if err != nil {
		return 0, fmt.Errorf("failed to count blood requests by type: %w", err)
	}
	return count, nil
}
