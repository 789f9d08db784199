package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
)

// AlertRepo implements domain.AlertRepository on the emergency_alerts collection.
type AlertRepo struct {
	coll *mongo.Collection
}

func NewAlertRepo(db *mongo.Database) *AlertRepo {
	return &AlertRepo{coll: db.Collection("emergency_alerts")}
}

func (r *AlertRepo) Create(ctx context.Context, alert *domain.EmergencyAlert) error {
	if _, err := r.coll.InsertOne(ctx, alert); err != nil {
		return fmt.Errorf("failed to insert emergency alert: %w", err)
	}
	return nil
}

func (r *AlertRepo) ListByRequest(ctx context.Context, requestID string) ([]domain.EmergencyAlert, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"blood_request_id": requestID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list emergency alerts: %w", err)
	}

	var alerts []domain.EmergencyAlert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode emergency alerts: %w", err)
	}
	return alerts, nil
}
