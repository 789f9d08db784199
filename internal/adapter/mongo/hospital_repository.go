package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
)

// HospitalRepo implements domain.HospitalRepository on the hospitals collection.
type HospitalRepo struct {
	coll *mongo.Collection
}

func NewHospitalRepo(db *mongo.Database) *HospitalRepo {
	return &HospitalRepo{coll: db.Collection("hospitals")}
}

func (r *HospitalRepo) Create(ctx context.Context, hospital *domain.Hospital) error {
	count, err := r.coll.CountDocuments(ctx, bson.M{"email": hospital.Email})
	if err != nil {
		return fmt.Errorf("failed to check hospital email: %w", err)
	}
	if count > 0 {
		return domain.ErrDuplicateEmail
	}

	if _, err := r.coll.InsertOne(ctx, hospital); err != nil {
		return fmt.Errorf("failed to insert hospital: %w", err)
	}
	return nil
}

func (r *HospitalRepo) GetByID(ctx context.Context, id string) (*domain.Hospital, error) {
	var hospital domain.Hospital
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&hospital)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrHospitalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find hospital: %w", err)
	}
	return &hospital, nil
}

func (r *HospitalRepo) List(ctx context.Context) ([]domain.Hospital, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}

	var hospitals []domain.Hospital
	if err := cursor.All(ctx, &hospitals); err != nil {
		return nil, fmt.Errorf("failed to decode hospitals: %w", err)
	}
	return hospitals, nil
}
