package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
)

// DonorRepo implements domain.DonorRepository on the donors collection.
type DonorRepo struct {
	coll *mongo.Collection
}

func NewDonorRepo(db *mongo.Database) *DonorRepo {
	return &DonorRepo{coll: db.Collection("donors")}
}

func (r *DonorRepo) Create(ctx context.Context, donor *domain.Donor) error {
	count, err := r.coll.CountDocuments(ctx, bson.M{"email": donor.Email})
	if err != nil {
		return fmt.Errorf("failed to check donor email: %w", err)
	}
	if count > 0 {
		return domain.ErrDuplicateEmail
	}

	if _, err := r.coll.InsertOne(ctx, donor); err != nil {
		return fmt.Errorf("failed to insert donor: %w", err)
	}
	return nil
}

func (r *DonorRepo) GetByID(ctx context.Context, id string) (*domain.Donor, error) {
	var donor domain.Donor
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&donor)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrDonorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find donor: %w", err)
	}
	return &donor, nil
}

// ListAvailable returns the candidate pool for matching: every donor whose
// availability flag is set.
func (r *DonorRepo) ListAvailable(ctx context.Context) ([]domain.Donor, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"is_available": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list donors: %w", err)
	}

	var donors []domain.Donor
	if err := cursor.All(ctx, &donors); err != nil {
		return nil, fmt.Errorf("failed to decode donors: %w", err)
	}
	return donors, nil
}

func (r *DonorRepo) SetPresence(ctx context.Context, donorID string, online bool) error {
	update := bson.M{"$set": bson.M{"is_online": online}}
	if online {
		update = bson.M{"$set": bson.M{"is_online": true}, "$currentDate": bson.M{"last_seen": true}}
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": donorID}, update)
	if err != nil {
		return fmt.Errorf("failed to update donor presence: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrDonorNotFound
	}
	return nil
}

func (r *DonorRepo) CountAvailable(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"is_available": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count donors: %w", err)
	}
	return count, nil
}

func (r *DonorRepo) CountAvailableByType(ctx context.Context, bt domain.BloodType) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"is_available": true, "blood_type": bt})
	if err != nil {
		return 0, fmt.Errorf("failed to count donors by blood type: %w", err)
	}
	return count, nil
}
