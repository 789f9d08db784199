package domain

import "time"

// Donor is a registered blood donor. The dispatcher and matcher receive
// read-only snapshots of this record; presence updates go back through the
// DonorRepository port.
type Donor struct {
	ID            string     `json:"id" bson:"id"`
	Name          string     `json:"name" bson:"name"`
	Phone         string     `json:"phone" bson:"phone"`
	Email         string     `json:"email" bson:"email"`
	BloodType     BloodType  `json:"blood_type" bson:"blood_type"`
	Age           int        `json:"age" bson:"age"`
	City          string     `json:"city" bson:"city"`
	State         string     `json:"state" bson:"state"`
	IsAvailable   bool       `json:"is_available" bson:"is_available"`
	IsOnline      bool       `json:"is_online" bson:"is_online"`
	LastSeen      *time.Time `json:"last_seen,omitempty" bson:"last_seen,omitempty"`
	LastDonation  *time.Time `json:"last_donation,omitempty" bson:"last_donation,omitempty"`
	DonationCount int        `json:"donation_count" bson:"donation_count"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at"`
}
