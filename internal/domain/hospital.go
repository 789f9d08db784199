package domain

import "time"

// HospitalStatus tracks the verification state of a hospital account.
type HospitalStatus string

const (
	HospitalPending   HospitalStatus = "pending"
	HospitalVerified  HospitalStatus = "verified"
	HospitalRejected  HospitalStatus = "rejected"
	HospitalSuspended HospitalStatus = "suspended"
)

// Hospital is a registered requesting institution. New hospitals start in
// the pending state until verified.
type Hospital struct {
	ID            string         `json:"id" bson:"id"`
	Name          string         `json:"name" bson:"name"`
	LicenseNumber string         `json:"license_number" bson:"license_number"`
	Phone         string         `json:"phone" bson:"phone"`
	Email         string         `json:"email" bson:"email"`
	Address       string         `json:"address" bson:"address"`
	City          string         `json:"city" bson:"city"`
	State         string         `json:"state" bson:"state"`
	ZipCode       string         `json:"zip_code" bson:"zip_code"`
	ContactName   string         `json:"contact_person_name" bson:"contact_person_name"`
	ContactTitle  string         `json:"contact_person_title" bson:"contact_person_title"`
	Status        HospitalStatus `json:"status" bson:"status"`
	VerifiedAt    *time.Time     `json:"verified_at,omitempty" bson:"verified_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
}
