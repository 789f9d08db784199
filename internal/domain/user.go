package domain

import "time"

// Role determines which API surfaces a user may call.
type Role string

const (
	RoleDonor    Role = "donor"
	RoleHospital Role = "hospital"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleHospital, RoleAdmin:
		return true
	}
	return false
}

// User is an authenticated account, optionally linked to a donor or
// hospital profile.
type User struct {
	ID           string     `json:"id" bson:"id"`
	Email        string     `json:"email" bson:"email"`
	PasswordHash string     `json:"-" bson:"password_hash"`
	Role         Role       `json:"role" bson:"role"`
	DonorID      string     `json:"donor_id,omitempty" bson:"donor_id,omitempty"`
	HospitalID   string     `json:"hospital_id,omitempty" bson:"hospital_id,omitempty"`
	IsActive     bool       `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
}
