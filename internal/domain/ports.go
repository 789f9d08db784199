package domain

import "context"

// DonorRepository is the storage port for donor records.
type DonorRepository interface {
	Create(ctx context.Context, donor *Donor) error
	GetByID(ctx context.Context, id string) (*Donor, error)
	ListAvailable(ctx context.Context) ([]Donor, error)
	// SetPresence flips the online flag for a donor. Returns ErrDonorNotFound
	// if no donor with the given ID exists.
	SetPresence(ctx context.Context, donorID string, online bool) error
	CountAvailable(ctx context.Context) (int64, error)
	CountAvailableByType(ctx context.Context, bt BloodType) (int64, error)
}

// HospitalRepository is the storage port for hospital records.
type HospitalRepository interface {
	Create(ctx context.Context, hospital *Hospital) error
	GetByID(ctx context.Context, id string) (*Hospital, error)
	List(ctx context.Context) ([]Hospital, error)
}

// RequestRepository is the storage port for blood requests.
type RequestRepository interface {
	Create(ctx context.Context, request *BloodRequest) error
	GetByID(ctx context.Context, id string) (*BloodRequest, error)
	ListActive(ctx context.Context) ([]BloodRequest, error)
	UpdateStatus(ctx context.Context, id string, status RequestStatus) error
	IncrementAlertsSent(ctx context.Context, id string, delta int) error
	CountActive(ctx context.Context) (int64, error)
	CountActiveByType(ctx context.Context, bt BloodType) (int64, error)
}

// UserRepository is the storage port for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateLastLogin(ctx context.Context, id string) error
}

// AlertRepository is the storage port for emergency-alert bookkeeping records.
type AlertRepository interface {
	Create(ctx context.Context, alert *EmergencyAlert) error
	ListByRequest(ctx context.Context, requestID string) ([]EmergencyAlert, error)
}
