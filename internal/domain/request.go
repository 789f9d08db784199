package domain

import "time"

// RequestStatus tracks the lifecycle of a blood request.
type RequestStatus string

const (
	RequestActive    RequestStatus = "Active"
	RequestFulfilled RequestStatus = "Fulfilled"
	RequestCancelled RequestStatus = "Cancelled"
	RequestExpired   RequestStatus = "Expired"
)

// BloodRequest is a hospital's request for donated blood. The dispatcher
// receives a read-only snapshot at notify time.
type BloodRequest struct {
	ID              string        `json:"id" bson:"id"`
	RequesterName   string        `json:"requester_name" bson:"requester_name"`
	PatientName     string        `json:"patient_name" bson:"patient_name"`
	Phone           string        `json:"phone" bson:"phone"`
	Email           string        `json:"email" bson:"email"`
	BloodTypeNeeded BloodType     `json:"blood_type_needed" bson:"blood_type_needed"`
	Urgency         Urgency       `json:"urgency" bson:"urgency"`
	UnitsNeeded     int           `json:"units_needed" bson:"units_needed"`
	HospitalName    string        `json:"hospital_name" bson:"hospital_name"`
	City            string        `json:"city" bson:"city"`
	State           string        `json:"state" bson:"state"`
	Description     string        `json:"description,omitempty" bson:"description,omitempty"`
	Status          RequestStatus `json:"status" bson:"status"`
	AlertsSent      int           `json:"alerts_sent" bson:"alerts_sent"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}

// EmergencyAlert records a completed fan-out for a blood request. Written by
// the request-creation handler after the dispatcher returns its counts.
type EmergencyAlert struct {
	ID              string    `json:"id" bson:"id"`
	BloodRequestID  string    `json:"blood_request_id" bson:"blood_request_id"`
	AlertType       string    `json:"alert_type" bson:"alert_type"`
	DonorsNotified  int       `json:"donors_notified" bson:"donors_notified"`
	TotalCompatible int       `json:"total_compatible" bson:"total_compatible"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}
