package alert

import (
	"encoding/json"
	"time"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
)

// Outbound message types.
const (
	TypeWelcome             = "welcome"
	TypeRegistrationSuccess = "registration_success"
	TypeError               = "error"
	TypeEmergencyAlert      = "emergency_alert"
	TypeGeneralAlert        = "general_alert"
)

// Inbound message types.
const (
	TypeRegisterDonor = "register_donor"
	TypeUnregister    = "unregister"
)

// Disclaimer is sent in every welcome payload. This service is a
// demonstration and must not be relied on for real medical coordination.
const Disclaimer = "DEMO ONLY: This is a demonstration application. Do not use for actual medical emergencies. Call your local emergency services."

// WelcomePayload greets a newly registered subscriber.
type WelcomePayload struct {
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	Disclaimer string    `json:"disclaimer"`
	Timestamp  time.Time `json:"timestamp"`
}

// AckPayload acknowledges a successful donor registration.
type AckPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	DonorID string `json:"donor_id"`
}

// ErrorPayload reports a rejected inbound message. The connection stays open.
type ErrorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// EmergencyAlertPayload is the donor-targeted alert for one blood request.
type EmergencyAlertPayload struct {
	Type                  string              `json:"type"`
	Urgency               domain.Urgency      `json:"urgency"`
	BloodRequest          domain.BloodRequest `json:"blood_request"`
	TotalCompatibleDonors int                 `json:"total_compatible_donors"`
	Timestamp             time.Time           `json:"timestamp"`
	AlertID               string              `json:"alert_id"`
	LocationPriority      int                 `json:"location_priority"`
	Compatibility         string              `json:"compatibility"`
}

// GeneralAlertPayload is broadcast to every subscriber after the targeted sends.
type GeneralAlertPayload struct {
	Type                    string         `json:"type"`
	Message                 string         `json:"message"`
	Urgency                 domain.Urgency `json:"urgency"`
	CompatibleDonorsAlerted int            `json:"compatible_donors_alerted"`
	TotalCompatibleDonors   int            `json:"total_compatible_donors"`
	Timestamp               time.Time      `json:"timestamp"`
}

// InboundMessage is the tagged union of messages a subscriber may send.
// The Type discriminant selects the variant; unknown types are malformed.
type InboundMessage struct {
	Type    string `json:"type"`
	DonorID string `json:"donor_id"`
}

// DecodeInbound parses a raw subscriber message. It returns an error for
// anything that is not a well-formed known variant.
func DecodeInbound(data []byte) (InboundMessage, error) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return InboundMessage{}, err
	}
	return msg, nil
}
