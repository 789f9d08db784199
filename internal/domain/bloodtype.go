package domain

import "fmt"

// BloodType is one of the eight ABO/Rh blood groups.
type BloodType string

const (
	ONeg  BloodType = "O-"
	OPos  BloodType = "O+"
	ANeg  BloodType = "A-"
	APos  BloodType = "A+"
	BNeg  BloodType = "B-"
	BPos  BloodType = "B+"
	ABNeg BloodType = "AB-"
	ABPos BloodType = "AB+"
)

// BloodTypes lists all valid blood types in display order.
var BloodTypes = []BloodType{APos, ANeg, BPos, BNeg, ABPos, ABNeg, OPos, ONeg}

// ParseBloodType validates a raw string against the known blood types.
func ParseBloodType(s string) (BloodType, error) {
	bt := BloodType(s)
	if !bt.Valid() {
		return "", fmt.Errorf("invalid blood type %q", s)
	}
	return bt, nil
}

// Valid reports whether the blood type is one of the eight known groups.
func (bt BloodType) Valid() bool {
	switch bt {
	case ONeg, OPos, ANeg, APos, BNeg, BPos, ABNeg, ABPos:
		return true
	}
	return false
}

func (bt BloodType) String() string {
	return string(bt)
}

// Urgency classifies how quickly a blood request must be fulfilled.
type Urgency string

const (
	UrgencyCritical Urgency = "Critical"
	UrgencyUrgent   Urgency = "Urgent"
	UrgencyNormal   Urgency = "Normal"
)

// Valid reports whether the urgency is a known level.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyCritical, UrgencyUrgent, UrgencyNormal:
		return true
	}
	return false
}

// RequiresAlert reports whether a request at this urgency triggers the
// real-time emergency fan-out. Normal requests never do.
func (u Urgency) RequiresAlert() bool {
	return u == UrgencyCritical || u == UrgencyUrgent
}
