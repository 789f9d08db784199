package matching

import "github.com/WilliamTrivedi/Blood-Donation/internal/domain"

// compatibilityTable maps a donor blood type to the set of recipient blood
// types that donor can supply, per standard transfusion rules. O- donates to
// all eight groups; AB+ donates only to AB+.
var compatibilityTable = map[domain.BloodType]map[domain.BloodType]bool{
	domain.ONeg:  toSet(domain.ONeg, domain.OPos, domain.ANeg, domain.APos, domain.BNeg, domain.BPos, domain.ABNeg, domain.ABPos),
	domain.OPos:  toSet(domain.OPos, domain.APos, domain.BPos, domain.ABPos),
	domain.ANeg:  toSet(domain.ANeg, domain.APos, domain.ABNeg, domain.ABPos),
	domain.APos:  toSet(domain.APos, domain.ABPos),
	domain.BNeg:  toSet(domain.BNeg, domain.BPos, domain.ABNeg, domain.ABPos),
	domain.BPos:  toSet(domain.BPos, domain.ABPos),
	domain.ABNeg: toSet(domain.ABNeg, domain.ABPos),
	domain.ABPos: toSet(domain.ABPos),
}

func toSet(types ...domain.BloodType) map[domain.BloodType]bool {
	set := make(map[domain.BloodType]bool, len(types))
	for _, bt := range types {
		set[bt] = true
	}
	return set
}

// CanDonate reports whether a donor of the given blood type may donate to a
// recipient of the requested type.
func CanDonate(donor, requested domain.BloodType) bool {
	return compatibilityTable[donor][requested]
}
