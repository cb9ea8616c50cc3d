package doctor

import (
	"encoding/json"
)

// Payload is a raw update body keyed by JSON field name.
type Payload map[string]json.RawMessage

var accountKeys = map[string]bool{
	"firstName":   true,
	"lastName":    true,
	"email":       true,
	"phone":       true,
	"dateOfBirth": true,
	"gender":      true,
	"address":     true,
	"isActive":    true,
}

var doctorKeys = map[string]bool{
	"specialization":    true,
	"licenseNumber":     true,
	"yearsOfExperience": true,
	"education":         true,
	"certifications":    true,
	"department":        true,
	"schedule":          true,
	"consultationFee":   true,
	"bio":               true,
	"languages":         true,
	"isVerified":        true,
}

// Partition splits p into the keys owned by the account and those owned by
// the doctor profile. weeklySchedule is accepted for schedule; unknown keys
// are dropped.
func Partition(p Payload) (account, doctor Payload) {
	account, doctor = Payload{}, Payload{}
	for key, value := range p {
		switch {
		case accountKeys[key]:
			account[key] = value
		case doctorKeys[key]:
			doctor[key] = value
		}
	}
	if ws, ok := p["weeklySchedule"]; ok {
		if _, set := doctor["schedule"]; !set {
			doctor["schedule"] = ws
		}
	}
	return account, doctor
}

// ApplyTo decodes p over dst. Fields absent from p keep their value.
func (p Payload) ApplyTo(dst interface{}) error {
	if len(p) == 0 {
		return nil
	}
	raw, err := json.Marshal(map[string]json.RawMessage(p))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
