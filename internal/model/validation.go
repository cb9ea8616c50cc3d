package model

import "github.com/jwalitptl/hospital-api/pkg/validator"

// Weekdays lists the accepted schedule days.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ValidationRules returns the custom tags used by the model structs.
func ValidationRules() []validator.Rule {
	return []validator.Rule{
		validator.OneOf("bloodgroup", BloodGroups),
		validator.OneOf("weekday", Weekdays),
	}
}
