// Package access decides whether an authenticated actor may act on a record.
package access

import (
	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

type Kind string

const (
	KindReport         Kind = "medical_report"
	KindPrescription   Kind = "prescription"
	KindDoctorProfile  Kind = "doctor_profile"
	KindPatientProfile Kind = "patient_profile"
	KindAccount        Kind = "account"
)

// Clinical reports whether k is a medical report or prescription.
func (k Kind) Clinical() bool {
	return k == KindReport || k == KindPrescription
}

type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

func (d Decision) String() string {
	if d {
		return "allow"
	}
	return "deny"
}

// Actor is the caller as seen by the policy. DoctorID and PatientID are the
// caller's own profile ids, nil when the account has none.
type Actor struct {
	AccountID uuid.UUID
	Role      model.Role
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
}

// Target is the record being acted on.
type Target struct {
	Kind      Kind
	ID        uuid.UUID
	DoctorID  uuid.UUID
	PatientID uuid.UUID
}

// ReportTarget builds the target for a medical report.
func ReportTarget(r *model.MedicalReport) Target {
	return Target{Kind: KindReport, ID: r.ID, DoctorID: r.DoctorID, PatientID: r.PatientID}
}

// PrescriptionTarget builds the target for a prescription.
func PrescriptionTarget(p *model.Prescription) Target {
	return Target{Kind: KindPrescription, ID: p.ID, DoctorID: p.DoctorID, PatientID: p.PatientID}
}

// Policy is stateless.
type Policy struct{}

func NewPolicy() *Policy {
	return &Policy{}
}

// CanAccess applies the rules in precedence order; the first matching role
// branch decides.
func (p *Policy) CanAccess(actor Actor, action Action, target Target) Decision {
	switch actor.Role {
	case model.RoleAdmin:
		if action == ActionRead {
			return Allow
		}
		if action == ActionUpdate && !target.Kind.Clinical() {
			return Allow
		}
		return Deny

	case model.RoleDoctor:
		if actor.DoctorID == nil || !target.Kind.Clinical() {
			return Deny
		}
		switch action {
		case ActionCreate, ActionRead:
			return Decision(target.DoctorID == *actor.DoctorID)
		}
		return Deny

	case model.RolePatient:
		if actor.PatientID == nil || action != ActionRead {
			return Deny
		}
		if target.Kind.Clinical() || target.Kind == KindPatientProfile {
			return Decision(target.PatientID == *actor.PatientID)
		}
		return Deny
	}

	return Deny
}
