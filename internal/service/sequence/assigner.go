// Package sequence assigns the human readable patient and prescription ids.
package sequence

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

const (
	PatientSequence      = "patient"
	PrescriptionSequence = "prescription"
)

// FormatPatientID renders n as PAT followed by at least six digits.
func FormatPatientID(n int64) string {
	return fmt.Sprintf("PAT%06d", n)
}

// FormatPrescriptionID renders n as RX followed by at least eight digits.
func FormatPrescriptionID(n int64) string {
	return fmt.Sprintf("RX%08d", n)
}

type Assigner struct {
	seq     repository.Sequencer
	metrics *metrics.Metrics
}

func NewAssigner(seq repository.Sequencer, m *metrics.Metrics) *Assigner {
	return &Assigner{seq: seq, metrics: m}
}

// AssignPatientID sets p.PatientID unless it already has one. Call it with
// the ctx of the transaction that persists p.
func (a *Assigner) AssignPatientID(ctx context.Context, p *model.PatientProfile) error {
	if p.PatientID != "" {
		return nil
	}
	n, err := a.next(ctx, PatientSequence)
	if err != nil {
		return err
	}
	p.PatientID = FormatPatientID(n)
	return nil
}

// AssignPrescriptionID sets rx.PrescriptionID unless it already has one.
func (a *Assigner) AssignPrescriptionID(ctx context.Context, rx *model.Prescription) error {
	if rx.PrescriptionID != "" {
		return nil
	}
	n, err := a.next(ctx, PrescriptionSequence)
	if err != nil {
		return err
	}
	rx.PrescriptionID = FormatPrescriptionID(n)
	return nil
}

func (a *Assigner) next(ctx context.Context, name string) (int64, error) {
	n, err := a.seq.Next(ctx, name)
	if err != nil {
		return 0, err
	}
	if a.metrics != nil {
		a.metrics.IdentifiersAssigned.WithLabelValues(name).Inc()
	}
	return n, nil
}
