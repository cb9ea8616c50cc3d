package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	memory "github.com/jwalitptl/hospital-api/internal/testutil"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "PAT000001", FormatPatientID(1))
	assert.Equal(t, "PAT000042", FormatPatientID(42))
	assert.Equal(t, "PAT1234567", FormatPatientID(1234567))
	assert.Equal(t, "RX00000001", FormatPrescriptionID(1))
	assert.Equal(t, "RX00012345", FormatPrescriptionID(12345))
}

func TestAssignPatientID_Sequential(t *testing.T) {
	store := memory.NewStore()
	a := NewAssigner(store.Sequencer(), nil)
	ctx := context.Background()

	for i, want := range []string{"PAT000001", "PAT000002", "PAT000003"} {
		p := &model.PatientProfile{}
		require.NoError(t, a.AssignPatientID(ctx, p), "call %d", i)
		assert.Equal(t, want, p.PatientID)
	}
}

func TestAssignPatientID_KeepsExisting(t *testing.T) {
	store := memory.NewStore()
	a := NewAssigner(store.Sequencer(), nil)

	p := &model.PatientProfile{PatientID: "PAT000099"}
	require.NoError(t, a.AssignPatientID(context.Background(), p))
	assert.Equal(t, "PAT000099", p.PatientID)

	next := &model.PatientProfile{}
	require.NoError(t, a.AssignPatientID(context.Background(), next))
	assert.Equal(t, "PAT000001", next.PatientID)
}

func TestAssign_Concurrent(t *testing.T) {
	store := memory.NewStore()
	a := NewAssigner(store.Sequencer(), nil)

	const n = 50
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rx := &model.Prescription{}
			if err := a.AssignPrescriptionID(context.Background(), rx); err == nil {
				ids[i] = rx.PrescriptionID
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range ids {
		require.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.True(t, seen["RX00000001"])
	assert.True(t, seen["RX00000050"])
}

func TestAssign_IndependentSequences(t *testing.T) {
	store := memory.NewStore()
	a := NewAssigner(store.Sequencer(), nil)
	ctx := context.Background()

	p := &model.PatientProfile{}
	rx := &model.Prescription{}
	require.NoError(t, a.AssignPatientID(ctx, p))
	require.NoError(t, a.AssignPrescriptionID(ctx, rx))

	assert.Equal(t, "PAT000001", p.PatientID)
	assert.Equal(t, "RX00000001", rx.PrescriptionID)
}

func TestAssign_Error(t *testing.T) {
	store := memory.NewStore()
	store.FailOn["sequence.Next"] = errors.New("counter unavailable")
	a := NewAssigner(store.Sequencer(), nil)

	p := &model.PatientProfile{}
	err := a.AssignPatientID(context.Background(), p)
	require.Error(t, err)
	assert.Empty(t, p.PatientID)
}

func TestAssign_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg, "test")
	store := memory.NewStore()
	a := NewAssigner(store.Sequencer(), m)
	ctx := context.Background()

	require.NoError(t, a.AssignPatientID(ctx, &model.PatientProfile{}))
	require.NoError(t, a.AssignPatientID(ctx, &model.PatientProfile{}))
	require.NoError(t, a.AssignPrescriptionID(ctx, &model.Prescription{}))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.IdentifiersAssigned.WithLabelValues(PatientSequence)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.IdentifiersAssigned.WithLabelValues(PrescriptionSequence)))
}
