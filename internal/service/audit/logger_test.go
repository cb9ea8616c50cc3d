package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jwalitptl/hospital-api/internal/model"
)

func TestRecord(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLogger(zap.New(core))

	actor := uuid.New()
	ctx := WithRequestID(context.Background(), "req-123")
	l.Record(ctx, Entry{
		ActorID:    actor,
		Role:       model.RoleDoctor,
		Action:     "read",
		Resource:   "medical_report",
		ResourceID: "r-1",
		Decision:   "allow",
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "access", entry.Message)
	assert.Equal(t, "audit", entry.LoggerName)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, actor.String(), fields["actor_id"])
	assert.Equal(t, "doctor", fields["role"])
	assert.Equal(t, "medical_report", fields["resource"])
	assert.Equal(t, "req-123", fields["request_id"])
	assert.NotContains(t, fields, "reason")
}

func TestRecord_Deny(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLogger(zap.New(core))

	l.Record(context.Background(), Entry{
		Role:     model.RolePatient,
		Action:   "read",
		Resource: "prescription",
		Decision: "deny",
		Reason:   "not the owner",
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "access denied", entry.Message)
	assert.Equal(t, "not the owner", entry.ContextMap()["reason"])
	assert.NotContains(t, entry.ContextMap(), "request_id")
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Record(context.Background(), Entry{Action: "read"})
	})
	assert.NoError(t, l.Sync())
	assert.NotPanics(t, func() {
		NewNop().Record(context.Background(), Entry{Action: "read"})
	})
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Equal(t, "abc", RequestIDFromContext(WithRequestID(context.Background(), "abc")))
}
