// Package audit writes an append-only trail of access to clinical records.
package audit

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jwalitptl/hospital-api/internal/model"
)

type requestIDKey struct{}

// WithRequestID stores the request id so audit entries can be correlated
// with access logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type Entry struct {
	ActorID    uuid.UUID
	Role       model.Role
	Action     string
	Resource   string
	ResourceID string
	Decision   string
	Reason     string
}

// Logger is safe for concurrent use. A nil *Logger discards entries.
type Logger struct {
	log *zap.Logger
}

func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log.Named("audit")}
}

func NewNop() *Logger {
	return &Logger{log: zap.NewNop()}
}

// NewZap builds the JSON zap logger used for the audit trail. output is
// "stdout", "stderr" or a file path.
func NewZap(output string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	cfg.Sampling = nil
	return cfg.Build()
}

func (l *Logger) Record(ctx context.Context, e Entry) {
	if l == nil || l.log == nil {
		return
	}

	fields := []zap.Field{
		zap.String("actor_id", e.ActorID.String()),
		zap.String("role", string(e.Role)),
		zap.String("action", e.Action),
		zap.String("resource", e.Resource),
		zap.String("resource_id", e.ResourceID),
		zap.String("decision", e.Decision),
	}
	if e.Reason != "" {
		fields = append(fields, zap.String("reason", e.Reason))
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}

	if e.Decision == "deny" {
		l.log.Warn("access denied", fields...)
		return
	}
	l.log.Info("access", fields...)
}

func (l *Logger) Sync() error {
	if l == nil || l.log == nil {
		return nil
	}
	return l.log.Sync()
}
