package logging

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

type ContextLogger struct {
	*logrus.Logger
}

// NewLogger returns a JSON logger on stdout. Unknown levels fall back to info.
func NewLogger(level string) *ContextLogger {
	return newLogger(os.Stdout, level)
}

// NewDiscardLogger is for tests that only care about behavior.
func NewDiscardLogger() *ContextLogger {
	return newLogger(io.Discard, "panic")
}

func newLogger(out io.Writer, level string) *ContextLogger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	logger.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return &ContextLogger{Logger: logger}
}

// WithTracing returns an entry carrying the trace and span ids of the span in
// ctx, if there is one.
func (l *ContextLogger) WithTracing(ctx context.Context) *logrus.Entry {
	e := l.WithContext(ctx)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		e = e.WithFields(logrus.Fields{
			"trace_id": sc.TraceID().String(),
			"span_id":  sc.SpanID().String(),
		})
	}
	return e
}

func (l *ContextLogger) entry(ctx context.Context, fields logrus.Fields) *logrus.Entry {
	e := l.WithTracing(ctx)
	if len(fields) > 0 {
		e = e.WithFields(fields)
	}
	return e
}

func (l *ContextLogger) InfoWithTracing(ctx context.Context, msg string, fields logrus.Fields) {
	l.entry(ctx, fields).Info(msg)
}

func (l *ContextLogger) WarnWithTracing(ctx context.Context, msg string, fields logrus.Fields) {
	l.entry(ctx, fields).Warn(msg)
}

// ErrorWithTracing attaches err under logrus' "error" key when it is non-nil.
func (l *ContextLogger) ErrorWithTracing(ctx context.Context, msg string, err error, fields logrus.Fields) {
	e := l.entry(ctx, fields)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(msg)
}
