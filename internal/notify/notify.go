package notify

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"theatre-forms/internal/logging"
)

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Notifier sends a message once. Implementations do not retry.
type Notifier interface {
	Send(ctx context.Context, msg *Message) error
}

// Outcome records what happened to a best-effort notification.
type Outcome struct {
	Sent bool
	Err  error
}

// Dispatch makes a single send attempt and never returns an error: failures
// are logged and traced, then folded into the Outcome. Callers that build a
// response must not branch on the Outcome.
func Dispatch(ctx context.Context, n Notifier, msg *Message, logger *logging.ContextLogger) Outcome {
	ctx, span := otel.Tracer("notifier").Start(ctx, "notify.dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("operation", "notify.send"),
		attribute.String("email.to", msg.To),
		attribute.String("email.subject", msg.Subject),
	)

	if err := n.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "notification failed")
		logger.WarnWithTracing(ctx, "Notification not delivered", logrus.Fields{
			"to":      msg.To,
			"subject": msg.Subject,
			"error":   err.Error(),
		})
		return Outcome{Err: err}
	}

	span.SetAttributes(attribute.Bool("success", true))
	logger.InfoWithTracing(ctx, "Notification sent", logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return Outcome{Sent: true}
}

// LogNotifier writes messages to the log instead of sending them. Used when
// no SMTP relay is configured.
type LogNotifier struct {
	logger *logging.ContextLogger
}

func NewLogNotifier(logger *logging.ContextLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, msg *Message) error {
	n.logger.InfoWithTracing(ctx, "Email (not sent, no SMTP relay configured)", logrus.Fields{
		"from":    msg.From,
		"to":      msg.To,
		"subject": msg.Subject,
		"lines":   strings.Count(msg.Body, "\n") + 1,
	})
	return nil
}
