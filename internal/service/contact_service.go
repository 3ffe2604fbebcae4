package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"theatre-forms/internal/config"
	"theatre-forms/internal/logging"
	"theatre-forms/internal/models"
	"theatre-forms/internal/notify"
	"theatre-forms/internal/repository"
	"theatre-forms/internal/validation"
)

type ContactService struct {
	validator *validation.Validator
	records   repository.RecordLog
	notifier  notify.Notifier
	mail      config.MailConfig
	logger    *logging.ContextLogger
	tracer    trace.Tracer
	now       Clock
}

func NewContactService(v *validation.Validator, records repository.RecordLog, n notify.Notifier, mail config.MailConfig, logger *logging.ContextLogger) *ContactService {
	return &ContactService{
		validator: v,
		records:   records,
		notifier:  n,
		mail:      mail,
		logger:    logger,
		tracer:    otel.Tracer("contact-service"),
		now:       time.Now,
	}
}

// Submit validates, records and forwards a contact message to the theatre's
// inbox. Validation and persistence errors are returned; mail failures are not.
func (s *ContactService) Submit(ctx context.Context, form *models.ContactForm) (*models.ContactSubmission, error) {
	ctx, span := s.tracer.Start(ctx, "contact.service.submit")
	defer span.End()

	res := s.validator.Contact(form)
	if !res.Valid() {
		span.SetAttributes(attribute.Int("validation.violations", len(res.Violations)))
		s.logger.InfoWithTracing(ctx, "Contact submission rejected", logrus.Fields{
			"violations": res.Violations,
		})
		return nil, res.Err()
	}

	submission := res.Values
	submission.SubmittedAt = s.now()

	if err := s.records.Append(ctx, &submission); err != nil {
		s.logger.ErrorWithTracing(ctx, "Failed to record contact submission", err, logrus.Fields{
			"email": submission.Email,
		})
		span.RecordError(err)
		return nil, persistenceError("contact log", err)
	}

	// best effort: the outcome is deliberately ignored
	_ = notify.Dispatch(ctx, s.notifier, s.contactEmail(&submission), s.logger)

	span.SetAttributes(
		attribute.String("contact.subject", submission.Subject),
		attribute.Bool("success", true),
	)
	return &submission, nil
}

func (s *ContactService) contactEmail(c *models.ContactSubmission) *notify.Message {
	var body strings.Builder
	fmt.Fprintf(&body, "New contact form submission from %s website\n\n", s.mail.TheatreName)
	fmt.Fprintf(&body, "Name: %s\n", c.Name)
	fmt.Fprintf(&body, "Email: %s\n", c.Email)
	fmt.Fprintf(&body, "Phone: %s\n", orDefault(c.Phone, "Not provided"))
	fmt.Fprintf(&body, "Subject: %s\n\n", c.Subject)
	fmt.Fprintf(&body, "Message:\n%s\n", c.Message)

	return &notify.Message{
		From:    s.mail.ContactInbox,
		To:      s.mail.ContactInbox,
		ReplyTo: c.Email,
		Subject: "Contact Form: " + c.Subject,
		Body:    body.String(),
	}
}
