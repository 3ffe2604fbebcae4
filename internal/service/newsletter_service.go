package service

import (
	"context"
	"errors"
	"fmt"
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

type NewsletterService struct {
	validator   *validation.Validator
	subscribers repository.SubscriberRepository
	activity    repository.RecordLog
	notifier    notify.Notifier
	mail        config.MailConfig
	logger      *logging.ContextLogger
	tracer      trace.Tracer
	now         Clock
}

func NewNewsletterService(v *validation.Validator, subscribers repository.SubscriberRepository, activity repository.RecordLog, n notify.Notifier, mail config.MailConfig, logger *logging.ContextLogger) *NewsletterService {
	return &NewsletterService{
		validator:   v,
		subscribers: subscribers,
		activity:    activity,
		notifier:    n,
		mail:        mail,
		logger:      logger,
		tracer:      otel.Tracer("newsletter-service"),
		now:         time.Now,
	}
}

// Subscribe stores a new address and sends a welcome mail. A known address
// yields models.ErrAlreadySubscribed.
func (s *NewsletterService) Subscribe(ctx context.Context, form *models.NewsletterForm) (*models.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "newsletter.service.subscribe")
	defer span.End()

	res := s.validator.Newsletter(form)
	if !res.Valid() {
		span.SetAttributes(attribute.Int("validation.violations", len(res.Violations)))
		return nil, res.Err()
	}

	sub := res.Values
	sub.SubscribedAt = s.now()

	if err := s.subscribers.InsertIfAbsent(ctx, sub.Email); err != nil {
		if errors.Is(err, models.ErrAlreadySubscribed) {
			span.SetAttributes(attribute.Bool("newsletter.duplicate", true))
			s.logger.InfoWithTracing(ctx, "Duplicate newsletter subscription", logrus.Fields{
				"email": sub.Email,
			})
			return nil, err
		}
		s.logger.ErrorWithTracing(ctx, "Failed to store subscriber", err, logrus.Fields{
			"email": sub.Email,
		})
		span.RecordError(err)
		return nil, persistenceError("subscriber list", err)
	}

	// The address is already stored; a missing activity line is not worth
	// failing a subscription the user can no longer repeat.
	if err := s.activity.Append(ctx, &sub); err != nil {
		s.logger.ErrorWithTracing(ctx, "Failed to write newsletter activity log", err, logrus.Fields{
			"email": sub.Email,
		})
		span.RecordError(err)
	}

	// best effort: the outcome is deliberately ignored
	_ = notify.Dispatch(ctx, s.notifier, s.welcomeEmail(&sub), s.logger)

	span.SetAttributes(attribute.Bool("success", true))
	return &sub, nil
}

func (s *NewsletterService) welcomeEmail(sub *models.Subscription) *notify.Message {
	body := fmt.Sprintf("Thank you for subscribing to %s newsletter!\n\n"+
		"You will receive updates about our upcoming shows, special events, and exclusive offers.\n\n%s",
		s.mail.TheatreName, signature("Team", s.mail))

	return &notify.Message{
		From:    s.mail.NewsletterEmail,
		To:      sub.Email,
		Subject: fmt.Sprintf("Welcome to %s Newsletter!", s.mail.TheatreName),
		Body:    body,
	}
}
