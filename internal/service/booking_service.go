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
	"theatre-forms/internal/pricing"
	"theatre-forms/internal/repository"
	"theatre-forms/internal/validation"
)

type BookingService struct {
	validator *validation.Validator
	prices    *pricing.Table
	records   repository.RecordLog
	notifier  notify.Notifier
	mail      config.MailConfig
	logger    *logging.ContextLogger
	tracer    trace.Tracer
	now       Clock
}

func NewBookingService(v *validation.Validator, prices *pricing.Table, records repository.RecordLog, n notify.Notifier, mail config.MailConfig, logger *logging.ContextLogger) *BookingService {
	return &BookingService{
		validator: v,
		prices:    prices,
		records:   records,
		notifier:  n,
		mail:      mail,
		logger:    logger,
		tracer:    otel.Tracer("booking-service"),
		now:       time.Now,
	}
}

// Inquire validates and prices a ticket request, records it and mails the
// quote to the customer.
func (s *BookingService) Inquire(ctx context.Context, form *models.BookingForm) (*models.BookingInquiry, error) {
	ctx, span := s.tracer.Start(ctx, "booking.service.inquire")
	defer span.End()

	res := s.validator.Booking(form)
	if !res.Valid() {
		span.SetAttributes(attribute.Int("validation.violations", len(res.Violations)))
		s.logger.InfoWithTracing(ctx, "Booking inquiry rejected", logrus.Fields{
			"violations": res.Violations,
		})
		return nil, res.Err()
	}

	inquiry := res.Values
	quote := s.prices.Price(inquiry.Section, inquiry.Tickets)
	inquiry.PricePerTicket = quote.PricePerTicket
	inquiry.TotalPrice = quote.Total
	inquiry.SubmittedAt = s.now()

	span.SetAttributes(
		attribute.String("booking.section", inquiry.Section),
		attribute.Int("booking.tickets", inquiry.Tickets),
		attribute.Int("booking.total", inquiry.TotalPrice),
		attribute.Bool("pricing.fallback", quote.Fallback),
	)

	if err := s.records.Append(ctx, &inquiry); err != nil {
		s.logger.ErrorWithTracing(ctx, "Failed to record booking inquiry", err, logrus.Fields{
			"email": inquiry.Email,
			"show":  inquiry.Show,
		})
		span.RecordError(err)
		return nil, persistenceError("booking log", err)
	}

	// best effort: the outcome is deliberately ignored
	_ = notify.Dispatch(ctx, s.notifier, s.confirmationEmail(&inquiry), s.logger)

	s.logger.InfoWithTracing(ctx, "Booking inquiry recorded", logrus.Fields{
		"show":    inquiry.Show,
		"section": inquiry.Section,
		"tickets": inquiry.Tickets,
		"total":   inquiry.TotalPrice,
	})
	span.SetAttributes(attribute.Bool("success", true))
	return &inquiry, nil
}

func (s *BookingService) confirmationEmail(b *models.BookingInquiry) *notify.Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n", b.Name)
	body.WriteString("Thank you for your ticket booking inquiry!\n\n")
	body.WriteString("Booking Details:\n")
	fmt.Fprintf(&body, "Show: %s\n", b.Show)
	fmt.Fprintf(&body, "Date: %s\n", b.Date)
	fmt.Fprintf(&body, "Section: %s\n", ucfirst(b.Section))
	fmt.Fprintf(&body, "Number of Tickets: %d\n", b.Tickets)
	fmt.Fprintf(&body, "Price per Ticket: %s\n", models.FormatPrice(b.PricePerTicket))
	fmt.Fprintf(&body, "Total Price: %s\n\n", models.FormatPrice(b.TotalPrice))
	body.WriteString("Our box office team will contact you within 24 hours to confirm your booking.\n\n")
	body.WriteString(signature("Box Office", s.mail))

	return &notify.Message{
		From:    s.mail.BoxOfficeEmail,
		To:      b.Email,
		ReplyTo: s.mail.BoxOfficeEmail,
		Subject: "Ticket Booking Inquiry - " + b.Show,
		Body:    body.String(),
	}
}
