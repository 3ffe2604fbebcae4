package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"theatre-forms/internal/logging"
	"theatre-forms/internal/models"
	"theatre-forms/internal/service"
)

const (
	msgContactReceived = "Thank you for your message! We will get back to you within 24 hours."
	msgSubscribed      = "Thank you for subscribing! Check your email for confirmation."
	msgBookingReceived = "Your booking inquiry has been received! We will contact you shortly."
)

type FormHandler struct {
	contact    *service.ContactService
	newsletter *service.NewsletterService
	booking    *service.BookingService
	logger     *logging.ContextLogger
	tracer     trace.Tracer
}

func NewFormHandler(contact *service.ContactService, newsletter *service.NewsletterService, booking *service.BookingService, logger *logging.ContextLogger) *FormHandler {
	return &FormHandler{
		contact:    contact,
		newsletter: newsletter,
		booking:    booking,
		logger:     logger,
		tracer:     otel.Tracer("form-handler"),
	}
}

// bind fills dst from a urlencoded, multipart or JSON body. A body that cannot
// be parsed leaves the fields empty so the validator reports them as missing.
func (h *FormHandler) bind(c *gin.Context, span trace.Span, dst any) {
	if err := c.ShouldBind(dst); err != nil {
		h.logger.WarnWithTracing(c.Request.Context(), "Unreadable form body", logrus.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		})
		span.SetAttributes(attribute.Bool("form.unreadable", true))
	}
}

func (h *FormHandler) fail(c *gin.Context, span trace.Span, err error) {
	status := respondError(c, err)
	span.SetAttributes(attribute.Int("http.status_code", status))
	if status >= http.StatusInternalServerError {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission not recorded")
	}
}

func (h *FormHandler) Contact(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "contact.handler.submit")
	defer span.End()

	var form models.ContactForm
	h.bind(c, span, &form)

	submission, err := h.contact.Submit(ctx, &form)
	if err != nil {
		h.fail(c, span, err)
		return
	}

	h.logger.InfoWithTracing(ctx, "Contact submission accepted", logrus.Fields{
		"email":    submission.Email,
		"subject":  submission.Subject,
		"endpoint": c.FullPath(),
	})
	span.SetAttributes(attribute.Bool("success", true))
	respondSuccess(c, msgContactReceived, nil)
}

func (h *FormHandler) Newsletter(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "newsletter.handler.subscribe")
	defer span.End()

	var form models.NewsletterForm
	h.bind(c, span, &form)

	sub, err := h.newsletter.Subscribe(ctx, &form)
	if err != nil {
		h.fail(c, span, err)
		return
	}

	h.logger.InfoWithTracing(ctx, "Newsletter subscription accepted", logrus.Fields{
		"email":    sub.Email,
		"endpoint": c.FullPath(),
	})
	span.SetAttributes(attribute.Bool("success", true))
	respondSuccess(c, msgSubscribed, nil)
}

func (h *FormHandler) Booking(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "booking.handler.inquire")
	defer span.End()

	var form models.BookingForm
	h.bind(c, span, &form)

	inquiry, err := h.booking.Inquire(ctx, &form)
	if err != nil {
		h.fail(c, span, err)
		return
	}

	h.logger.InfoWithTracing(ctx, "Booking inquiry accepted", logrus.Fields{
		"email":    inquiry.Email,
		"show":     inquiry.Show,
		"endpoint": c.FullPath(),
	})
	span.SetAttributes(
		attribute.Int("booking.total", inquiry.TotalPrice),
		attribute.Bool("success", true),
	)
	respondSuccess(c, msgBookingReceived, inquiry.Summary())
}
