package validation

import (
	"github.com/go-playground/validator/v10"

	"theatre-forms/internal/models"
)

// Result holds the sanitized values and every violated rule message.
type Result[T any] struct {
	Values     T
	Violations []string
}

func (r Result[T]) Valid() bool {
	return len(r.Violations) == 0
}

// Err returns a *models.ValidationError, or nil when the submission is valid.
func (r Result[T]) Err() error {
	if r.Valid() {
		return nil
	}
	return &models.ValidationError{Messages: r.Violations}
}

// Validator applies per-endpoint rule sets. It holds no per-request state.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	registerCustom(v)
	return &Validator{validate: v}
}

// Check runs every field and returns the failures in field order. A field
// contributes at most one message: its first failing rule.
func (v *Validator) Check(fields []Field) []string {
	var violations []string
	for _, f := range fields {
		for _, rule := range f.Rules {
			if err := v.validate.Var(f.Value, rule.Tag); err != nil {
				violations = append(violations, rule.Message)
				break
			}
		}
	}
	return violations
}

func (v *Validator) Contact(form *models.ContactForm) Result[models.ContactSubmission] {
	values := models.ContactSubmission{
		Name:    SanitizeText(form.Name),
		Email:   SanitizeEmail(form.Email),
		Phone:   SanitizeText(form.Phone),
		Subject: SanitizeText(form.Subject),
		Message: SanitizeText(form.Message),
	}

	violations := v.Check([]Field{
		{Name: "name", Value: values.Name, Rules: nameRules(
			"Name must be at least 2 characters long",
			"Name must be at least 2 characters long",
		)},
		{Name: "email", Value: values.Email, Rules: emailRules("Please provide a valid email address")},
		{Name: "phone", Value: values.Phone, Rules: phoneRules},
		{Name: "subject", Value: values.Subject, Rules: selectionRules("Please select a subject")},
		{Name: "message", Value: values.Message, Rules: messageRules},
	})

	return Result[models.ContactSubmission]{Values: values, Violations: violations}
}

func (v *Validator) Newsletter(form *models.NewsletterForm) Result[models.Subscription] {
	values := models.Subscription{Email: SanitizeEmail(form.Email)}

	violations := v.Check([]Field{
		{Name: "email", Value: values.Email, Rules: emailRules("Please provide a valid email address")},
	})

	return Result[models.Subscription]{Values: values, Violations: violations}
}

func (v *Validator) Booking(form *models.BookingForm) Result[models.BookingInquiry] {
	values := models.BookingInquiry{
		Name:    SanitizeText(form.Name),
		Email:   SanitizeEmail(form.Email),
		Phone:   SanitizeText(form.Phone),
		Show:    SanitizeText(form.Show),
		Date:    SanitizeText(form.Date),
		Section: SanitizeText(form.Section),
		Tickets: ParseTickets(form.Tickets),
	}

	violations := v.Check([]Field{
		{Name: "name", Value: values.Name, Rules: nameRules("Name is required", "Name is required")},
		{Name: "email", Value: values.Email, Rules: emailRules("Valid email is required")},
		{Name: "show", Value: values.Show, Rules: selectionRules("Please select a show")},
		{Name: "date", Value: values.Date, Rules: selectionRules("Please select a date")},
		{Name: "section", Value: values.Section, Rules: selectionRules("Please select a seating section")},
		{Name: "tickets", Value: values.Tickets, Rules: ticketRules},
	})

	return Result[models.BookingInquiry]{Values: values, Violations: violations}
}
