package models

import (
	"fmt"
	"time"
)

// TimestampLayout is used for log lines and echoed booking timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Record is an accepted submission that can be written as one log line.
type Record interface {
	Kind() string
	LogFields() []string
}

type ContactSubmission struct {
	Name        string
	Email       string
	Phone       string
	Subject     string
	Message     string
	SubmittedAt time.Time
}

func (s *ContactSubmission) Kind() string { return "contact" }

func (s *ContactSubmission) LogFields() []string {
	return []string{
		s.SubmittedAt.Format(TimestampLayout),
		s.Name,
		s.Email,
		s.Subject,
		s.Message,
	}
}

// Subscription is the newsletter log entry written after a new address is stored.
type Subscription struct {
	Email        string
	SubscribedAt time.Time
}

func (s *Subscription) Kind() string { return "newsletter" }

func (s *Subscription) LogFields() []string {
	return []string{
		s.SubscribedAt.Format(TimestampLayout),
		"Subscribed: " + s.Email,
	}
}

type BookingInquiry struct {
	Name           string
	Email          string
	Phone          string
	Show           string
	Date           string
	Section        string
	Tickets        int
	PricePerTicket int
	TotalPrice     int
	SubmittedAt    time.Time
}

func (b *BookingInquiry) Kind() string { return "booking" }

func (b *BookingInquiry) LogFields() []string {
	return []string{
		b.SubmittedAt.Format(TimestampLayout),
		b.Name,
		b.Email,
		b.Show,
		b.Date,
		b.Section,
		fmt.Sprintf("%d tickets", b.Tickets),
		FormatPrice(b.TotalPrice),
	}
}

// Summary is the booking object echoed back to the site.
func (b *BookingInquiry) Summary() *BookingSummary {
	return &BookingSummary{
		Name:           b.Name,
		Email:          b.Email,
		Phone:          b.Phone,
		Show:           b.Show,
		Date:           b.Date,
		Section:        b.Section,
		Tickets:        b.Tickets,
		PricePerTicket: b.PricePerTicket,
		TotalPrice:     b.TotalPrice,
		Timestamp:      b.SubmittedAt.Format(TimestampLayout),
	}
}

type BookingSummary struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Show           string `json:"show"`
	Date           string `json:"date"`
	Section        string `json:"section"`
	Tickets        int    `json:"tickets"`
	PricePerTicket int    `json:"price_per_ticket"`
	TotalPrice     int    `json:"total_price"`
	Timestamp      string `json:"timestamp"`
}
