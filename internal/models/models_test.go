package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriberSetIsCaseInsensitive(t *testing.T) {
	set := NewSubscriberSet("Fan@Example.com")

	assert.True(t, set.Contains("fan@example.com"))
	assert.True(t, set.Contains("  FAN@EXAMPLE.COM "))
	assert.False(t, set.Add("fan@EXAMPLE.com"))
	assert.True(t, set.Add("other@example.com"))
	assert.Equal(t, 2, set.Len())
}

func TestSubscriberSetCloneIsIndependent(t *testing.T) {
	set := NewSubscriberSet("a@example.com")
	clone := set.Clone()
	clone.Add("b@example.com")

	assert.Equal(t, 1, set.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$285.00", FormatPrice(285))
	assert.Equal(t, "$1,200.00", FormatPrice(1200))
	assert.Equal(t, "$45.00", FormatPrice(45))
}

func TestBookingLogFields(t *testing.T) {
	at := time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)
	b := &BookingInquiry{
		Name:        "Ada",
		Email:       "ada@example.com",
		Show:        "Hamlet",
		Date:        "2026-04-01",
		Section:     "Mezzanine",
		Tickets:     3,
		TotalPrice:  285,
		SubmittedAt: at,
	}

	assert.Equal(t, []string{
		"2026-03-14 19:30:00", "Ada", "ada@example.com", "Hamlet", "2026-04-01", "Mezzanine", "3 tickets", "$285.00",
	}, b.LogFields())
	assert.Equal(t, "2026-03-14 19:30:00", b.Summary().Timestamp)
}
