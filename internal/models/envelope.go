package models

// Envelope is the JSON reply shared by every form endpoint.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Errors  []string        `json:"errors,omitempty"`
	Booking *BookingSummary `json:"booking,omitempty"`
}
