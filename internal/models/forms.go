package models

// Raw form payloads as posted by the site. Every field is bound as a string so
// that malformed values reach the validator instead of failing the bind.

type ContactForm struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Phone   string `form:"phone" json:"phone"`
	Subject string `form:"subject" json:"subject"`
	Message string `form:"message" json:"message"`
}

type NewsletterForm struct {
	Email string `form:"email" json:"email"`
}

type BookingForm struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Phone   string `form:"phone" json:"phone"`
	Show    string `form:"show" json:"show"`
	Date    string `form:"date" json:"date"`
	Section string `form:"section" json:"section"`
	Tickets string `form:"tickets" json:"tickets"`
}
