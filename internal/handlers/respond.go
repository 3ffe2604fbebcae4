package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"theatre-forms/internal/models"
)

const (
	msgMethodNotAllowed  = "Method not allowed"
	msgAlreadySubscribed = "This email is already subscribed to our newsletter"
	msgPersistence       = "We could not record your submission. Please try again later."
)

func respondJSON(c *gin.Context, code int, envelope models.Envelope) {
	c.JSON(code, envelope)
}

func respondSuccess(c *gin.Context, message string, booking *models.BookingSummary) {
	respondJSON(c, http.StatusOK, models.Envelope{
		Success: true,
		Message: message,
		Booking: booking,
	})
}

// respondError maps a pipeline error onto its status code and envelope.
func respondError(c *gin.Context, err error) int {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(c, http.StatusBadRequest, models.Envelope{Errors: verr.Messages})
		return http.StatusBadRequest
	case errors.Is(err, models.ErrAlreadySubscribed):
		respondJSON(c, http.StatusConflict, models.Envelope{Message: msgAlreadySubscribed})
		return http.StatusConflict
	default:
		respondJSON(c, http.StatusInternalServerError, models.Envelope{Message: msgPersistence})
		return http.StatusInternalServerError
	}
}

// MethodNotAllowed is installed as the router's NoMethod handler.
func MethodNotAllowed(c *gin.Context) {
	respondJSON(c, http.StatusMethodNotAllowed, models.Envelope{Message: msgMethodNotAllowed})
}
