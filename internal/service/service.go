package service

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"theatre-forms/internal/config"
	"theatre-forms/internal/models"
)

// Clock lets tests pin submission timestamps.
type Clock func() time.Time

func persistenceError(resource string, err error) error {
	return &models.PersistenceError{Resource: resource, Err: err}
}

// ucfirst upper-cases the first letter and leaves the rest alone.
func ucfirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func signature(team string, mail config.MailConfig) string {
	return fmt.Sprintf("Best regards,\n%s %s", mail.TheatreName, team)
}
