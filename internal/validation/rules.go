package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rule is one validator tag paired with the message shown when it fails.
type Rule struct {
	Tag     string
	Message string
}

// Field is a value under test and its rules, checked in order until one fails.
type Field struct {
	Name  string
	Value any
	Rules []Rule
}

var phoneChars = regexp.MustCompile(`^[\d\s\-+()]+$`)

func registerCustom(v *validator.Validate) {
	_ = v.RegisterValidation("dotted_domain", func(fl validator.FieldLevel) bool {
		addr := fl.Field().String()
		at := strings.LastIndex(addr, "@")
		if at <= 0 {
			return false
		}
		domain := addr[at+1:]
		return strings.Contains(domain, ".") &&
			!strings.HasPrefix(domain, ".") &&
			!strings.HasSuffix(domain, ".")
	})

	_ = v.RegisterValidation("phone_digits", func(fl validator.FieldLevel) bool {
		cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(fl.Field().String())
		return len(cleaned) >= 10
	})

	_ = v.RegisterValidation("phone_chars", func(fl validator.FieldLevel) bool {
		return phoneChars.MatchString(fl.Field().String())
	})
}

func nameRules(required, short string) []Rule {
	return []Rule{
		{Tag: "required", Message: required},
		{Tag: "min=2", Message: short},
		{Tag: "max=100", Message: "Name is too long"},
	}
}

func emailRules(msg string) []Rule {
	return []Rule{
		{Tag: "required", Message: msg},
		{Tag: "email,dotted_domain", Message: msg},
	}
}

func selectionRules(msg string) []Rule {
	return []Rule{{Tag: "required", Message: msg}}
}

var phoneRules = []Rule{
	{Tag: "omitempty,phone_digits", Message: "Please enter a valid phone number"},
	{Tag: "omitempty,phone_chars", Message: "Phone number contains invalid characters"},
}

var messageRules = []Rule{
	{Tag: "required", Message: "Message must be at least 10 characters long"},
	{Tag: "min=10", Message: "Message must be at least 10 characters long"},
}

var ticketRules = []Rule{
	{Tag: "gte=1,lte=10", Message: "Number of tickets must be between 1 and 10"},
}
