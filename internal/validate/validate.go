// Package validate holds the request validation rules shared by the
// booking and contact services. Violations are collected, not
// short-circuited, so a client sees every problem in one response.
package validate

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/barbearia-nativa/bookingd/internal/apperr"
)

const (
	MaxNameLength    = 100
	MaxNotesLength   = 500
	MaxMessageLength = 1000
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)
	// Brazilian mobile numbers: optional +55, two-digit area code, nine
	// digits starting with 9. Separators and parentheses are tolerated.
	phoneRe  = regexp.MustCompile(`^(\+?55)?\s*\(?\d{2}\)?\s*9\d{4}[-\s]?\d{4}$`)
	clockRe  = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
	dateForm = "2006-01-02"
)

// Violations accumulates field errors and converts to a ValidationError.
type Violations struct {
	fields []apperr.FieldError
}

func (v *Violations) Add(field, message string) {
	v.fields = append(v.fields, apperr.FieldError{Field: field, Message: message})
}

// Err returns nil when no violations were recorded.
func (v *Violations) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &apperr.ValidationError{Fields: v.fields}
}

func Email(s string) bool {
	return emailRe.MatchString(s)
}

func Phone(s string) bool {
	return phoneRe.MatchString(s)
}

// Date accepts 2006-01-02 and rejects impossible calendar dates.
func Date(s string) bool {
	_, err := time.Parse(dateForm, s)
	return err == nil
}

// TimeOfDay accepts 24h HH:MM with an optional leading zero on the hour.
func TimeOfDay(s string) bool {
	return clockRe.MatchString(s)
}

// NormalizeTime zero-pads a valid time-of-day so "9:30" and "09:30" land
// on the same slot key.
func NormalizeTime(s string) string {
	if len(s) == 4 && strings.IndexByte(s, ':') == 1 {
		return "0" + s
	}
	return s
}

// WithinLimit counts characters rather than bytes, so accented names and
// messages do not hit the limits early.
func WithinLimit(s string, max int) bool {
	return utf8.RuneCountInString(s) <= max
}

// Name checks the shared non-empty-after-trim rule for people names.
func Name(v *Violations, field, s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		v.Add(field, "is required")
	} else if !WithinLimit(s, MaxNameLength) {
		v.Add(field, "is too long")
	}
	return s
}
