// utils/validation.go
package utils

import (
	"regexp"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var (
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	return phoneRegex.MatchString(cleaned)
}

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// ParseDate accepts a calendar day in YYYY-MM-DD form.
func ParseDate(value string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, value)
	return t, err == nil
}

// ParseClock accepts a time of day as H:MM or HH:MM, with optional
// seconds, and returns it as HH:MM. The result is the slot key, so "9:30",
// "09:30" and "09:30:00" all name the same slot.
func ParseClock(value string) (string, bool) {
	for _, layout := range []string{ClockLayout, ClockLayout + ":05"} {
		if t, err := time.Parse(layout, strings.TrimSpace(value)); err == nil {
			return t.Format(ClockLayout), true
		}
	}
	return "", false
}
