package types

import (
	"regexp"
	"time"
	"unicode/utf8"
)

// BirthdayLayout is the only accepted birthday format (DD-MM-YYYY).
const BirthdayLayout = "02-01-2006"

// emailPattern accepts local@domain.tld with at least one character in each
// part and no whitespace. The top-level part may not contain a dot.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s.]+$`)

// Phone is a validated phone number: one or more ASCII digits.
type Phone string

// Email is a validated contact address of the form local@domain.tld.
type Email string

// Birthday is a validated calendar date without a time component.
type Birthday struct {
	date time.Time
}

// ValidatePhone returns nil if s is non-empty and consists only of the
// digits 0-9. Otherwise it returns a *FormatError.
func ValidatePhone(s string) error {
	if s == "" {
		return &FormatError{Field: FieldPhone, Value: s}
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return &FormatError{Field: FieldPhone, Value: s}
		}
	}
	return nil
}

// ValidateEmail returns nil if s is valid UTF-8 with the shape
// local@domain.tld.
func ValidateEmail(s string) error {
	if !utf8.ValidString(s) || !emailPattern.MatchString(s) {
		return &FormatError{Field: FieldEmail, Value: s}
	}
	return nil
}

// NewPhone validates s and returns it as a Phone.
func NewPhone(s string) (Phone, error) {
	if err := ValidatePhone(s); err != nil {
		return "", err
	}
	return Phone(s), nil
}

// NewEmail validates s and returns it as an Email.
func NewEmail(s string) (Email, error) {
	if err := ValidateEmail(s); err != nil {
		return "", err
	}
	return Email(s), nil
}

// ParseBirthday parses s under the exact DD-MM-YYYY layout. Strings that do
// not match the layout character for character, and impossible dates such
// as 31-04-2020, are rejected.
func ParseBirthday(s string) (Birthday, error) {
	if !matchesBirthdayLayout(s) {
		return Birthday{}, &FormatError{Field: FieldBirthday, Value: s}
	}
	t, err := time.Parse(BirthdayLayout, s)
	if err != nil {
		return Birthday{}, &FormatError{Field: FieldBirthday, Value: s}
	}
	return Birthday{date: t}, nil
}

// matchesBirthdayLayout checks the DD-MM-YYYY shape; time.Parse alone
// accepts single-digit days and months.
func matchesBirthdayLayout(s string) bool {
	if len(s) != len(BirthdayLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch i {
		case 2, 5:
			if s[i] != '-' {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}

func (p Phone) String() string { return string(p) }

func (e Email) String() string { return string(e) }

// String formats the birthday as DD-MM-YYYY.
func (b Birthday) String() string {
	return b.date.Format(BirthdayLayout)
}

// Time returns the birthday as a UTC midnight time value.
func (b Birthday) Time() time.Time {
	return b.date
}

// IsZero reports whether b holds no date.
func (b Birthday) IsZero() bool {
	return b.date.IsZero()
}

// DaysUntil returns the number of days from now's calendar date to the next
// occurrence of the birthday's month and day. It returns 0 on the birthday
// itself. A 29 February birthday falls on 1 March in non-leap years.
func (b Birthday) DaysUntil(now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	next := time.Date(today.Year(), b.date.Month(), b.date.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(today.Year()+1, b.date.Month(), b.date.Day(), 0, 0, 0, 0, time.UTC)
	}
	return int(next.Sub(today).Hours() / 24)
}
