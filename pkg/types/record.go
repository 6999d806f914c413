package types

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Record is one contact. Phones and Emails never hold two equal values, and
// every value in them has passed its validator.
type Record struct {
	ID       string    // UUID v7, generated on creation, kept across save/load.
	Name     string    // Display name and AddressBook key (required, non-empty).
	Phones   []Phone   // Validated phone numbers in insertion order.
	Emails   []Email   // Validated addresses in insertion order.
	Birthday *Birthday // Optional.
}

// NewRecord builds a Record from raw strings. The name must be non-blank
// valid UTF-8. Every phone, email and the
// birthday are validated first; if any is invalid no Record is returned and
// the error identifies the offending value. Empty strings in phones and
// emails, and an empty birthday, mean "not given". Duplicates collapse.
func NewRecord(name string, phones, emails []string, birthday string) (*Record, error) {
	name = strings.TrimSpace(name)
	if name == "" || !utf8.ValidString(name) {
		return nil, ErrInvalidName
	}

	r := &Record{ID: newRecordID(), Name: name}
	for _, p := range phones {
		if p == "" {
			continue
		}
		phone, err := NewPhone(p)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(r.Phones, phone) {
			r.Phones = append(r.Phones, phone)
		}
	}
	for _, e := range emails {
		if e == "" {
			continue
		}
		email, err := NewEmail(e)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(r.Emails, email) {
			r.Emails = append(r.Emails, email)
		}
	}
	if birthday != "" {
		b, err := ParseBirthday(birthday)
		if err != nil {
			return nil, err
		}
		r.Birthday = &b
	}
	return r, nil
}

// newRecordID generates a UUID v7, falling back to v4 if v7 generation fails.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// AddPhone validates value and appends it unless an equal phone is already
// present. Adding an existing phone is a no-op.
func (r *Record) AddPhone(value string) error {
	phone, err := NewPhone(value)
	if err != nil {
		return err
	}
	if !slices.Contains(r.Phones, phone) {
		r.Phones = append(r.Phones, phone)
	}
	return nil
}

// FindPhone returns the phone equal to value.
func (r *Record) FindPhone(value string) (Phone, bool) {
	i := slices.Index(r.Phones, Phone(value))
	if i < 0 {
		return "", false
	}
	return r.Phones[i], true
}

// DeletePhone removes the phone equal to value and reports whether one was
// removed.
func (r *Record) DeletePhone(value string) bool {
	i := slices.Index(r.Phones, Phone(value))
	if i < 0 {
		return false
	}
	r.Phones = slices.Delete(r.Phones, i, i+1)
	return true
}

// EditPhone replaces the phone equal to oldValue with newValue. It returns
// ErrNotFound if oldValue is absent and a *FormatError if newValue is
// invalid; in both cases the phones are unchanged. If newValue is already
// present the old entry is dropped instead.
func (r *Record) EditPhone(oldValue, newValue string) error {
	i := slices.Index(r.Phones, Phone(oldValue))
	if i < 0 {
		return fmt.Errorf("phone %q: %w", oldValue, ErrNotFound)
	}
	phone, err := NewPhone(newValue)
	if err != nil {
		return err
	}
	if j := slices.Index(r.Phones, phone); j >= 0 && j != i {
		r.Phones = slices.Delete(r.Phones, i, i+1)
		return nil
	}
	r.Phones[i] = phone
	return nil
}

// AddEmail validates value and appends it unless an equal address is already
// present.
func (r *Record) AddEmail(value string) error {
	email, err := NewEmail(value)
	if err != nil {
		return err
	}
	if !slices.Contains(r.Emails, email) {
		r.Emails = append(r.Emails, email)
	}
	return nil
}

// FindEmail returns the address equal to value.
func (r *Record) FindEmail(value string) (Email, bool) {
	i := slices.Index(r.Emails, Email(value))
	if i < 0 {
		return "", false
	}
	return r.Emails[i], true
}

// DeleteEmail removes the address equal to value and reports whether one
// was removed.
func (r *Record) DeleteEmail(value string) bool {
	i := slices.Index(r.Emails, Email(value))
	if i < 0 {
		return false
	}
	r.Emails = slices.Delete(r.Emails, i, i+1)
	return true
}

// EditEmail is the email counterpart of EditPhone.
func (r *Record) EditEmail(oldValue, newValue string) error {
	i := slices.Index(r.Emails, Email(oldValue))
	if i < 0 {
		return fmt.Errorf("email %q: %w", oldValue, ErrNotFound)
	}
	email, err := NewEmail(newValue)
	if err != nil {
		return err
	}
	if j := slices.Index(r.Emails, email); j >= 0 && j != i {
		r.Emails = slices.Delete(r.Emails, i, i+1)
		return nil
	}
	r.Emails[i] = email
	return nil
}

// SetBirthday parses value and stores it. On error the birthday is unchanged.
func (r *Record) SetBirthday(value string) error {
	b, err := ParseBirthday(value)
	if err != nil {
		return err
	}
	r.Birthday = &b
	return nil
}

// DaysToBirthday returns the days from now until the next birthday, and
// false if no birthday is set.
func (r *Record) DaysToBirthday(now time.Time) (int, bool) {
	if r.Birthday == nil {
		return 0, false
	}
	return r.Birthday.DaysUntil(now), true
}

// PhoneDigits returns all phone values concatenated in order. Phone search
// matches against this string.
func (r *Record) PhoneDigits() string {
	var sb strings.Builder
	for _, p := range r.Phones {
		sb.WriteString(string(p))
	}
	return sb.String()
}

// String formats the record as "Name - DD-MM-YYYY: phones emails".
func (r *Record) String() string {
	birthday := "no birthday"
	if r.Birthday != nil {
		birthday = r.Birthday.String()
	}
	values := make([]string, 0, len(r.Phones)+len(r.Emails))
	for _, p := range r.Phones {
		values = append(values, string(p))
	}
	for _, e := range r.Emails {
		values = append(values, string(e))
	}
	if len(values) == 0 {
		return fmt.Sprintf("%s - %s", r.Name, birthday)
	}
	return fmt.Sprintf("%s - %s: %s", r.Name, birthday, strings.Join(values, " "))
}
