package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// StudentStatus is the enrolment state of a student
type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentInactive  StudentStatus = "inactive"
	StudentGraduated StudentStatus = "graduated"
)

// Student is owned by the student-management side of the application. The payment engine
// only reads it. The three tariff fields are successive schema generations that can all be
// present on one record.
type Student struct {
	ID              string          `json:"id"`
	BranchID        string          `json:"branchId"`
	Name            string          `json:"name"`
	Status          StudentStatus   `json:"status"`
	Subjects        []string        `json:"subjects"`
	SubjectPayments []SubjectTariff `json:"subjectPayments,omitempty"`
	PerClassPrices  PriceMap        `json:"perClassPrices,omitempty"`
	PaymentSubjects []SubjectTariff `json:"paymentSubjects,omitempty"`
}

// IsEnrolledIn reports whether subject appears in the student's subject list,
// ignoring case and surrounding whitespace.
func (s *Student) IsEnrolledIn(subject string) bool {
	_, ok := s.EnrolledSubject(subject)
	return ok
}

// EnrolledSubject returns the subject as spelled in the student's subject list.
func (s *Student) EnrolledSubject(subject string) (string, bool) {
	want := NormalizeSubject(subject)
	for _, enrolled := range s.Subjects {
		if NormalizeSubject(enrolled) == want {
			return strings.TrimSpace(enrolled), true
		}
	}
	return "", false
}

// NormalizeSubject trims and lower-cases a subject name for matching.
func NormalizeSubject(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}

// SubjectTariff is one {subject, amount} entry of the subjectPayments and
// paymentSubjects shapes.
type SubjectTariff struct {
	Subject string       `json:"subject"`
	Amount  LegacyAmount `json:"amount"`
}

// LegacyAmount is a tariff amount as found in stored student documents. Older writers
// stored numbers, newer ones numeric strings, and some rows hold garbage; a value that is
// not a number decodes as invalid instead of failing the whole document.
type LegacyAmount struct {
	Value decimal.Decimal
	Valid bool
}

// NewLegacyAmount builds a valid amount.
func NewLegacyAmount(value decimal.Decimal) LegacyAmount {
	return LegacyAmount{Value: value, Valid: true}
}

// Positive reports whether the amount is usable as a tariff.
func (a LegacyAmount) Positive() bool {
	return a.Valid && a.Value.IsPositive()
}

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (a *LegacyAmount) UnmarshalJSON(data []byte) error {
	*a = parseLegacyAmount(data)
	return nil
}

func parseLegacyAmount(data []byte) LegacyAmount {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return LegacyAmount{}
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return LegacyAmount{}
		}
		raw = strings.TrimSpace(s)
	} else if data[0] != '-' && (data[0] < '0' || data[0] > '9') {
		// booleans, objects, arrays
		return LegacyAmount{}
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return LegacyAmount{}
	}
	return NewLegacyAmount(value)
}

// MarshalJSON implements json.Marshaler
func (a LegacyAmount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(a.Value.String()), nil
}

// PriceEntry is one key of the perClassPrices mapping.
type PriceEntry struct {
	Subject string
	Amount  LegacyAmount
}

// PriceMap is the perClassPrices shape: a JSON object of subject -> amount. It keeps the
// document's key order so normalized lookups return the first match as written.
type PriceMap []PriceEntry

// Lookup returns the amount stored under exactly key.
func (m PriceMap) Lookup(key string) (LegacyAmount, bool) {
	for _, entry := range m {
		if entry.Subject == key {
			return entry.Amount, true
		}
	}
	return LegacyAmount{}, false
}

// UnmarshalJSON implements json.Unmarshaler
func (m *PriceMap) UnmarshalJSON(data []byte) error {
	*m = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("perClassPrices: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("perClassPrices: expected object, got %v", tok)
	}

	entries := PriceMap{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("perClassPrices: %w", err)
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("perClassPrices[%s]: %w", key, err)
		}
		entries = append(entries, PriceEntry{Subject: key, Amount: parseLegacyAmount(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("perClassPrices: %w", err)
	}

	*m = entries
	return nil
}

// MarshalJSON implements json.Marshaler
func (m PriceMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Subject)
		if err != nil {
			return nil, err
		}
		value, err := entry.Amount.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
