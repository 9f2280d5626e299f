package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Validation failures returned (wrapped) by the value constructors.
var (
	ErrInvalidName    = errors.New("names should only contain alphanumeric characters and spaces, and it should not be blank")
	ErrInvalidEventID = errors.New("event id should be a single word without slashes, and it should not be blank")
	ErrInvalidMoney   = errors.New("money should be a decimal amount")
	ErrNegativeMoney  = errors.New("money cannot be negative")
)

// Name is a validated member name. Equality is exact and case-sensitive.
type Name string

// NewName trims raw and validates it as a member name.
func NewName(raw string) (Name, error) {
	trimmed := strings.TrimSpace(raw)
	if !isValidName(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}
	return Name(trimmed), nil
}

// MustName is NewName for literals known to be valid.
func MustName(raw string) Name {
	n, err := NewName(raw)
	if err != nil {
		panic(err)
	}
	return n
}

func isValidName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		alnum := unicode.IsLetter(r) || unicode.IsDigit(r)
		if i == 0 && !alnum {
			return false
		}
		if !alnum && r != ' ' {
			return false
		}
	}
	return true
}

func (n Name) String() string { return string(n) }

// EventID identifies an event. It never contains whitespace or the member
// delimiter '/'.
type EventID string

// NewEventID trims raw and validates it as an event identifier.
func NewEventID(raw string) (EventID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.ContainsFunc(trimmed, func(r rune) bool {
		return r == '/' || unicode.IsSpace(r) || unicode.IsControl(r)
	}) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEventID, raw)
	}
	return EventID(trimmed), nil
}

// MustEventID is NewEventID for literals known to be valid.
func MustEventID(raw string) EventID {
	id, err := NewEventID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

func (id EventID) String() string { return string(id) }

// Money is a non-negative decimal amount. The zero value is zero.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns a zero amount.
func ZeroMoney() Money { return Money{amount: decimal.Zero} }

// NewMoney parses a decimal string such as "12.50".
func NewMoney(raw string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidMoney, raw)
	}
	return moneyFromDecimal(d)
}

// MoneyFromCents builds an amount from an integer number of cents.
func MoneyFromCents(cents int64) (Money, error) {
	return moneyFromDecimal(decimal.New(cents, -2))
}

// MustMoney is NewMoney for literals known to be valid.
func MustMoney(raw string) Money {
	m, err := NewMoney(raw)
	if err != nil {
		panic(err)
	}
	return m
}

func moneyFromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s", ErrNegativeMoney, d.String())
	}
	return Money{amount: d}, nil
}

// Plus returns the sum of m and other.
func (m Money) Plus(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Cmp compares two amounts the way decimal.Cmp does.
func (m Money) Cmp(other Money) int { return m.amount.Cmp(other.amount) }

// Equal reports numeric equality, so 1.5 equals 1.50.
func (m Money) Equal(other Money) bool { return m.amount.Equal(other.amount) }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// Decimal exposes the underlying amount.
func (m Money) Decimal() decimal.Decimal { return m.amount }

// String formats the amount with two decimal places.
func (m Money) String() string { return m.amount.StringFixed(2) }

// MarshalJSON encodes the amount as a decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.amount.String())
}

// UnmarshalJSON accepts a decimal string or a bare JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		var num json.Number
		if numErr := json.Unmarshal(data, &num); numErr != nil {
			return fmt.Errorf("%w: %s", ErrInvalidMoney, string(data))
		}
		raw = num.String()
	}
	parsed, err := NewMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
