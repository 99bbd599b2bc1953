package core

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Month is the canonical time key for balances and exchange rates: a calendar
// month encoded as "YYYY-MM". The encoding sorts lexicographically in
// chronological order, so the string form is usable directly as an ordered,
// equality-comparable database key.
type Month struct {
	Year  int
	Month int
}

var ErrInvalidMonth = errors.New("invalid month")

// NewMonth creates a validated Month.
func NewMonth(year, month int) (Month, error) {
	m := Month{Year: year, Month: month}
	if err := m.Validate(); err != nil {
		return Month{}, err
	}
	return m, nil
}

// CurrentMonth returns the month of the local wall clock.
func CurrentMonth() Month {
	now := time.Now()
	return Month{Year: now.Year(), Month: int(now.Month())}
}

// ParseMonth parses the canonical "YYYY-MM" encoding. Only plain digits are
// accepted: Atoi-isms like a leading '+' would parse but not round-trip
// through String, breaking the encoding's use as a database key.
func ParseMonth(s string) (Month, error) {
	if len(s) != 7 || s[4] != '-' {
		return Month{}, fmt.Errorf("%w: %q (want YYYY-MM)", ErrInvalidMonth, s)
	}
	for i, c := range []byte(s) {
		if i == 4 {
			continue
		}
		if c < '0' || c > '9' {
			return Month{}, fmt.Errorf("%w: %q (want YYYY-MM)", ErrInvalidMonth, s)
		}
	}
	year, _ := strconv.Atoi(s[:4])
	month, _ := strconv.Atoi(s[5:])
	return NewMonth(year, month)
}

func (m Month) Validate() error {
	if m.Year < 0 || m.Year > 9999 {
		return fmt.Errorf("%w: year %d", ErrInvalidMonth, m.Year)
	}
	if m.Month < 1 || m.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidMonth, m.Month)
	}
	return nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	if m.Month == 12 {
		return Month{Year: m.Year + 1, Month: 1}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Compare returns -1, 0 or 1 comparing m to o chronologically.
func (m Month) Compare(o Month) int {
	switch {
	case m.Year < o.Year:
		return -1
	case m.Year > o.Year:
		return 1
	case m.Month < o.Month:
		return -1
	case m.Month > o.Month:
		return 1
	}
	return 0
}

func (m Month) Before(o Month) bool {
	return m.Compare(o) < 0
}

// IsZero reports whether m is the uninitialized value, which is never a
// valid month.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}
