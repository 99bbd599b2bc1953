package core

import (
	"errors"
	"testing"
)

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2024-12")
	if err != nil {
		t.Fatalf("ParseMonth failed: %v", err)
	}
	if m.Year != 2024 || m.Month != 12 {
		t.Errorf("ParseMonth = %+v, want 2024-12", m)
	}

	invalid := []string{
		"", "2024", "2024-13", "2024-00", "24-01", "2024/01", "2024-1", "abcd-ef",
		// Atoi would take these, but they do not round-trip through String.
		"2024-+1", "+024-01", "2024- 1", " 024-01",
	}
	for _, s := range invalid {
		if _, err := ParseMonth(s); !errors.Is(err, ErrInvalidMonth) {
			t.Errorf("ParseMonth(%q) err = %v, want ErrInvalidMonth", s, err)
		}
	}
}

func TestMonthString(t *testing.T) {
	m := Month{Year: 2023, Month: 5}
	if got := m.String(); got != "2023-05" {
		t.Errorf("String = %q, want 2023-05", got)
	}
}

func TestMonthNext(t *testing.T) {
	m := Month{Year: 2023, Month: 12}
	if next := m.Next(); next.Year != 2024 || next.Month != 1 {
		t.Errorf("Next of December = %+v, want 2024-01", next)
	}
	m = Month{Year: 2023, Month: 5}
	if next := m.Next(); next.Year != 2023 || next.Month != 6 {
		t.Errorf("Next = %+v, want 2023-06", next)
	}
}

func TestMonthCompare(t *testing.T) {
	a := Month{Year: 2024, Month: 1}
	b := Month{Year: 2024, Month: 2}
	c := Month{Year: 2023, Month: 12}

	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Error("Compare within a year is wrong")
	}
	if !c.Before(a) {
		t.Error("2023-12 should be before 2024-01")
	}

	// String ordering must agree with chronological ordering.
	if !(c.String() < a.String() && a.String() < b.String()) {
		t.Error("string encoding does not sort chronologically")
	}
}

func TestMonthIsZero(t *testing.T) {
	if !(Month{}).IsZero() {
		t.Error("zero value should report IsZero")
	}
	if (Month{Year: 2024, Month: 1}).IsZero() {
		t.Error("valid month should not report IsZero")
	}
}

func TestMonthValidate(t *testing.T) {
	if err := (Month{Year: 2024, Month: 6}).Validate(); err != nil {
		t.Errorf("valid month rejected: %v", err)
	}
	for _, m := range []Month{{2024, 0}, {2024, 13}, {-1, 5}, {10000, 1}} {
		if err := m.Validate(); !errors.Is(err, ErrInvalidMonth) {
			t.Errorf("Validate(%+v) err = %v, want ErrInvalidMonth", m, err)
		}
	}
}
