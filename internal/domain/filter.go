package domain

import (
	"fmt"
	"strings"
)

// FilterSpec selects entries by label text and an inclusive date range.
// A nil or empty criterion always matches.
type FilterSpec struct {
	From  *Date
	To    *Date
	Query string
}

// ParseFilterSpec builds a FilterSpec from raw request values.
func ParseFilterSpec(query, from, to string) (FilterSpec, error) {
	spec := FilterSpec{Query: strings.TrimSpace(query)}

	if strings.TrimSpace(from) != "" {
		d, err := ParseDate(from)
		if err != nil {
			return FilterSpec{}, fmt.Errorf("%w: from: %w", ErrValidation, err)
		}
		spec.From = &d
	}

	if strings.TrimSpace(to) != "" {
		d, err := ParseDate(to)
		if err != nil {
			return FilterSpec{}, fmt.Errorf("%w: to: %w", ErrValidation, err)
		}
		spec.To = &d
	}

	if spec.From != nil && spec.To != nil && spec.From.After(*spec.To) {
		return FilterSpec{}, fmt.Errorf("%w: %w", ErrValidation, ErrInvalidDateRange)
	}

	return spec, nil
}

// IsEmpty reports whether the spec matches everything.
func (s FilterSpec) IsEmpty() bool {
	return strings.TrimSpace(s.Query) == "" && s.From == nil && s.To == nil
}

// Match reports whether e satisfies every criterion of the spec.
func (s FilterSpec) Match(e *Entry) bool {
	if q := strings.TrimSpace(s.Query); q != "" {
		if !strings.Contains(strings.ToLower(e.Particulars), strings.ToLower(q)) {
			return false
		}
	}

	if s.From != nil && e.Date.Before(*s.From) {
		return false
	}

	if s.To != nil && e.Date.After(*s.To) {
		return false
	}

	return true
}

// Filter returns the entries matching spec in their original relative order.
// The input slice is not modified.
func Filter(entries []*Entry, spec FilterSpec) []*Entry {
	out := make([]*Entry, 0, len(entries))

	for _, e := range entries {
		if e != nil && spec.Match(e) {
			out = append(out, e)
		}
	}

	return out
}
