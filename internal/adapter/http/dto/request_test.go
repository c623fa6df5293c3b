package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/statement"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "number", raw: `12.5`, want: "12.5"},
		{name: "string", raw: `"12.5"`, want: "12.5"},
		{name: "decimal comma", raw: `"12,50"`, want: "12.5"},
		{name: "thousands separator", raw: `"1,234.50"`, want: "1234.5"},
		{name: "empty string", raw: `""`, want: "0"},
		{name: "null", raw: `null`, want: "0"},
		{name: "garbage", raw: `"abc"`, want: "0"},
		{name: "boolean", raw: `true`, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			if err := json.Unmarshal([]byte(tt.raw), &a); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !a.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("Amount(%s) = %s, want %s", tt.raw, a.Decimal, tt.want)
			}
		})
	}
}

func TestEntryRequest_ToUseCaseInput(t *testing.T) {
	var req EntryRequest
	body := `{"date":"2024-01-02","particulars":"Bob","debit":"40","credit_country":null}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	got := req.ToUseCaseInput()
	if got.Date != "2024-01-02" || got.Particulars != "Bob" {
		t.Fatalf("unexpected input %+v", got)
	}
	if !got.Debit.Equal(decimal.NewFromInt(40)) || !got.Credit.IsZero() || !got.CreditCountry.IsZero() {
		t.Fatalf("unexpected amounts %+v", got)
	}
}

func TestEntryRequest_ValidateRejectsOversizedFields(t *testing.T) {
	req := &EntryRequest{Particulars: strings.Repeat("x", 2000)}

	err := req.Validate()
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "particulars failed max") {
		t.Errorf("expected field detail, got %q", err.Error())
	}
}

func TestShareStatementRequest_ToUseCaseInput(t *testing.T) {
	req := &ShareStatementRequest{Query: "alice", From: "2024-01-01"}

	input, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Target != statement.TargetText {
		t.Errorf("expected text target by default, got %s", input.Target)
	}
	if input.Filter.Query != "alice" || input.Filter.From == nil || input.Filter.To != nil {
		t.Errorf("unexpected filter %+v", input.Filter)
	}
}

func TestShareStatementRequest_Invalid(t *testing.T) {
	if err := (&ShareStatementRequest{Format: "pdf"}).Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown format, got %v", err)
	}

	_, err := (&ShareStatementRequest{From: "2024-02-01", To: "2024-01-01"}).ToUseCaseInput()
	if !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}
