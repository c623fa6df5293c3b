package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID            string          `json:"id"`
	Date          domain.Date     `json:"date"`
	Particulars   string          `json:"particulars"`
	DebitCountry  decimal.Decimal `json:"debit_country"`
	Debit         decimal.Decimal `json:"debit"`
	CreditCountry decimal.Decimal `json:"credit_country"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		Date:          e.Date,
		Particulars:   e.Particulars,
		DebitCountry:  e.DebitCountry,
		Debit:         e.Debit,
		CreditCountry: e.CreditCountry,
		Credit:        e.Credit,
		Balance:       e.Balance,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse represents a filtered ledger view.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// ShareReceiptResponse describes where a statement was delivered.
type ShareReceiptResponse struct {
	Sink      string     `json:"sink"`
	URL       string     `json:"url,omitempty"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ShareReceiptFromDomain converts a domain receipt to response.
func ShareReceiptFromDomain(r *domain.ShareReceipt) *ShareReceiptResponse {
	return &ShareReceiptResponse{
		Sink:      r.Sink,
		URL:       r.URL,
		Token:     r.Token,
		ExpiresAt: r.ExpiresAt,
	}
}

// SummaryResponse represents ledger totals.
type SummaryResponse struct {
	Count              int             `json:"count"`
	TotalDebitCountry  decimal.Decimal `json:"total_debit_country"`
	TotalDebit         decimal.Decimal `json:"total_debit"`
	TotalCreditCountry decimal.Decimal `json:"total_credit_country"`
	TotalCredit        decimal.Decimal `json:"total_credit"`
	ClosingBalance     decimal.Decimal `json:"closing_balance"`
}

// SummaryFromDomain converts a domain summary to response.
func SummaryFromDomain(s domain.Summary) *SummaryResponse {
	return &SummaryResponse{
		Count:              s.Count,
		TotalDebitCountry:  s.TotalDebitCountry,
		TotalDebit:         s.TotalDebit,
		TotalCreditCountry: s.TotalCreditCountry,
		TotalCredit:        s.TotalCredit,
		ClosingBalance:     s.ClosingBalance,
	}
}

// DiscrepancyResponse describes one broken invariant.
type DiscrepancyResponse struct {
	EntryID string `json:"entry_id,omitempty"`
	Reason  string `json:"reason"`
}

// ReconciliationResponse represents a ledger consistency report.
type ReconciliationResponse struct {
	Consistent      bool                  `json:"consistent"`
	TotalEntries    int                   `json:"total_entries"`
	ClosingBalance  decimal.Decimal       `json:"closing_balance"`
	ExpectedBalance decimal.Decimal       `json:"expected_balance"`
	Discrepancies   []DiscrepancyResponse `json:"discrepancies"`
	CheckedAt       time.Time             `json:"checked_at"`
}

// ReconciliationFromDomain converts a reconciliation report to response.
func ReconciliationFromDomain(r *usecase.ReconciliationReport) *ReconciliationResponse {
	resp := &ReconciliationResponse{
		Consistent:      r.Consistent,
		TotalEntries:    r.TotalEntries,
		ClosingBalance:  r.ClosingBalance,
		ExpectedBalance: r.ExpectedBalance,
		Discrepancies:   make([]DiscrepancyResponse, 0, len(r.Discrepancies)),
		CheckedAt:       r.CheckedAt,
	}
	for _, d := range r.Discrepancies {
		resp.Discrepancies = append(resp.Discrepancies, DiscrepancyResponse{EntryID: d.EntryID, Reason: d.Reason})
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
