// Package statement renders ledger entries as CSV exports or shareable text.
//
// Rendering is pure: it never touches the store or any delivery channel.
// Delivery is handled by export sinks in the use case layer.
package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/iho/cashbook/internal/domain"
)

// Target selects the output representation.
type Target string

const (
	TargetCSV  Target = "csv"
	TargetText Target = "text"
)

// Placeholder replaces zero amounts in rendered output.
const Placeholder = "-"

// Defaults used when Options fields are empty.
const (
	DefaultDateLayout = "02/01/2006"
	DefaultTitle      = "Ledger Statement"
	DefaultLocale     = "en"
)

// ErrUnknownTarget is returned for targets other than csv and text.
var ErrUnknownTarget = errors.New("unknown statement format")

// Columns is the fixed column order of every statement.
var Columns = []string{"Date", "Particulars", "Debit Country", "Debit", "Credit Country", "Credit", "Balance"}

// ParseTarget maps a request value to a Target; empty means fallback.
func ParseTarget(s string, fallback Target) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return fallback, nil
	case TargetCSV, TargetText:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTarget, s)
	}
}

// Statement is a rendered document ready for download or sharing.
type Statement struct {
	GeneratedAt time.Time
	Target      Target
	Title       string
	ContentType string
	Filename    string
	Body        string
	Entries     int
}

// Options configures a Formatter.
type Options struct {
	DateLayout string
	Title      string
	Locale     string
}

// Formatter renders balanced entries.
type Formatter struct {
	dateLayout string
	title      string
	printer    *message.Printer
	now        func() time.Time
}

// NewFormatter creates a Formatter, filling unset options with defaults.
// An unparsable locale falls back to DefaultLocale.
func NewFormatter(opts Options) *Formatter {
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultDateLayout
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	tag, err := language.Parse(opts.Locale)
	if err != nil || opts.Locale == "" {
		tag = language.MustParse(DefaultLocale)
	}

	return &Formatter{
		dateLayout: opts.DateLayout,
		title:      opts.Title,
		printer:    message.NewPrinter(tag),
		now:        time.Now,
	}
}

// Title returns the header line used by text statements.
func (f *Formatter) Title() string { return f.title }

// Format renders entries for the given target.
func (f *Formatter) Format(entries []*domain.Entry, target Target) (string, error) {
	switch target {
	case TargetCSV:
		return f.formatCSV(entries)
	case TargetText:
		return f.formatText(entries), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
}

// Render formats entries and wraps them with download metadata.
func (f *Formatter) Render(entries []*domain.Entry, target Target) (*Statement, error) {
	body, err := f.Format(entries, target)
	if err != nil {
		return nil, err
	}

	now := f.now().UTC()
	st := &Statement{
		GeneratedAt: now,
		Target:      target,
		Title:       f.title,
		Body:        body,
		Entries:     len(entries),
	}

	switch target {
	case TargetCSV:
		st.ContentType = "text/csv; charset=utf-8"
		st.Filename = "statement-" + now.Format("20060102") + ".csv"
	case TargetText:
		st.ContentType = "text/plain; charset=utf-8"
		st.Filename = "statement-" + now.Format("20060102") + ".txt"
	}

	return st, nil
}

func (f *Formatter) formatCSV(entries []*domain.Entry) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Columns); err != nil {
		return "", err
	}

	for _, e := range entries {
		if e == nil {
			continue
		}
		record := []string{
			e.Date.Format(f.dateLayout),
			e.Particulars,
			plainAmount(e.DebitCountry),
			plainAmount(e.Debit),
			plainAmount(e.CreditCountry),
			plainAmount(e.Credit),
			plainAmount(e.Balance),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (f *Formatter) formatText(entries []*domain.Entry) string {
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, f.title)

	for _, e := range entries {
		if e == nil {
			continue
		}
		values := []string{
			e.Date.Format(f.dateLayout),
			e.Particulars,
			f.localAmount(e.DebitCountry),
			f.localAmount(e.Debit),
			f.localAmount(e.CreditCountry),
			f.localAmount(e.Credit),
			f.localAmount(e.Balance),
		}
		fields := make([]string, len(Columns))
		for i, col := range Columns {
			fields[i] = col + ": " + values[i]
		}
		lines = append(lines, strings.Join(fields, " | "))
	}

	return strings.Join(lines, "\n")
}

// Amounts are shown in cents; anything that rounds to zero is a placeholder.
func plainAmount(d decimal.Decimal) string {
	d = d.Round(domain.AmountPlaces)
	if d.IsZero() {
		return Placeholder
	}
	return d.StringFixed(domain.AmountPlaces)
}

func (f *Formatter) localAmount(d decimal.Decimal) string {
	d = d.Round(domain.AmountPlaces)
	if d.IsZero() {
		return Placeholder
	}
	return f.printer.Sprintf("%v", number.Decimal(d.InexactFloat64(), number.Scale(domain.AmountPlaces)))
}
