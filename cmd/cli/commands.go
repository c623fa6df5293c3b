package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	apimiddleware "github.com/iho/cashbook/internal/adapter/http/middleware"
	"github.com/iho/cashbook/internal/domain"
)

type filterFlags struct {
	query string
	from  string
	to    string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "Case-insensitive particulars filter")
	cmd.Flags().StringVar(&f.from, "from", "", "Earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "Latest date (YYYY-MM-DD)")
}

func (f *filterFlags) values() url.Values {
	v := url.Values{}
	if f.query != "" {
		v.Set("q", f.query)
	}
	if f.from != "" {
		v.Set("from", f.from)
	}
	if f.to != "" {
		v.Set("to", f.to)
	}
	return v
}

type entryFlags struct {
	date           string
	particulars    string
	debitCountry   string
	debit          string
	creditCountry  string
	credit         string
	idempotencyKey string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Entry date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&f.particulars, "particulars", "p", "", "Description")
	cmd.Flags().StringVar(&f.debitCountry, "debit-country", "", "Debit country amount")
	cmd.Flags().StringVar(&f.debit, "debit", "", "Debit amount")
	cmd.Flags().StringVar(&f.creditCountry, "credit-country", "", "Credit country amount")
	cmd.Flags().StringVar(&f.credit, "credit", "", "Credit amount")
	cmd.Flags().StringVar(&f.idempotencyKey, "idempotency-key", "", "Idempotency-Key header")
}

// apply overwrites fields of req whose flags were set.
func (f *entryFlags) apply(cmd *cobra.Command, req *dto.EntryRequest) {
	changed := cmd.Flags().Changed
	if changed("date") {
		req.Date = f.date
	}
	if changed("particulars") {
		req.Particulars = f.particulars
	}
	if changed("debit-country") {
		req.DebitCountry = dto.Amount{Decimal: domain.CoerceAmount(f.debitCountry)}
	}
	if changed("debit") {
		req.Debit = dto.Amount{Decimal: domain.CoerceAmount(f.debit)}
	}
	if changed("credit-country") {
		req.CreditCountry = dto.Amount{Decimal: domain.CoerceAmount(f.creditCountry)}
	}
	if changed("credit") {
		req.Credit = dto.Amount{Decimal: domain.CoerceAmount(f.credit)}
	}
}

func (f *entryFlags) headers() map[string]string {
	return map[string]string{apimiddleware.IdempotencyKeyHeader: f.idempotencyKey}
}

func entriesCmd(c *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Entry operations",
	}

	cmd.AddCommand(entriesListCmd(c), entriesAddCmd(c), entriesEditCmd(c), entriesDeleteCmd(c))

	return cmd
}

func entriesListCmd(c *apiClient) *cobra.Command {
	var filter filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries with running balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListEntriesResponse
			body, err := c.getJSON(cmd.Context(), "/api/v1/entries", filter.values(), &resp)
			if err != nil {
				return err
			}
			if c.rawJSON {
				return printRaw(cmd.OutOrStdout(), body)
			}
			printEntries(cmd.OutOrStdout(), resp.Entries)
			return nil
		},
	}
	filter.register(cmd)

	return cmd
}

func entriesAddCmd(c *apiClient) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req dto.EntryRequest
			flags.apply(cmd, &req)

			body, _, err := c.do(cmd.Context(), http.MethodPost, "/api/v1/entries", nil, &req, flags.headers())
			if err != nil {
				return err
			}
			return printEntryResult(cmd.OutOrStdout(), c, body, "created")
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("particulars")

	return cmd
}

func entriesEditCmd(c *apiClient) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an entry; unset flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/entries/" + url.PathEscape(args[0])

			var current dto.EntryResponse
			if _, err := c.getJSON(cmd.Context(), path, nil, &current); err != nil {
				return err
			}

			req := dto.EntryRequest{
				Date:          current.Date.String(),
				Particulars:   current.Particulars,
				DebitCountry:  dto.Amount{Decimal: current.DebitCountry},
				Debit:         dto.Amount{Decimal: current.Debit},
				CreditCountry: dto.Amount{Decimal: current.CreditCountry},
				Credit:        dto.Amount{Decimal: current.Credit},
			}
			flags.apply(cmd, &req)

			body, _, err := c.do(cmd.Context(), http.MethodPut, path, nil, &req, flags.headers())
			if err != nil {
				return err
			}
			return printEntryResult(cmd.OutOrStdout(), c, body, "updated")
		},
	}
	flags.register(cmd)

	return cmd
}

func entriesDeleteCmd(c *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := c.do(cmd.Context(), http.MethodDelete, "/api/v1/entries/"+url.PathEscape(args[0]), nil, nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Entry %s deleted\n", args[0])
			return nil
		},
	}
}

func statementCmd(c *apiClient) *cobra.Command {
	var (
		filter filterFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Render a statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := filter.values()
			q.Set("format", format)

			body, _, err := c.do(cmd.Context(), http.MethodGet, "/api/v1/statement", q, nil, nil)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("write statement: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Statement written to %s\n", output)
			return nil
		},
	}
	filter.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format (csv, text)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	cmd.AddCommand(statementShareCmd(c))

	return cmd
}

func statementShareCmd(c *apiClient) *cobra.Command {
	var (
		filter filterFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share a statement through the server's export sink",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.ShareStatementRequest{
				Format: format,
				Query:  filter.query,
				From:   filter.from,
				To:     filter.to,
			}

			body, _, err := c.do(cmd.Context(), http.MethodPost, "/api/v1/statement/share", nil, &req, nil)
			if err != nil {
				return err
			}
			if c.rawJSON {
				return printRaw(cmd.OutOrStdout(), body)
			}

			var receipt dto.ShareReceiptResponse
			if err := decode(body, &receipt); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Shared via %s\n", receipt.Sink)
			if receipt.URL != "" {
				fmt.Fprintf(out, "URL: %s\n", receipt.URL)
			}
			if receipt.Token != "" {
				fmt.Fprintf(out, "Token: %s\n", receipt.Token)
			}
			if receipt.ExpiresAt != nil {
				fmt.Fprintf(out, "Expires: %s\n", receipt.ExpiresAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	filter.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Statement format (csv, text)")

	return cmd
}

func ledgerCmd(c *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	var filter filterFlags

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show ledger totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.SummaryResponse
			body, err := c.getJSON(cmd.Context(), "/api/v1/ledger/summary", filter.values(), &resp)
			if err != nil {
				return err
			}
			if c.rawJSON {
				return printRaw(cmd.OutOrStdout(), body)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Entries\t%d\n", resp.Count)
			fmt.Fprintf(tw, "Debit Country\t%s\n", amount(resp.TotalDebitCountry))
			fmt.Fprintf(tw, "Debit\t%s\n", amount(resp.TotalDebit))
			fmt.Fprintf(tw, "Credit Country\t%s\n", amount(resp.TotalCreditCountry))
			fmt.Fprintf(tw, "Credit\t%s\n", amount(resp.TotalCredit))
			fmt.Fprintf(tw, "Closing Balance\t%s\n", amount(resp.ClosingBalance))
			return tw.Flush()
		},
	}
	filter.register(summaryCmd)

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ReconciliationResponse
			body, err := c.getJSON(cmd.Context(), "/api/v1/ledger/consistency", nil, &report)
			if err != nil {
				return err
			}
			if c.rawJSON {
				if err := printRaw(cmd.OutOrStdout(), body); err != nil {
					return err
				}
			} else {
				printReconciliation(cmd.OutOrStdout(), &report)
			}

			if !report.Consistent {
				return errLedgerInconsistent
			}
			return nil
		},
	}

	cmd.AddCommand(summaryCmd, consistencyCmd)

	return cmd
}

var errLedgerInconsistent = errors.New("ledger consistency check failed")

func printReconciliation(w io.Writer, r *dto.ReconciliationResponse) {
	if r.Consistent {
		fmt.Fprintln(w, "Consistency check PASSED")
	} else {
		fmt.Fprintln(w, "Consistency check FAILED")
	}
	fmt.Fprintf(w, "Entries: %d\n", r.TotalEntries)
	fmt.Fprintf(w, "Closing balance: %s (expected %s)\n", r.ClosingBalance.StringFixed(2), r.ExpectedBalance.StringFixed(2))
	for _, d := range r.Discrepancies {
		if d.EntryID != "" {
			fmt.Fprintf(w, "  %s: %s\n", d.EntryID, d.Reason)
		} else {
			fmt.Fprintf(w, "  %s\n", d.Reason)
		}
	}
}

func printEntryResult(w io.Writer, c *apiClient, body []byte, verb string) error {
	if c.rawJSON {
		return printRaw(w, body)
	}

	var entry dto.EntryResponse
	if err := decode(body, &entry); err != nil {
		return err
	}
	fmt.Fprintf(w, "Entry %s %s\n", entry.ID, verb)
	return nil
}

func printEntries(w io.Writer, entries []*dto.EntryResponse) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ID\tDate\tParticulars\tDebit Country\tDebit\tCredit Country\tCredit\tBalance\t")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			e.ID,
			e.Date,
			truncate(e.Particulars, 32),
			amount(e.DebitCountry),
			amount(e.Debit),
			amount(e.CreditCountry),
			amount(e.Credit),
			e.Balance.StringFixed(2),
		)
	}
	_ = tw.Flush()
}

func printRaw(w io.Writer, body []byte) error {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		_, err = w.Write(body)
		return err
	}
	return printJSON(w, v)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func amount(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	return d.StringFixed(2)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
