package domain

import "github.com/shopspring/decimal"

// ComputeBalances annotates a date-ordered entry sequence with its running
// balance, seeded at zero. The input order is trusted and never re-sorted;
// entries are copied, so callers' values are left untouched.
//
// Nil slots are not entries: they are dropped and contribute nothing, so the
// result can be shorter than the input. Balance of result[i] is the sum of
// credit minus debit over result[0..i].
func ComputeBalances(entries []*Entry) []*Entry {
	out := make([]*Entry, 0, len(entries))
	acc := decimal.Zero

	for _, e := range entries {
		if e == nil {
			continue
		}
		c := e.Clone()
		acc = acc.Add(c.Net())
		c.Balance = acc
		out = append(out, c)
	}

	return out
}
