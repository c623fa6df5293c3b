package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/statement"
)

func TestStatementStore_SaveLoad(t *testing.T) {
	store, mr := newTestStatementStore(t)
	ctx := context.Background()

	st := &statement.Statement{
		GeneratedAt: time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC),
		Target:      statement.TargetText,
		Title:       "Ledger Statement",
		ContentType: "text/plain; charset=utf-8",
		Body:        "Ledger Statement\nDate: 01/01/2024 | Particulars: Alice",
		Entries:     1,
	}

	if err := store.Save(ctx, "tok", st, time.Hour); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if ttl := mr.TTL(store.prefix + "tok"); ttl != time.Hour {
		t.Fatalf("expected 1h TTL, got %v", ttl)
	}

	got, err := store.Load(ctx, "tok")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Body != st.Body || got.Target != statement.TargetText || !got.GeneratedAt.Equal(st.GeneratedAt) {
		t.Fatalf("unexpected statement %+v", got)
	}
}

func TestStatementStore_Missing(t *testing.T) {
	store, _ := newTestStatementStore(t)

	if _, err := store.Load(context.Background(), "nope"); !errors.Is(err, domain.ErrShareNotFound) {
		t.Fatalf("expected ErrShareNotFound, got %v", err)
	}
}
