package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/statement"
)

// StatementStore keeps rendered statements for a limited time.
type StatementStore struct {
	client redis.UniversalClient
	prefix string
}

// NewStatementStore creates a new StatementStore.
func NewStatementStore(client redis.UniversalClient) *StatementStore {
	return &StatementStore{
		client: client,
		prefix: "cashbook:statement:",
	}
}

type storedStatement struct {
	GeneratedAt time.Time `json:"generated_at"`
	Target      string    `json:"target"`
	Title       string    `json:"title"`
	ContentType string    `json:"content_type"`
	Filename    string    `json:"filename"`
	Body        string    `json:"body"`
	Entries     int       `json:"entries"`
}

// Save stores st under token with TTL.
func (s *StatementStore) Save(ctx context.Context, token string, st *statement.Statement, ttl time.Duration) error {
	payload, err := json.Marshal(storedStatement{
		GeneratedAt: st.GeneratedAt,
		Target:      string(st.Target),
		Title:       st.Title,
		ContentType: st.ContentType,
		Filename:    st.Filename,
		Body:        st.Body,
		Entries:     st.Entries,
	})
	if err != nil {
		return fmt.Errorf("encode statement: %w", err)
	}

	return s.client.Set(ctx, s.prefix+token, payload, ttl).Err()
}

// Load returns the statement stored under token, or domain.ErrShareNotFound.
func (s *StatementStore) Load(ctx context.Context, token string) (*statement.Statement, error) {
	raw, err := s.client.Get(ctx, s.prefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrShareNotFound
	}
	if err != nil {
		return nil, err
	}

	var stored storedStatement
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode statement %s: %w", token, err)
	}

	return &statement.Statement{
		GeneratedAt: stored.GeneratedAt,
		Target:      statement.Target(stored.Target),
		Title:       stored.Title,
		ContentType: stored.ContentType,
		Filename:    stored.Filename,
		Body:        stored.Body,
		Entries:     stored.Entries,
	}, nil
}
