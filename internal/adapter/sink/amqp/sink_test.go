package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbook/internal/statement"
)

type fakePublisher struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	err      error
}

func (f *fakePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	f.exchange = exchange
	f.key = key
	f.msg = msg
	return f.err
}

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func TestDeliver_PublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	s := New(pub, fixedID("msg-1"), "cashbook.statements", "statement.shared")

	generated := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	receipt, err := s.Deliver(context.Background(), &statement.Statement{
		Target:      statement.TargetText,
		Title:       "Ledger Statement",
		Body:        "Ledger Statement\nDate: 01/01/2024",
		Entries:     1,
		GeneratedAt: generated,
	})
	require.NoError(t, err)

	assert.Equal(t, Name, receipt.Sink)
	assert.Equal(t, "msg-1", receipt.Token)
	assert.Equal(t, "cashbook.statements", pub.exchange)
	assert.Equal(t, "statement.shared", pub.key)
	assert.Equal(t, amqp091.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, "application/json", pub.msg.ContentType)

	var msg StatementMessage
	require.NoError(t, json.Unmarshal(pub.msg.Body, &msg))
	assert.Equal(t, "msg-1", msg.ID)
	assert.Equal(t, "text", msg.Format)
	assert.Equal(t, 1, msg.Entries)
	assert.True(t, msg.GeneratedAt.Equal(generated))
}

func TestDeliver_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel/connection is not open")}
	s := New(pub, fixedID("msg-1"), "x", "y")

	_, err := s.Deliver(context.Background(), &statement.Statement{Body: "x"})
	assert.ErrorContains(t, err, "publish message")
}
