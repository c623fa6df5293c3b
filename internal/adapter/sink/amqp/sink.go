package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/statement"
	"github.com/iho/cashbook/internal/usecase"
)

// Name identifies this sink in receipts, logs and metrics.
const Name = "amqp"

const publishTimeout = 5 * time.Second

// StatementMessage is the JSON payload published for each shared statement.
type StatementMessage struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Format      string    `json:"format"`
	ContentType string    `json:"content_type"`
	Filename    string    `json:"filename"`
	Body        string    `json:"body"`
	Entries     int       `json:"entries"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Sink publishes statements to an exchange.
type Sink struct {
	pub        Publisher
	idGen      usecase.IDGenerator
	exchange   string
	routingKey string
}

// New creates a Sink.
func New(pub Publisher, idGen usecase.IDGenerator, exchange, routingKey string) *Sink {
	return &Sink{
		pub:        pub,
		idGen:      idGen,
		exchange:   exchange,
		routingKey: routingKey,
	}
}

// Name implements usecase.ExportSink.
func (s *Sink) Name() string { return Name }

// Deliver publishes the statement as a persistent JSON message.
func (s *Sink) Deliver(ctx context.Context, st *statement.Statement) (*domain.ShareReceipt, error) {
	msg := StatementMessage{
		ID:          s.idGen.Generate(),
		Title:       st.Title,
		Format:      string(st.Target),
		ContentType: st.ContentType,
		Filename:    st.Filename,
		Body:        st.Body,
		Entries:     st.Entries,
		GeneratedAt: st.GeneratedAt,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = s.pub.PublishWithContext(
		ctx,
		s.exchange,   // exchange
		s.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msg.ID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("publish message: %w", err)
	}

	return &domain.ShareReceipt{
		Sink:  Name,
		Token: msg.ID,
	}, nil
}
