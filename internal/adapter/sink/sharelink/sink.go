// Package sharelink turns a statement into a messaging deep link. The client
// opens the link; nothing is sent from the server.
package sharelink

import (
	"context"
	"fmt"
	"net/url"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/statement"
)

// Name identifies this sink in receipts, logs and metrics.
const Name = "link"

// DefaultBaseURL is the WhatsApp click-to-chat endpoint.
const DefaultBaseURL = "https://wa.me/"

// Sink builds share URLs.
type Sink struct {
	base *url.URL
}

// New creates a Sink for baseURL. An empty baseURL means DefaultBaseURL.
func New(baseURL string) (*Sink, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse share base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("share base url %q must be absolute", baseURL)
	}

	return &Sink{base: u}, nil
}

// Name implements usecase.ExportSink.
func (s *Sink) Name() string { return Name }

// Deliver encodes the statement body into the text query parameter.
func (s *Sink) Deliver(_ context.Context, st *statement.Statement) (*domain.ShareReceipt, error) {
	u := *s.base
	q := u.Query()
	q.Set("text", st.Body)
	u.RawQuery = q.Encode()

	return &domain.ShareReceipt{
		Sink: Name,
		URL:  u.String(),
	}, nil
}
