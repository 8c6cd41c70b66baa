package nats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"

	"github.com/icyphotoget/perfume/internal/core/ports"
	"github.com/icyphotoget/perfume/internal/infrastructure/resilience"
)

// CatalogEvent is the payload published on the catalog subject.
type CatalogEvent struct {
	ID     string    `json:"id"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

const flushTimeout = 2 * time.Second

var _ ports.CatalogEventPublisher = (*Publisher)(nil)

type Publisher struct {
	conn     *nats.Conn
	subject  string
	executor *resilience.Executor
}

func NewPublisher(conn *nats.Conn, subject string, executor *resilience.Executor) *Publisher {
	if strings.TrimSpace(subject) == "" {
		subject = DefaultSubject
	}
	return &Publisher{conn: conn, subject: subject, executor: executor}
}

func (p *Publisher) PublishCatalogUpdated(ctx context.Context, reason string) error {
	event := CatalogEvent{
		ID:     ulid.Make().String(),
		Reason: strings.TrimSpace(reason),
		At:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal catalog event: %w", err)
	}

	call := func(_ context.Context) error {
		if err := p.conn.Publish(p.subject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		// Flush so short-lived publishers do not exit before the message leaves.
		if err := p.conn.FlushTimeout(flushTimeout); err != nil {
			return fmt.Errorf("nats flush: %w", err)
		}
		return nil
	}

	if p.executor != nil {
		err = p.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}
