package nats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/icyphotoget/perfume/internal/core/domain"
)

type Reloader interface {
	Reload(ctx context.Context) (domain.Catalog, error)
}

// Subscriber reloads the catalog whenever a change event arrives. Events that
// arrive while a reload is running are coalesced into one follow-up reload.
type Subscriber struct {
	conn     *nats.Conn
	subject  string
	group    string
	reloader Reloader
	pending  chan CatalogEvent
}

func NewSubscriber(conn *nats.Conn, subject, group string, reloader Reloader) *Subscriber {
	if strings.TrimSpace(subject) == "" {
		subject = DefaultSubject
	}
	return &Subscriber{
		conn:     conn,
		subject:  subject,
		group:    strings.TrimSpace(group),
		reloader: reloader,
		pending:  make(chan CatalogEvent, 1),
	}
}

func (s *Subscriber) String() string {
	return "catalog-refresher"
}

// Serve blocks until ctx is cancelled.
func (s *Subscriber) Serve(ctx context.Context) error {
	handler := func(msg *nats.Msg) {
		event := decodeEvent(msg.Data)
		select {
		case s.pending <- event:
		default:
		}
	}

	var (
		sub *nats.Subscription
		err error
	)
	if s.group != "" {
		sub, err = s.conn.QueueSubscribe(s.subject, s.group, handler)
	} else {
		sub, err = s.conn.Subscribe(s.subject, handler)
	}
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}
	if err := s.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}
	slog.Info("catalog_refresher_subscribed", "subject", s.subject, "group", s.group)

	for {
		select {
		case <-ctx.Done():
			if err := sub.Drain(); err != nil {
				return fmt.Errorf("nats drain subscription: %w", err)
			}
			if err := s.conn.FlushTimeout(5 * time.Second); err != nil && s.conn.IsConnected() {
				return fmt.Errorf("nats flush after drain: %w", err)
			}
			return ctx.Err()
		case event := <-s.pending:
			slog.InfoContext(ctx, "catalog_update_received", "event_id", event.ID, "reason", event.Reason)
			if _, err := s.reloader.Reload(ctx); err != nil {
				slog.ErrorContext(ctx, "catalog_refresh_failed", "event_id", event.ID, "error", err)
			}
		}
	}
}

// Plain-text payloads are accepted and used as the reason.
func decodeEvent(data []byte) CatalogEvent {
	var event CatalogEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return CatalogEvent{Reason: strings.TrimSpace(string(data))}
	}
	return event
}
