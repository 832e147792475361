// Package events publishes domain events to NATS after successful writes.
package events

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SubjectMovieRated     = "moviehub.movie.rated"
	SubjectReviewUpserted = "moviehub.review.upserted"
	SubjectWishlistAdded  = "moviehub.wishlist.added"
	SubjectAuthRegistered = "moviehub.auth.registered"
	SubjectCatalogSynced  = "moviehub.catalog.synced"
)

// Event is the envelope sent on every subject.
type Event struct {
	EventID    string         `json:"event_id"`
	EventName  string         `json:"event_name"`
	UserID     string         `json:"user_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Fanout publishes to every Conn in order and joins their errors.
type Fanout []Conn

func (f Fanout) Publish(subject string, data []byte) error {
	var errs []error
	for _, c := range f {
		if err := c.Publish(subject, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Publisher is fire-and-forget: failures are logged, never returned.
// A nil *Publisher, or one built with a nil Conn, does nothing.
type Publisher struct {
	conn Conn
	log  *zap.Logger
}

func NewPublisher(conn Conn, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{conn: conn, log: log}
}

func (p *Publisher) Publish(subject, eventName, userID string, props map[string]any) {
	if p == nil || p.conn == nil {
		return
	}
	ev := Event{
		EventID:    uuid.NewString(),
		EventName:  eventName,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Properties: props,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("events: marshal failed", zap.String("event", eventName), zap.Error(err))
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Warn("events: publish failed", zap.String("subject", subject), zap.Error(err))
	}
}
