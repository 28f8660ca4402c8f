// Package events carries loyalty notifications (level-ups, faucet claims, XP
// changes) from the services to the websocket hub and external sinks.
package events

import (
	"context"
	"errors"
	"time"
)

// Event types
const (
	TypeLevelUp        = "level.up"
	TypeFaucetClaimed  = "faucet.claimed"
	TypeXPChanged      = "xp.changed"
	TypeCatalogChanged = "catalog.changed"
)

type Event struct {
	Type     string                 `json:"type"`
	PlayerID int64                  `json:"player_id,omitempty"`
	Payload  map[string]interface{} `json:"payload,omitempty"`
	At       time.Time              `json:"at"`
}

// New builds an event stamped with the current time
func New(typ string, playerID int64, payload map[string]interface{}) Event {
	return Event{Type: typ, PlayerID: playerID, Payload: payload, At: time.Now().UTC()}
}

// Publisher delivers events; delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

type noop struct{}

func NewNoop() Publisher { return noop{} }

func (noop) Publish(context.Context, Event) error { return nil }
func (noop) Close() error                         { return nil }

// Multi fans an event out to every publisher and joins their errors
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Func delivers events in-process, e.g. straight to the websocket hub when there is no redis
type Func func(Event)

func (f Func) Publish(_ context.Context, evt Event) error {
	f(evt)
	return nil
}

func (Func) Close() error { return nil }

// Recorder keeps published events in a bounded buffer, for tests and local runs.
// Events published while the buffer is full are dropped.
type Recorder struct {
	ch chan Event
}

func NewRecorder(buffer int) *Recorder {
	return &Recorder{ch: make(chan Event, buffer)}
}

func (r *Recorder) Publish(ctx context.Context, evt Event) error {
	select {
	case r.ch <- evt:
	default:
	}
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events exposes the recorded stream
func (r *Recorder) Events() <-chan Event { return r.ch }
