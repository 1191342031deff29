// Package events fans marketplace events out to the configured sinks
// (MQTT broker, admin live feed). Delivery is best effort: a failing sink is
// logged and never fails the request that emitted the event.
package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	UserSignedUp    = "user.signed_up"
	CreatorApproved = "creator.approved"
	SampleUploaded  = "sample.uploaded"
	SampleApproved  = "sample.approved"
	SampleRejected  = "sample.rejected"
	SampleDeleted   = "sample.deleted"
	UserDeleted     = "user.deleted"
	OrderCreated    = "order.created"
)

type Event struct {
	Kind string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data"`
}

type Sink interface {
	Publish(Event) error
}

var (
	mu    sync.RWMutex
	sinks []Sink
)

func Register(s Sink) {
	mu.Lock()
	defer mu.Unlock()
	sinks = append(sinks, s)
}

// Reset drops every registered sink.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	sinks = nil
}

func Emit(kind string, data any) {
	ev := Event{Kind: kind, At: time.Now().UTC(), Data: data}

	mu.RLock()
	targets := append([]Sink(nil), sinks...)
	mu.RUnlock()

	for _, s := range targets {
		if err := s.Publish(ev); err != nil {
			zap.L().Warn("event not delivered", zap.String("kind", kind), zap.Error(err))
		}
	}
}
