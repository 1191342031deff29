// mqtt.go - MQTT client used to publish marketplace events to downstream
// services (payout bookkeeping, fulfilment)

package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lusionbeatz-backend/events"
)

// TopicPrefix is prepended to the event kind, e.g. lusionbeatz/events/order.created.
const TopicPrefix = "lusionbeatz/events/"

var ErrNotConnected = errors.New("mqtt: not connected")

var (
	mu     sync.RWMutex
	client paho.Client
)

// Connect dials the broker and keeps the client for Publish.
func Connect(broker string) error {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("lusionbeatz-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			zap.L().Warn("mqtt connection lost", zap.Error(err))
		})

	c := paho.NewClient(opts)
	tok := c.Connect()
	if !tok.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqtt: connect to %s timed out", broker)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt: connect to %s: %w", broker, err)
	}

	mu.Lock()
	client = c
	mu.Unlock()
	zap.L().Info("mqtt connected", zap.String("broker", broker))
	return nil
}

func Disconnect() {
	mu.Lock()
	defer mu.Unlock()
	if client != nil {
		client.Disconnect(250)
		client = nil
	}
}

// Publish sends payload at QoS 1. Strings and byte slices go out as-is,
// anything else is JSON encoded.
func Publish(topic string, payload interface{}) error {
	mu.RLock()
	c := client
	mu.RUnlock()
	if c == nil || !c.IsConnectionOpen() {
		return ErrNotConnected
	}

	body, err := encode(payload)
	if err != nil {
		return err
	}
	tok := c.Publish(topic, 1, false, body)
	if !tok.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("mqtt: publish to %s timed out", topic)
	}
	return tok.Error()
}

func encode(payload interface{}) ([]byte, error) {
	switch p := payload.(type) {
	case string:
		return []byte(p), nil
	case []byte:
		return p, nil
	default:
		return json.Marshal(p)
	}
}

// Sink forwards marketplace events to the broker.
type Sink struct{}

func (Sink) Publish(ev events.Event) error {
	return Publish(TopicPrefix+ev.Kind, ev)
}
