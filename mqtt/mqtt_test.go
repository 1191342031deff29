package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lusionbeatz-backend/events"
)

func TestPublishWithoutConnection(t *testing.T) {
	Disconnect()
	assert.ErrorIs(t, Publish("x", "on"), ErrNotConnected)
	assert.ErrorIs(t, Sink{}.Publish(events.Event{Kind: events.OrderCreated}), ErrNotConnected)
}

func TestEncode(t *testing.T) {
	b, err := encode("raw")
	require.NoError(t, err)
	assert.Equal(t, "raw", string(b))

	b, err = encode(map[string]int{"n": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(b))
}
