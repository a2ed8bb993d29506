package channel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tradestack/trade-store/internal/model"
)

// Publisher places envelopes on the channel keyed by trade_id.
type Publisher interface {
	Publish(ctx context.Context, env model.Envelope) error
}

// Consumer drains the channel one delivery at a time. Fetch blocks until a
// message is available or the context is done. A delivery stays owned by the
// consumer until its Ack succeeds; unacknowledged messages are redelivered.
type Consumer interface {
	Fetch(ctx context.Context) (Delivery, error)
}

// Delivery is one received envelope plus its acknowledgment hook.
type Delivery struct {
	Envelope model.Envelope
	Ack      func(ctx context.Context) error
}

// EncodeEnvelope serializes an envelope for the wire.
func EncodeEnvelope(env model.Envelope) ([]byte, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}

// DecodeEnvelope deserializes a wire message.
func DecodeEnvelope(data []byte) (model.Envelope, error) {
	var env model.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return model.Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.RequestID == "" {
		return model.Envelope{}, fmt.Errorf("unmarshal envelope: missing request_id")
	}
	return env, nil
}
