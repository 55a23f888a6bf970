package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBus connects rooms across processes over Redis pub/sub, one channel
// per room. Every envelope carries the publishing process's origin id so
// subscribers can skip their own frames.
type RedisBus struct {
	rdb    *redis.Client
	origin string
	logger *zap.Logger
}

// envelope is the bus wire format wrapping a room frame.
type envelope struct {
	Origin string          `json:"origin"`
	Frame  json.RawMessage `json:"frame"`
}

// NewRedisBus creates a bus identified by origin, a unique id for this
// process.
func NewRedisBus(rdb *redis.Client, origin string, logger *zap.Logger) *RedisBus {
	return &RedisBus{rdb: rdb, origin: origin, logger: logger}
}

func busChannel(roomID string) string {
	return fmt.Sprintf("relay:%s", roomID)
}

func (b *RedisBus) Publish(roomID string, frame []byte) error {
	payload, err := json.Marshal(envelope{Origin: b.origin, Frame: frame})
	if err != nil {
		return err
	}
	return b.rdb.Publish(context.Background(), busChannel(roomID), payload).Err()
}

// Subscribe consumes the room's channel until the returned teardown
// function is called. Frames published under this bus's own origin are
// dropped; everything else is handed to deliver in arrival order.
func (b *RedisBus) Subscribe(roomID string, deliver func(frame []byte)) (func(), error) {
	pubsub := b.rdb.Subscribe(context.Background(), busChannel(roomID))

	// Wait for the subscribe confirmation before returning.
	if _, err := pubsub.Receive(context.Background()); err != nil {
		pubsub.Close()
		return nil, err
	}

	go func() {
		for msg := range pubsub.Channel() {
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.logger.Warn("dropping malformed bus envelope",
					zap.String("room", roomID), zap.Error(err))
				continue
			}
			if env.Origin == b.origin {
				continue
			}
			deliver(env.Frame)
		}
	}()

	return func() { pubsub.Close() }, nil
}
