// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RelayChannel is the Valkey pub/sub channel for ended sessions.
const RelayChannel = "toorrii:session-ended"

type relayMessage struct {
	Origin string       `json:"origin"`
	Event  SessionEnded `json:"event"`
}

// Relay mirrors SessionEnded events between console instances through
// Valkey pub/sub, so a logout handled by one instance reaches the tabs
// connected to another.
type Relay struct {
	client *redis.Client
	bus    Bus
	origin string
	stop   func()
}

// NewRelay forwards local SessionEnded events to Valkey. Call Run to
// receive events from other instances.
func NewRelay(client *redis.Client, bus Bus) *Relay {
	r := &Relay{client: client, bus: bus, origin: uuid.NewString()}
	r.stop = bus.Subscribe(TopicSessionEnded, r.forward)
	return r
}

func (r *Relay) forward(ctx context.Context, e Event) {
	ended, ok := e.(SessionEnded)
	if !ok || ended.Remote {
		return
	}
	payload, err := json.Marshal(relayMessage{Origin: r.origin, Event: ended})
	if err != nil {
		return
	}
	if err := r.client.Publish(context.WithoutCancel(ctx), RelayChannel, payload).Err(); err != nil {
		slog.Warn("session relay publish failed", "session", ended.SessionID, "error", err)
	}
}

// Run republishes events from other instances on the local bus until ctx
// is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, RelayChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	slog.Info("session relay listening", "channel", RelayChannel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var m relayMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				slog.Warn("session relay: bad message", "error", err)
				continue
			}
			if m.Origin == r.origin {
				continue
			}
			m.Event.Remote = true
			r.bus.Publish(ctx, m.Event)
		}
	}
}

// Close stops forwarding local events.
func (r *Relay) Close() {
	r.stop()
}
