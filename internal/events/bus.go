// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package events carries console-wide notifications between components
// that must not import each other: the backend client reports rejected
// credentials, the auth gate ends sessions, and open browser tabs learn
// that their session is gone.
package events

import (
	"context"
	"sync"
)

// Topic names a kind of event.
type Topic string

const (
	TopicAuthExpired  Topic = "auth.expired"
	TopicSessionEnded Topic = "session.ended"
)

// Event is anything published on the bus.
type Event interface {
	Topic() Topic
}

// AuthExpired is raised when the backend rejects a session's token with
// 401/403 (or, when configured, when the backend is unreachable).
type AuthExpired struct {
	SessionID string
	Status    int
}

func (AuthExpired) Topic() Topic { return TopicAuthExpired }

// SessionEnded is raised once a session's tokens have been cleared.
type SessionEnded struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`

	// Remote is set on events received from another console instance.
	Remote bool `json:"-"`
}

func (SessionEnded) Topic() Topic { return TopicSessionEnded }

// Reasons attached to SessionEnded.
const (
	ReasonExpired = "expired"
	ReasonLogout  = "logout"
)

// Handler receives published events.
type Handler func(ctx context.Context, e Event)

// Publisher is the producing side of a bus.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Subscriber is the consuming side of a bus.
type Subscriber interface {
	Subscribe(topic Topic, h Handler) (unsubscribe func())
}

// Bus publishes and subscribes.
type Bus interface {
	Publisher
	Subscriber
}

type subscription struct {
	id int
	h  Handler
}

// Local is an in-process bus. Publish runs handlers synchronously in
// subscription order on the caller's goroutine.
type Local struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Topic][]subscription
}

// NewLocal creates an empty in-process bus.
func NewLocal() *Local {
	return &Local{subs: make(map[Topic][]subscription)}
}

// Subscribe registers h for topic. The returned func removes it and is
// safe to call more than once.
func (b *Local) Subscribe(topic Topic, h Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, h: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			list := b.subs[topic]
			for i, s := range list {
				if s.id == id {
					b.subs[topic] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers e to every handler subscribed to its topic.
func (b *Local) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Topic()]))
	for _, s := range b.subs[e.Topic()] {
		handlers = append(handlers, s.h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, e)
	}
}

// Discard drops every event. Useful where no bus is wired.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, Event) {}
