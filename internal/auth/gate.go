// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth decides whether a session is signed in and ends sessions,
// either on request (logout) or when the backend rejects their token.
package auth

import (
	"context"
	"log/slog"
	"net/http"

	"toorrii/internal/events"
	"toorrii/internal/session"
)

// State is the sign-in state of a browser session.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// StateOf reports Authenticated exactly when the session holds an access
// token.
func StateOf(d *session.Data) State {
	if d != nil && d.AccessToken != "" {
		return Authenticated
	}
	return Unauthenticated
}

// Flashes raised by the gate.
var (
	FlashExpired   = session.Flash{Type: "error", Title: "Session Expired", Message: "Please sign in again."}
	FlashLoggedOut = session.Flash{Type: "success", Title: "Logged Out", Message: "You have been signed out successfully."}
)

// Revoker blacklists a refresh token on the backend.
type Revoker interface {
	Logout(ctx context.Context, refreshToken string) error
}

// Gate ends sessions. It listens for events.AuthExpired and clears the
// affected session once per failure burst.
type Gate struct {
	sessions session.Manager
	bus      events.Bus
	revoker  Revoker
	stop     func()
}

// NewGate creates a gate and subscribes it to bus.
func NewGate(sessions session.Manager, bus events.Bus, revoker Revoker) *Gate {
	g := &Gate{sessions: sessions, bus: bus, revoker: revoker}
	g.stop = bus.Subscribe(events.TopicAuthExpired, g.onAuthExpired)
	return g
}

// Close unsubscribes the gate.
func (g *Gate) Close() { g.stop() }

func (g *Gate) onAuthExpired(ctx context.Context, e events.Event) {
	ev, ok := e.(events.AuthExpired)
	if !ok || ev.SessionID == "" {
		return
	}
	g.Expire(context.WithoutCancel(ctx), ev.SessionID)
}

// Expire clears the tokens of session id. Only the call that actually
// removed them pushes the "Session Expired" flash and announces the end of
// the session, so a burst of rejected calls yields one notification.
func (g *Gate) Expire(ctx context.Context, id string) {
	cleared, err := g.sessions.ClearTokens(ctx, id)
	if err != nil {
		slog.Error("clear session tokens failed", "error", err)
		return
	}
	if !cleared {
		return
	}
	slog.Info("session expired", "session", shortID(id))
	if err := g.sessions.PushFlash(ctx, id, FlashExpired); err != nil {
		slog.Warn("push flash failed", "error", err)
	}
	g.bus.Publish(ctx, events.SessionEnded{SessionID: id, Reason: events.ReasonExpired})
}

// Logout signs the session out. The backend revocation is best effort: its
// failure is logged and never blocks the local logout. The old session is
// destroyed and a fresh anonymous one carries the "Logged Out" flash to the
// login page.
func (g *Gate) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request, sess *session.Data) {
	if sess != nil {
		if sess.AccessToken != "" && g.revoker != nil {
			if err := g.revoker.Logout(ctx, sess.RefreshToken); err != nil {
				slog.Warn("backend logout failed, proceeding with local logout", "error", err)
			}
		}
		if _, err := g.sessions.ClearTokens(ctx, sess.ID); err != nil {
			slog.Warn("clear session tokens failed", "error", err)
		}
		g.bus.Publish(ctx, events.SessionEnded{SessionID: sess.ID, Reason: events.ReasonLogout})
	}

	if err := g.sessions.Destroy(ctx, w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}

	id, err := g.sessions.Create(ctx, w, &session.Data{})
	if err != nil {
		slog.Warn("create anonymous session failed", "error", err)
		return
	}
	if err := g.sessions.PushFlash(ctx, id, FlashLoggedOut); err != nil {
		slog.Warn("push flash failed", "error", err)
	}
}

// shortID keeps session ids out of logs in full.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
