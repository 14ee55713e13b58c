// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"toorrii/internal/activity"
	"toorrii/internal/auth"
	"toorrii/internal/backend"
	"toorrii/internal/events"
	"toorrii/internal/middleware"
	"toorrii/internal/render"
	"toorrii/internal/session"
)

// DashboardPath is where a successful login lands.
const DashboardPath = "/admin/dashboard"

// heartbeatInterval keeps idle session event streams open through proxies.
const heartbeatInterval = 25 * time.Second

// Auth groups login, logout and session lifecycle handlers.
type Auth struct {
	renderer *render.Renderer
	sessions session.Manager
	api      *backend.AuthService
	gate     *auth.Gate
	bus      events.Subscriber
	activity activity.Recorder
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions session.Manager, api *backend.AuthService, gate *auth.Gate, bus events.Subscriber, rec activity.Recorder) *Auth {
	if rec == nil {
		rec = activity.Nop{}
	}
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		api:      api,
		gate:     gate,
		bus:      bus,
		activity: rec,
	}
}

// LoginPage renders the login form with any pending flash, such as
// "Session Expired" or "Logged Out".
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	a.login(w, r, "", "")
}

// LoginSubmit exchanges the credentials for backend tokens and starts a
// new signed-in session. Rejected credentials re-render the form with the
// backend's message.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		a.login(w, r, email, "Email and password are required.")
		return
	}

	resp, err := a.api.Login(ctx, email, password)
	if err != nil {
		slog.Info("login rejected", "error", err)
		a.login(w, r, email, backend.UserMessage(err))
		return
	}
	if resp.AccessToken == "" {
		slog.Warn("login response carried no access token")
		a.login(w, r, email, "Login failed. Please try again.")
		return
	}

	// The anonymous session, if any, is replaced so its id never becomes
	// a signed-in one.
	if err := a.sessions.Destroy(ctx, w, r); err != nil {
		slog.Warn("destroy anonymous session failed", "error", err)
	}
	if id, ok := auth.ParseIdentity(resp.AccessToken); ok && id.Email != "" {
		email = id.Email
	}
	sessID, err := a.sessions.Create(ctx, w, &session.Data{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Email:        email,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	welcome := "You are now signed in."
	if resp.Message != "" {
		welcome = resp.Message
	}
	if err := a.sessions.PushFlash(ctx, sessID, session.Flash{Type: "success", Title: "Welcome", Message: welcome}); err != nil {
		slog.Warn("push flash failed", "error", err)
	}

	a.activity.Record(ctx, activity.Entry{Actor: email, Action: activity.ActionLogin, Entity: activity.EntitySession})
	slog.Info("administrator signed in", "email", email)
	http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
}

// Logout revokes the refresh token on the backend, ends the session on
// every open tab and returns to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	actor := ""
	if sess != nil {
		actor = sess.Email
	}

	a.gate.Logout(r.Context(), w, r, sess)

	if actor != "" {
		a.activity.Record(r.Context(), activity.Entry{Actor: actor, Action: activity.ActionLogout, Entity: activity.EntitySession})
	}
	middleware.Redirect(w, r, middleware.LoginPath)
}

// SessionEvents streams server-sent events for the browser's session. It
// emits "session-ended" once the session is logged out or its token is
// rejected, here or on another console instance, so every open tab can
// return to the login page.
func (a *Auth) SessionEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sess := middleware.SessionFromCtx(r.Context())
	if auth.StateOf(sess) != auth.Authenticated {
		writeEvent(w, "session-ended", events.ReasonExpired)
		flusher.Flush()
		return
	}

	ended := make(chan string, 1)
	unsubscribe := a.bus.Subscribe(events.TopicSessionEnded, func(_ context.Context, e events.Event) {
		ev, ok := e.(events.SessionEnded)
		if !ok || ev.SessionID != sess.ID {
			return
		}
		select {
		case ended <- ev.Reason:
		default:
		}
	})
	defer unsubscribe()

	// The session may have ended between loading it and subscribing.
	if cur, err := a.sessions.Load(r.Context(), sess.ID); err == nil && auth.StateOf(cur) != auth.Authenticated {
		writeEvent(w, "session-ended", events.ReasonExpired)
		flusher.Flush()
		return
	}

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case reason := <-ended:
			writeEvent(w, "session-ended", reason)
			flusher.Flush()
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}

// login renders the login form, draining the session's flashes.
func (a *Auth) login(w http.ResponseWriter, r *http.Request, email, errMsg string) {
	var flashes []session.Flash
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		var err error
		flashes, err = a.sessions.PopFlashes(r.Context(), sess.ID)
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("pop flashes failed", "error", err)
		}
	}
	a.renderer.Page(w, r, "login", &render.PageData{
		Title:   "Sign In",
		Flashes: flashes,
		Data: map[string]any{
			"Email": email,
			"Error": errMsg,
		},
	})
}
