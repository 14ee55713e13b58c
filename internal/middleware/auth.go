// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"toorrii/internal/auth"
	"toorrii/internal/backend"
	"toorrii/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// LoginPath is where unauthenticated administrators are sent.
const LoginPath = "/admin/login"

// LoadSession retrieves the session from the store and stores it in the
// request context, together with the backend credentials it carries.
// Downstream handlers can access it via SessionFromCtx(), and backend
// calls made with the request context authenticate as this session.
// This middleware does NOT enforce authentication.
func LoadSession(store session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				// Log but don't block; treat as unauthenticated.
				slog.Warn("session load failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				ctx := context.WithValue(r.Context(), SessionKey, data)
				ctx = backend.WithCredentials(ctx, data.ID, data.AccessToken)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth redirects unauthenticated users to the login page.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.StateOf(SessionFromCtx(r.Context())) != auth.Authenticated {
			Redirect(w, r, LoginPath)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RedirectIfAuthenticated sends signed-in users away from the login page.
func RedirectIfAuthenticated(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.StateOf(SessionFromCtx(r.Context())) == auth.Authenticated {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Redirect performs a full-page redirect. HTMX requests get an HX-Redirect
// header instead, since a 303 would be swapped into the target element.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// WithSession returns ctx carrying data the way LoadSession stores it.
func WithSession(ctx context.Context, data *session.Data) context.Context {
	ctx = context.WithValue(ctx, SessionKey, data)
	if data != nil {
		ctx = backend.WithCredentials(ctx, data.ID, data.AccessToken)
	}
	return ctx
}
