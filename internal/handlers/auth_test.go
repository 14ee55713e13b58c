package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"toorrii/internal/events"
	"toorrii/internal/middleware"
)

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodPost, "/admin/login", url.Values{"email": {testEmail}, "password": {testPassword}}, nil, false)
	assertRedirect(t, rr, DashboardPath)

	cookie := sessionCookie(rr)
	if cookie == nil {
		t.Fatal("login should set a session cookie")
	}
	sess, _ := env.sessions.Load(context.Background(), cookie.Value)
	if sess == nil || sess.AccessToken != testToken || sess.RefreshToken != testRefresh {
		t.Fatalf("session = %+v, want the issued tokens", sess)
	}

	rr = env.do(http.MethodGet, DashboardPath, nil, cookie, false)
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status: got %d, want 200", rr.Code)
	}
	assertContains(t, rr.Body.String(), "Welcome", "You are now signed in.")
}

func TestLoginFailure(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"blank", url.Values{"email": {""}, "password": {""}}, "Email and password are required."},
		{"wrong password", url.Values{"email": {testEmail}, "password": {"nope"}}, "Invalid credentials"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(http.MethodPost, "/admin/login", tt.form, nil, false)
			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rr.Code)
			}
			assertContains(t, rr.Body.String(), tt.want)
			if sessionCookie(rr) != nil {
				t.Error("failed login must not start a session")
			}
		})
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(testToken)

	rr := env.do(http.MethodPost, "/admin/logout", nil, cookie, false)
	assertRedirect(t, rr, "/admin/login")

	if env.api.logouts != 1 {
		t.Errorf("backend logout calls: got %d, want 1", env.api.logouts)
	}
	if old, _ := env.sessions.Load(context.Background(), cookie.Value); old != nil {
		t.Error("old session should be destroyed")
	}

	fresh := sessionCookie(rr)
	if fresh == nil {
		t.Fatal("logout should leave an anonymous session for the flash")
	}
	rr = env.do(http.MethodGet, "/admin/login", nil, fresh, false)
	assertContains(t, rr.Body.String(), "Logged Out")

	rr = env.do(http.MethodGet, DashboardPath, nil, fresh, false)
	assertRedirect(t, rr, "/admin/login")
}

func TestExpiredTokenSignsOutOnce(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		form   url.Values
	}{
		{"dashboard fan-out", http.MethodGet, DashboardPath, nil},
		{"partner list", http.MethodGet, "/admin/partners", nil},
		{"partner delete", http.MethodDelete, "/admin/partners/1", nil},
		{"terms update", http.MethodPost, "/admin/terms/1", url.Values{"inline": {"1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			cookie := env.signIn("stale-token")

			rr := env.do(tt.method, tt.target, tt.form, cookie, false)
			assertRedirect(t, rr, "/admin/login")

			sess, _ := env.sessions.Load(context.Background(), cookie.Value)
			if sess == nil || sess.AccessToken != "" {
				t.Fatalf("session = %+v, want tokens cleared", sess)
			}

			rr = env.do(http.MethodGet, "/admin/login", nil, cookie, false)
			body := rr.Body.String()
			if n := strings.Count(body, "Session Expired"); n != 1 {
				t.Errorf("Session Expired flashes: got %d, want 1", n)
			}
		})
	}
}

func TestSessionEventsUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodGet, "/admin/session/events", nil, nil, false)
	if ct := rr.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type: got %q", ct)
	}
	assertContains(t, rr.Body.String(), "event: session-ended\ndata: expired")
}

func TestSessionEventsEndedElsewhere(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(testToken)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/admin/session/events", nil)
	req.AddCookie(cookie)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	lines := bufio.NewScanner(resp.Body)
	if !lines.Scan() || lines.Text() != ": connected" {
		t.Fatalf("first line: got %q, want the connected comment", lines.Text())
	}

	// The subscription is live once the comment is flushed.
	env.bus.Publish(ctx, events.SessionEnded{SessionID: "someone-else", Reason: events.ReasonLogout})
	env.bus.Publish(ctx, events.SessionEnded{SessionID: cookie.Value, Reason: events.ReasonLogout})

	var got []string
	for lines.Scan() {
		if l := lines.Text(); l != "" {
			got = append(got, l)
		}
	}
	want := []string{"event: session-ended", "data: " + events.ReasonLogout}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("stream: got %q, want %q", got, want)
	}
}

func TestSessionEventsEndedBeforeSubscribe(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(testToken)

	// Tokens are cleared after the session was loaded for the request.
	clearFirst := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := env.sessions.ClearTokens(r.Context(), cookie.Value); err != nil {
				t.Fatalf("ClearTokens: %v", err)
			}
			next.ServeHTTP(w, r)
		})
	}
	h := middleware.LoadSession(env.sessions)(clearFirst(http.HandlerFunc(env.auth.SessionEvents)))

	req := httptest.NewRequest(http.MethodGet, "/admin/session/events", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	body := rr.Body.String()
	assertContains(t, body, "event: session-ended\ndata: "+events.ReasonExpired)
	if strings.Contains(body, ": connected") {
		t.Error("stream should end without connecting")
	}
}
