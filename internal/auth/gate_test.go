// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"toorrii/internal/backend"
	"toorrii/internal/events"
	"toorrii/internal/session"
)

func TestStateOf(t *testing.T) {
	tests := []struct {
		name string
		data *session.Data
		want State
	}{
		{"no session", nil, Unauthenticated},
		{"anonymous session", &session.Data{ID: "x"}, Unauthenticated},
		{"refresh only", &session.Data{RefreshToken: "r"}, Unauthenticated},
		{"token present", &session.Data{AccessToken: "a"}, Authenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOf(tt.data); got != tt.want {
				t.Errorf("StateOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func seedSession(store *session.MemoryStore, id string) {
	store.Put(session.Data{ID: id, AccessToken: "acc", RefreshToken: "ref", Email: "admin@toorrii.dz"})
}

func TestConcurrentAuthFailuresFlashOnce(t *testing.T) {
	store := session.NewMemoryStore()
	seedSession(store, "s1")
	bus := events.NewLocal()
	gate := NewGate(store, bus, nil)
	defer gate.Close()

	var ended []events.SessionEnded
	var mu sync.Mutex
	bus.Subscribe(events.TopicSessionEnded, func(_ context.Context, e events.Event) {
		mu.Lock()
		ended = append(ended, e.(events.SessionEnded))
		mu.Unlock()
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	svc := backend.NewServices(backend.New(srv.URL, bus))
	ctx := backend.WithCredentials(context.Background(), "s1", "acc")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Partners.List(ctx); !errors.Is(err, backend.ErrUnauthorized) {
				t.Errorf("err = %v, want ErrUnauthorized", err)
			}
		}()
	}
	wg.Wait()

	flashes, _ := store.PopFlashes(context.Background(), "s1")
	if len(flashes) != 1 || flashes[0].Title != "Session Expired" {
		t.Errorf("flashes = %+v, want one Session Expired", flashes)
	}
	if len(ended) != 1 || ended[0].Reason != events.ReasonExpired {
		t.Errorf("SessionEnded events = %+v, want one", ended)
	}

	data, _ := store.Load(context.Background(), "s1")
	if StateOf(data) != Unauthenticated {
		t.Errorf("session still authenticated: %+v", data)
	}
}

func TestAuthExpiredWithoutSessionIsIgnored(t *testing.T) {
	store := session.NewMemoryStore()
	bus := events.NewLocal()
	gate := NewGate(store, bus, nil)
	defer gate.Close()

	bus.Publish(context.Background(), events.AuthExpired{})
	if flashes, _ := store.PopFlashes(context.Background(), ""); len(flashes) != 0 {
		t.Errorf("flashes = %+v", flashes)
	}
}

type fakeRevoker struct {
	err     error
	calls   int
	refresh string
}

func (f *fakeRevoker) Logout(_ context.Context, refresh string) error {
	f.calls++
	f.refresh = refresh
	return f.err
}

func TestLogout(t *testing.T) {
	for _, revokeErr := range []error{nil, errors.New("blacklist not configured")} {
		name := "backend ok"
		if revokeErr != nil {
			name = "backend fails"
		}
		t.Run(name, func(t *testing.T) {
			store := session.NewMemoryStore()
			seedSession(store, "s1")
			bus := events.NewLocal()
			rev := &fakeRevoker{err: revokeErr}
			gate := NewGate(store, bus, rev)
			defer gate.Close()

			var ended int
			bus.Subscribe(events.TopicSessionEnded, func(context.Context, events.Event) { ended++ })

			req := httptest.NewRequest("POST", "/admin/logout", nil)
			req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "s1"})
			w := httptest.NewRecorder()
			sess, _ := store.Load(context.Background(), "s1")

			gate.Logout(context.Background(), w, req, sess)

			if rev.calls != 1 || rev.refresh != "ref" {
				t.Errorf("revoker calls=%d refresh=%q", rev.calls, rev.refresh)
			}
			if old, _ := store.Load(context.Background(), "s1"); old != nil {
				t.Errorf("old session survived: %+v", old)
			}
			if ended != 1 {
				t.Errorf("SessionEnded published %d times", ended)
			}

			var newID string
			for _, c := range w.Result().Cookies() {
				if c.Name == session.CookieName && c.Value != "" {
					newID = c.Value
				}
			}
			if newID == "" {
				t.Fatal("no fresh session cookie set")
			}
			flashes, _ := store.PopFlashes(context.Background(), newID)
			if len(flashes) != 1 || flashes[0].Title != "Logged Out" {
				t.Errorf("flashes = %+v", flashes)
			}
		})
	}
}

func TestParseIdentity(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "admin@toorrii.dz",
		"sub":   "42",
		"exp":   exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("any-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	id, ok := ParseIdentity(signed)
	if !ok {
		t.Fatal("ParseIdentity: not ok")
	}
	if id.Email != "admin@toorrii.dz" || id.Subject != "42" || !id.ExpiresAt.Equal(exp) {
		t.Errorf("identity = %+v", id)
	}
	if id.Expired(time.Now()) {
		t.Error("token should not be expired yet")
	}
	if !id.Expired(exp.Add(time.Minute)) {
		t.Error("token should be expired after exp")
	}

	if _, ok := ParseIdentity("opaque-token"); ok {
		t.Error("opaque token should not parse")
	}
	if _, ok := ParseIdentity(""); ok {
		t.Error("empty token should not parse")
	}
}
