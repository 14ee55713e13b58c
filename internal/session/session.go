// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides Valkey-backed HTTP session management.
// Sessions are identified by a secure cookie and stored as a Valkey hash
// holding the administrator's backend tokens, with a companion list of
// pending flash messages. Both expire with the session TTL.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "toorrii_session"

	// DefaultTTL is how long a session lives in Valkey before automatic expiry.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "session:"

	// flashSuffix names the list holding a session's pending flashes.
	flashSuffix = ":flash"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Hash fields of a session record.
const (
	fieldAccess    = "access_token"
	fieldRefresh   = "refresh_token"
	fieldEmail     = "email"
	fieldCreatedAt = "created_at"
)

// Data is a session record. A session without an access token belongs to
// a visitor who is not signed in; it still carries flashes.
type Data struct {
	ID           string
	AccessToken  string
	RefreshToken string
	Email        string
	CreatedAt    time.Time
}

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Type    string `json:"type"` // "success", "error", "info"
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// Manager is the session API the HTTP layer depends on.
type Manager interface {
	Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error)
	Get(ctx context.Context, r *http.Request) (*Data, error)
	Load(ctx context.Context, id string) (*Data, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	ClearTokens(ctx context.Context, id string) (bool, error)
	PushFlash(ctx context.Context, id string, f Flash) error
	PopFlashes(ctx context.Context, id string) ([]Flash, error)
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store backed by the given Valkey client.
// secure marks the cookie Secure; enable it whenever the console is
// served over TLS.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

func key(id string) string      { return keyPrefix + id }
func flashKey(id string) string { return keyPrefix + id + flashSuffix }

// Create generates a new session, stores it in Valkey, and sets the
// session cookie on the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.ID = id
	data.CreatedAt = time.Now()

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key(id), map[string]any{
			fieldAccess:    data.AccessToken,
			fieldRefresh:   data.RefreshToken,
			fieldEmail:     data.Email,
			fieldCreatedAt: data.CreatedAt.UTC().Format(time.RFC3339),
		})
		if data.AccessToken == "" {
			p.HDel(ctx, key(id), fieldAccess, fieldRefresh)
		}
		p.Expire(ctx, key(id), s.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	setCookie(w, id, int(s.ttl.Seconds()), s.secure)
	return id, nil
}

// Get retrieves session data from Valkey using the session ID from the
// request cookie. Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil // No cookie = no session (not an error)
	}
	return s.Load(ctx, cookie.Value)
}

// Load retrieves a session by ID. Returns nil if it does not exist.
func (s *Store) Load(ctx context.Context, id string) (*Data, error) {
	if id == "" {
		return nil, nil
	}
	fields, err := s.client.HGetAll(ctx, key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil // Session expired or doesn't exist
	}

	data := &Data{
		ID:           id,
		AccessToken:  fields[fieldAccess],
		RefreshToken: fields[fieldRefresh],
		Email:        fields[fieldEmail],
	}
	if t, err := time.Parse(time.RFC3339, fields[fieldCreatedAt]); err == nil {
		data.CreatedAt = t
	}
	return data, nil
}

// ClearTokens removes the tokens from a session, keeping the record so
// pending flashes still reach the browser. It reports whether this call
// removed them; concurrent callers see true exactly once.
func (s *Store) ClearTokens(ctx context.Context, id string) (bool, error) {
	n, err := s.client.HDel(ctx, key(id), fieldAccess, fieldRefresh).Result()
	if err != nil {
		return false, fmt.Errorf("session clear tokens: %w", err)
	}
	return n > 0, nil
}

// Destroy removes the session from Valkey and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil // No cookie, nothing to destroy
	}

	if err := s.client.Del(ctx, key(cookie.Value), flashKey(cookie.Value)).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	// Expire the cookie immediately.
	setCookie(w, "", -1, s.secure)
	return nil
}

// PushFlash queues f for the next page rendered for session id.
func (s *Store) PushFlash(ctx context.Context, id string, f Flash) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("flash marshal: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, flashKey(id), payload)
		p.Expire(ctx, flashKey(id), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("flash push: %w", err)
	}
	return nil
}

// PopFlashes returns and removes the pending flashes of session id.
func (s *Store) PopFlashes(ctx context.Context, id string) ([]Flash, error) {
	var items *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		items = p.LRange(ctx, flashKey(id), 0, -1)
		p.Del(ctx, flashKey(id))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("flash pop: %w", err)
	}

	var out []Flash
	for _, raw := range items.Val() {
		var f Flash
		if json.Unmarshal([]byte(raw), &f) == nil {
			out = append(out, f)
		}
	}
	return out, nil
}

func setCookie(w http.ResponseWriter, value string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
