// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// MemoryStore is an in-process Manager with the same semantics as Store.
// Sessions never expire. It serves tests and single-instance development.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Data
	flashes  map[string][]Flash
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Data),
		flashes:  make(map[string][]Flash),
	}
}

func (m *MemoryStore) Create(_ context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", err
	}
	data.ID = id
	data.CreatedAt = time.Now()

	m.mu.Lock()
	m.sessions[id] = *data
	m.mu.Unlock()

	setCookie(w, id, int(DefaultTTL.Seconds()), false)
	return id, nil
}

func (m *MemoryStore) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}
	return m.Load(ctx, cookie.Value)
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *MemoryStore) Destroy(_ context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}
	m.mu.Lock()
	delete(m.sessions, cookie.Value)
	delete(m.flashes, cookie.Value)
	m.mu.Unlock()
	setCookie(w, "", -1, false)
	return nil
}

func (m *MemoryStore) ClearTokens(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.sessions[id]
	if !ok || (d.AccessToken == "" && d.RefreshToken == "") {
		return false, nil
	}
	d.AccessToken, d.RefreshToken = "", ""
	m.sessions[id] = d
	return true, nil
}

func (m *MemoryStore) PushFlash(_ context.Context, id string, f Flash) error {
	m.mu.Lock()
	m.flashes[id] = append(m.flashes[id], f)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) PopFlashes(_ context.Context, id string) ([]Flash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.flashes[id]
	delete(m.flashes, id)
	return out, nil
}

// Put stores data under its ID as-is. Tests use it to seed sessions.
func (m *MemoryStore) Put(data Data) {
	m.mu.Lock()
	m.sessions[data.ID] = data
	m.mu.Unlock()
}

var (
	_ Manager = (*Store)(nil)
	_ Manager = (*MemoryStore)(nil)
)
