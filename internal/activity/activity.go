// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package activity records what administrators did in the console. Each
// entry captures who acted, on which entity, and what happened. Recording
// is best-effort and never blocks the request that triggered it.
package activity

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Actions recorded by the console.
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionActivate = "activate"
	ActionUpload   = "upload"
	ActionLogin    = "login"
	ActionLogout   = "logout"
)

// Entities recorded by the console.
const (
	EntityPartner = "partner"
	EntityContact = "contact"
	EntityAboutUs = "about_us"
	EntityPrivacy = "privacy_policy"
	EntityTerms   = "terms"
	EntityAsset   = "asset"
	EntitySession = "session"
)

// Entry is a single recorded action.
type Entry struct {
	ID        int64
	Actor     string
	Action    string
	Entity    string
	EntityID  string
	Summary   string
	CreatedAt time.Time
}

// Recorder stores and lists console activity.
type Recorder interface {
	Record(ctx context.Context, e Entry)
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Store keeps activity in PostgreSQL.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record inserts e. Failures are logged, not returned.
func (s *Store) Record(ctx context.Context, e Entry) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_log (actor, action, entity, entity_id, summary)
		VALUES ($1, $2, $3, $4, $5)
	`, e.Actor, e.Action, e.Entity, e.EntityID, e.Summary)
	if err != nil {
		slog.Warn("failed to record activity",
			"actor", e.Actor,
			"action", e.Action,
			"entity", e.Entity,
			"entity_id", e.EntityID,
			"error", err,
		)
		return
	}
	slog.Debug("activity recorded", "action", e.Action, "entity", e.Entity, "entity_id", e.EntityID)
}

// Recent returns the newest entries, at most limit of them.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, action, entity, entity_id, summary, created_at
		FROM activity_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Entity, &e.EntityID, &e.Summary, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Nop discards every entry. It is used when no database is configured.
type Nop struct{}

func (Nop) Record(context.Context, Entry) {}

func (Nop) Recent(context.Context, int) ([]Entry, error) { return nil, nil }

var (
	_ Recorder = (*Store)(nil)
	_ Recorder = Nop{}
)
