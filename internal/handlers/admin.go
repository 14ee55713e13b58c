// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Toorrii admin console
// and public site. Handlers are grouped by concern (admin, auth, public)
// and receive their dependencies through the handler struct.
package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"toorrii/internal/activity"
	"toorrii/internal/backend"
	"toorrii/internal/cache"
	"toorrii/internal/middleware"
	"toorrii/internal/models"
	"toorrii/internal/multilingual"
	"toorrii/internal/render"
	"toorrii/internal/session"
	"toorrii/internal/versioned"
)

// Assets stores uploaded partner images.
type Assets interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	FileURL(key string) string
}

// Admin groups all admin console HTTP handlers and their dependencies.
type Admin struct {
	renderer  *render.Renderer
	sessions  session.Manager
	api       *backend.Services
	pageCache *cache.PageCache
	activity  activity.Recorder
	assets    Assets

	// Privacy and Terms serve the two policy sections.
	Privacy *Policies
	Terms   *Policies
}

// NewAdmin creates a new Admin handler group with the given dependencies.
// pageCache may be nil. assets is nil when object storage is not configured.
func NewAdmin(renderer *render.Renderer, sessions session.Manager, api *backend.Services, pageCache *cache.PageCache, rec activity.Recorder, assets Assets) *Admin {
	if rec == nil {
		rec = activity.Nop{}
	}
	a := &Admin{
		renderer:  renderer,
		sessions:  sessions,
		api:       api,
		pageCache: pageCache,
		activity:  rec,
		assets:    assets,
	}
	a.Privacy = newPrivacyPolicies(a)
	a.Terms = newTermsPolicies(a)
	return a
}

// dashboardStats are the counters on the dashboard cards.
type dashboardStats struct {
	Partners        int
	ActivePartners  int
	AboutUsVersions int
	ActiveAboutUs   int
	PrivacyVersions int
	TermsVersions   int
}

// recentActivity is how many log entries the dashboard lists.
const recentActivity = 10

// Dashboard renders the overview. The backend lists are fetched
// concurrently; the first failure is shown and the remaining counters stay
// at zero.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	var stats dashboardStats
	var entries []activity.Entry

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		partners, err := a.api.Partners.List(ctx)
		if err != nil {
			return err
		}
		stats.Partners = len(partners)
		for _, p := range partners {
			if p.Actif {
				stats.ActivePartners++
			}
		}
		return nil
	})
	g.Go(func() error {
		versions, err := a.api.AboutUs.List(ctx)
		if err != nil {
			return err
		}
		stats.AboutUsVersions = len(versions)
		stats.ActiveAboutUs = versioned.ActiveCount(models.ActiveFlags(versions))
		return nil
	})
	g.Go(func() error {
		policies, err := a.api.Privacy.List(ctx)
		if err != nil {
			return err
		}
		stats.PrivacyVersions = len(policies)
		return nil
	})
	g.Go(func() error {
		terms, err := a.api.Terms.List(ctx)
		if err != nil {
			return err
		}
		stats.TermsVersions = len(terms)
		return nil
	})
	g.Go(func() error {
		var err error
		entries, err = a.activity.Recent(ctx, recentActivity)
		if err != nil {
			slog.Warn("recent activity failed", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if a.signedOut(w, r, err) {
		return
	}

	a.page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"Stats":    stats,
			"Activity": entries,
			"Error":    backend.UserMessage(err),
		},
	})
}

// page renders an admin page after attaching the pending flashes, the
// display language and the sidebar state.
func (a *Admin) page(w http.ResponseWriter, r *http.Request, name string, data *render.PageData) {
	ctx := r.Context()
	if sess := middleware.SessionFromCtx(ctx); sess != nil {
		flashes, err := a.sessions.PopFlashes(ctx, sess.ID)
		if err != nil {
			slog.Warn("pop flashes failed", "error", err)
		}
		data.Flashes = append(flashes, data.Flashes...)
	}
	if data.Lang == "" {
		data.Lang = listLang(r)
	}
	data.ContactExists = a.contactExists(ctx)
	a.renderer.Page(w, r, name, data)
}

// contactExists reports whether the singleton contact is stored. A failed
// lookup counts as no contact.
func (a *Admin) contactExists(ctx context.Context) bool {
	_, ok, err := a.api.Contacts.Get(ctx)
	if err != nil {
		slog.Debug("contact lookup failed", "error", err)
		return false
	}
	return ok
}

// listLang is the display language of list pages, chosen with ?lang=.
func listLang(r *http.Request) multilingual.Lang {
	if l, ok := multilingual.ParseLang(r.URL.Query().Get("lang")); ok {
		return l
	}
	return middleware.LangFromCtx(r.Context())
}

// signedOut sends the browser to the login page when err means the
// session's token was rejected. The gate has already cleared the session
// and queued the "Session Expired" flash.
func (a *Admin) signedOut(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil || !errors.Is(err, backend.ErrUnauthorized) {
		return false
	}
	middleware.Redirect(w, r, middleware.LoginPath)
	return true
}

// flash queues a notification for the next rendered page, creating an
// anonymous session when the browser has none.
func (a *Admin) flash(w http.ResponseWriter, r *http.Request, f session.Flash) {
	pushFlash(a.sessions, w, r, f)
}

func pushFlash(sessions session.Manager, w http.ResponseWriter, r *http.Request, f session.Flash) {
	ctx := r.Context()
	id := ""
	if sess := middleware.SessionFromCtx(ctx); sess != nil {
		id = sess.ID
	} else {
		var err error
		id, err = sessions.Create(ctx, w, &session.Data{})
		if err != nil {
			slog.Warn("create session for flash failed", "error", err)
			return
		}
	}
	if err := sessions.PushFlash(ctx, id, f); err != nil {
		slog.Warn("push flash failed", "error", err)
	}
}

// done queues a success flash and redirects to target.
func (a *Admin) done(w http.ResponseWriter, r *http.Request, target, title, message string) {
	a.flash(w, r, session.Flash{Type: "success", Title: title, Message: message})
	middleware.Redirect(w, r, target)
}

// record logs a console action on behalf of the signed-in administrator.
func (a *Admin) record(r *http.Request, action, entity, id, summary string) {
	actor := ""
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		actor = sess.Email
	}
	a.activity.Record(r.Context(), activity.Entry{
		Actor:    actor,
		Action:   action,
		Entity:   entity,
		EntityID: id,
		Summary:  summary,
	})
}

// errorFlash is the inline notification for a failed submit.
func errorFlash(message string) []session.Flash {
	return []session.Flash{{Type: "error", Title: "Error", Message: message}}
}
