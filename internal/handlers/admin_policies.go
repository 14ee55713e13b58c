// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"toorrii/internal/activity"
	"toorrii/internal/backend"
	"toorrii/internal/middleware"
	"toorrii/internal/models"
	"toorrii/internal/multilingual"
	"toorrii/internal/render"
	"toorrii/internal/session"
	"toorrii/internal/versioned"
)

// policyRow is one stored policy version with its backend id.
type policyRow struct {
	ID   models.ID
	Body models.PolicyBody
}

// Policies serves one versioned legal document: the privacy policy or the
// terms of use. Both share forms and list pages; only the backend calls
// and wording differ.
type Policies struct {
	admin  *Admin
	base   string // admin URL prefix
	title  string
	entity string // activity entity
	page   string // public page cached for this document
	list   func(ctx context.Context) ([]policyRow, error)
	create func(ctx context.Context, b models.PolicyBody) (models.ID, error)
	update func(ctx context.Context, id string, b models.PolicyBody) error
}

func newPrivacyPolicies(a *Admin) *Policies {
	return &Policies{
		admin:  a,
		base:   "/admin/privacy-policy",
		title:  "Privacy Policy",
		entity: activity.EntityPrivacy,
		page:   "privacy-policy",
		list: func(ctx context.Context) ([]policyRow, error) {
			items, err := a.api.Privacy.List(ctx)
			rows := make([]policyRow, 0, len(items))
			for _, it := range items {
				rows = append(rows, policyRow{ID: it.ID, Body: it.PolicyBody})
			}
			return rows, err
		},
		create: func(ctx context.Context, b models.PolicyBody) (models.ID, error) {
			created, err := a.api.Privacy.Create(ctx, b)
			return created.ID, err
		},
		update: func(ctx context.Context, id string, b models.PolicyBody) error {
			_, err := a.api.Privacy.Update(ctx, id, b)
			return err
		},
	}
}

func newTermsPolicies(a *Admin) *Policies {
	return &Policies{
		admin:  a,
		base:   "/admin/terms",
		title:  "Terms of Use",
		entity: activity.EntityTerms,
		page:   "terms-of-service",
		list: func(ctx context.Context) ([]policyRow, error) {
			items, err := a.api.Terms.List(ctx)
			rows := make([]policyRow, 0, len(items))
			for _, it := range items {
				rows = append(rows, policyRow{ID: it.ID, Body: it.PolicyBody})
			}
			return rows, err
		},
		create: func(ctx context.Context, b models.PolicyBody) (models.ID, error) {
			created, err := a.api.Terms.Create(ctx, b)
			return created.ID, err
		},
		update: func(ctx context.Context, id string, b models.PolicyBody) error {
			_, err := a.api.Terms.Update(ctx, id, b)
			return err
		},
	}
}

// section is the sidebar key, the last segment of base.
func (p *Policies) section() string { return p.base[len("/admin/"):] }

// List renders every version in backend order, with inline version and
// active controls.
func (p *Policies) List(w http.ResponseWriter, r *http.Request) {
	rows, err := p.list(r.Context())
	if p.admin.signedOut(w, r, err) {
		return
	}
	if err != nil {
		slog.Error("list policies failed", "error", err, "kind", p.entity)
	}

	flags := make([]bool, len(rows))
	for i, row := range rows {
		flags[i] = bool(row.Body.Active)
	}
	p.admin.page(w, r, "policies_list", &render.PageData{
		Title:   p.title,
		Section: p.section(),
		Data: map[string]any{
			"Base":        p.base,
			"Rows":        rows,
			"ActiveCount": versioned.ActiveCount(flags),
			"Error":       backend.UserMessage(err),
		},
	})
}

// New renders the creation form with the next version suggested.
func (p *Policies) New(w http.ResponseWriter, r *http.Request) {
	rows, ok := p.rows(w, r)
	if !ok {
		return
	}
	p.form(w, r, models.PolicyBody{}, true, p.base+"/create", "", suggestPolicyVersion(rows), "")
}

// Create handles the creation form.
func (p *Policies) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	rows, ok := p.rows(w, r)
	if !ok {
		return
	}
	suggested := suggestPolicyVersion(rows)
	versionInput := r.PostForm.Get("version")
	body := policyFromForm(r.PostForm, suggested)
	action := p.base + "/create"

	if msg := validatePolicy(body.Titre, body.Contenu); msg != "" {
		p.form(w, r, body, true, action, versionInput, suggested, msg)
		return
	}

	id, err := p.create(r.Context(), body)
	if err != nil {
		if p.admin.signedOut(w, r, err) {
			return
		}
		slog.Error("create policy failed", "error", err, "kind", p.entity)
		p.form(w, r, body, true, action, versionInput, suggested, backend.UserMessage(err))
		return
	}

	p.admin.record(r, activity.ActionCreate, p.entity, id.String(), "v"+strconv.Itoa(body.Version))
	p.admin.invalidate(r, p.page)
	p.admin.done(w, r, p.base, "Version Created", p.title+" version "+strconv.Itoa(body.Version)+" has been created.")
}

// Edit renders the full edit form of one version.
func (p *Policies) Edit(w http.ResponseWriter, r *http.Request) {
	row, ok := p.find(w, r)
	if !ok {
		return
	}
	v := strconv.Itoa(row.Body.Version)
	p.form(w, r, row.Body, false, p.base+"/"+row.ID.String(), v, row.Body.Version, "")
}

// Update saves a version. The inline list form sends only the version and
// active flag; the full form sends the content as well.
func (p *Policies) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	row, ok := p.find(w, r)
	if !ok {
		return
	}
	id := row.ID.String()
	inline := r.PostForm.Get("inline") == "1"
	versionInput := r.PostForm.Get("version")

	body := row.Body
	if inline {
		body.Version = versioned.ResolveVersion(versionInput, row.Body.Version)
		body.Active = versioned.Active(formChecked(r.PostForm, "active"))
	} else {
		body = policyFromForm(r.PostForm, row.Body.Version)
		if msg := validatePolicy(body.Titre, body.Contenu); msg != "" {
			p.form(w, r, body, false, p.base+"/"+id, versionInput, row.Body.Version, msg)
			return
		}
	}

	if err := p.update(r.Context(), id, body); err != nil {
		if p.admin.signedOut(w, r, err) {
			return
		}
		slog.Error("update policy failed", "error", err, "kind", p.entity, "id", id)
		if inline {
			p.admin.flash(w, r, session.Flash{Type: "error", Title: "Error", Message: backend.UserMessage(err)})
			middleware.Redirect(w, r, p.base)
			return
		}
		p.form(w, r, body, false, p.base+"/"+id, versionInput, row.Body.Version, backend.UserMessage(err))
		return
	}

	p.admin.record(r, activity.ActionUpdate, p.entity, id, "v"+strconv.Itoa(body.Version))
	p.admin.invalidate(r, p.page)
	p.admin.done(w, r, p.base, "Version Updated", "Your changes have been saved.")
}

// Activate re-submits a version with its active flag set. The backend
// decides what happens to the other versions.
func (p *Policies) Activate(w http.ResponseWriter, r *http.Request) {
	row, ok := p.find(w, r)
	if !ok {
		return
	}
	id := row.ID.String()
	body := row.Body
	body.Active = true

	if err := p.update(r.Context(), id, body); err != nil {
		if p.admin.signedOut(w, r, err) {
			return
		}
		slog.Error("activate policy failed", "error", err, "kind", p.entity, "id", id)
		p.admin.flash(w, r, session.Flash{Type: "error", Title: "Error", Message: backend.UserMessage(err)})
		middleware.Redirect(w, r, p.base)
		return
	}

	p.admin.record(r, activity.ActionActivate, p.entity, id, "v"+strconv.Itoa(body.Version))
	p.admin.invalidate(r, p.page)
	p.admin.done(w, r, p.base, "Version Activated", "The selected version is now live.")
}

// rows lists the stored versions. A failed lookup yields no rows unless
// the token was rejected, in which case the response is already sent.
func (p *Policies) rows(w http.ResponseWriter, r *http.Request) ([]policyRow, bool) {
	rows, err := p.list(r.Context())
	if p.admin.signedOut(w, r, err) {
		return nil, false
	}
	if err != nil {
		slog.Warn("list policies failed", "error", err, "kind", p.entity)
	}
	return rows, true
}

// find locates the version named in the URL. The backend has no detail
// endpoint, so the list is scanned.
func (p *Policies) find(w http.ResponseWriter, r *http.Request) (policyRow, bool) {
	id := chi.URLParam(r, "id")
	rows, err := p.list(r.Context())
	if err != nil {
		if p.admin.signedOut(w, r, err) {
			return policyRow{}, false
		}
		slog.Error("list policies failed", "error", err, "kind", p.entity)
		p.admin.flash(w, r, session.Flash{Type: "error", Title: "Error", Message: backend.UserMessage(err)})
		middleware.Redirect(w, r, p.base)
		return policyRow{}, false
	}
	for _, row := range rows {
		if row.ID.String() == id {
			return row, true
		}
	}
	p.admin.flash(w, r, session.Flash{Type: "error", Title: "Not Found", Message: "That version no longer exists."})
	middleware.Redirect(w, r, p.base)
	return policyRow{}, false
}

func (p *Policies) form(w http.ResponseWriter, r *http.Request, body models.PolicyBody, isNew bool, action, versionInput string, suggested int, msg string) {
	title := "Edit " + p.title
	if isNew {
		title = "New " + p.title + " Version"
	}
	data := &render.PageData{
		Title:   title,
		Section: p.section(),
		Data: map[string]any{
			"Body":         &body,
			"IsNew":        isNew,
			"Action":       action,
			"Base":         p.base,
			"Progress":     multilingual.Completion(body.Fields(), models.RequiredContentFields),
			"VersionInput": versionInput,
			"Suggested":    suggested,
		},
	}
	if msg != "" {
		data.Flashes = errorFlash(msg)
	}
	p.admin.page(w, r, "policy_form", data)
}

func suggestPolicyVersion(rows []policyRow) int {
	versions := make([]int, len(rows))
	for i, row := range rows {
		versions[i] = row.Body.Version
	}
	return versioned.SuggestVersion(versions)
}
