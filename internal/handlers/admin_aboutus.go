// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
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

const aboutUsPath = "/admin/about-us"

// Public pages that show About-Us content.
var aboutUsPages = []string{"about-us", "home"}

// AboutUsView previews the active About-Us version in the selected language.
func (a *Admin) AboutUsView(w http.ResponseWriter, r *http.Request) {
	versions, err := a.api.AboutUs.List(r.Context())
	if a.signedOut(w, r, err) {
		return
	}
	if err != nil {
		slog.Error("list about-us failed", "error", err)
	}

	var active *models.AboutUs
	if v, ok := models.FindActive(versions); ok {
		active = &v
	}
	a.page(w, r, "aboutus_view", &render.PageData{
		Title:   "About Us",
		Section: "about-us",
		Data: map[string]any{
			"About":       active,
			"ActiveCount": versioned.ActiveCount(models.ActiveFlags(versions)),
			"Error":       backend.UserMessage(err),
		},
	})
}

// AboutUsVersions lists every version in backend order.
func (a *Admin) AboutUsVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := a.api.AboutUs.List(r.Context())
	if a.signedOut(w, r, err) {
		return
	}
	if err != nil {
		slog.Error("list about-us failed", "error", err)
	}

	a.page(w, r, "aboutus_versions", &render.PageData{
		Title:   "About-Us Versions",
		Section: "about-us",
		Data: map[string]any{
			"Versions":    versions,
			"ActiveCount": versioned.ActiveCount(models.ActiveFlags(versions)),
			"Error":       backend.UserMessage(err),
		},
	})
}

// AboutUsNew renders the creation form with the next version suggested.
func (a *Admin) AboutUsNew(w http.ResponseWriter, r *http.Request) {
	suggested, ok := a.suggestAboutUsVersion(w, r)
	if !ok {
		return
	}
	a.aboutUsForm(w, r, models.AboutUs{}, true, "", suggested, "")
}

// AboutUsCreate handles the creation form. Title and content must be filled
// in every language; a typed version overrides the suggestion.
func (a *Admin) AboutUsCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	var about models.AboutUs
	about.SetFields(formFields(r.PostForm, models.AboutUsFields))
	about.Active = versioned.Active(formChecked(r.PostForm, "active"))
	versionInput := r.PostForm.Get("version")

	suggested, ok := a.suggestAboutUsVersion(w, r)
	if !ok {
		return
	}
	about.Version = versioned.ResolveVersion(versionInput, suggested)

	if !multilingual.Completion(about.Fields(), models.RequiredContentFields).Complete() {
		a.aboutUsForm(w, r, about, true, versionInput, suggested,
			"Fill in the title and content in Arabic, French and English before creating a version.")
		return
	}
	if msg := validatePolicy(about.Titre, about.Contenu); msg != "" {
		a.aboutUsForm(w, r, about, true, versionInput, suggested, msg)
		return
	}

	created, err := a.api.AboutUs.Create(r.Context(), about)
	if err != nil {
		if a.signedOut(w, r, err) {
			return
		}
		slog.Error("create about-us failed", "error", err)
		a.aboutUsForm(w, r, about, true, versionInput, suggested, backend.UserMessage(err))
		return
	}

	a.record(r, activity.ActionCreate, activity.EntityAboutUs, created.ID.String(), "v"+strconv.Itoa(about.Version))
	a.invalidate(r, aboutUsPages...)
	a.done(w, r, aboutUsPath+"/versions", "Version Created", "About-Us version "+strconv.Itoa(about.Version)+" has been created.")
}

// AboutUsEdit renders the edit form of one version.
func (a *Admin) AboutUsEdit(w http.ResponseWriter, r *http.Request) {
	about, ok := a.loadAboutUs(w, r)
	if !ok {
		return
	}
	a.aboutUsForm(w, r, about, false, "", about.Version, "")
}

// AboutUsUpdate saves the content of a version. Its version number and
// active flag are kept; activation has its own action.
func (a *Admin) AboutUsUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	about, ok := a.loadAboutUs(w, r)
	if !ok {
		return
	}
	about.SetFields(formFields(r.PostForm, models.AboutUsFields))

	if msg := validatePolicy(about.Titre, about.Contenu); msg != "" {
		a.aboutUsForm(w, r, about, false, "", about.Version, msg)
		return
	}

	id := about.ID.String()
	if _, err := a.api.AboutUs.Update(r.Context(), id, about); err != nil {
		if a.signedOut(w, r, err) {
			return
		}
		slog.Error("update about-us failed", "error", err, "id", id)
		a.aboutUsForm(w, r, about, false, "", about.Version, backend.UserMessage(err))
		return
	}

	a.record(r, activity.ActionUpdate, activity.EntityAboutUs, id, "v"+strconv.Itoa(about.Version))
	a.invalidate(r, aboutUsPages...)
	a.done(w, r, aboutUsPath+"/versions", "Version Updated", "Your changes have been saved.")
}

// AboutUsActivate makes one version the live one. The list is refetched
// after the redirect rather than updated in place.
func (a *Admin) AboutUsActivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.api.AboutUs.Activate(r.Context(), id); err != nil {
		if a.signedOut(w, r, err) {
			return
		}
		slog.Error("activate about-us failed", "error", err, "id", id)
		a.flash(w, r, session.Flash{Type: "error", Title: "Error", Message: backend.UserMessage(err)})
		middleware.Redirect(w, r, aboutUsPath+"/versions")
		return
	}

	a.record(r, activity.ActionActivate, activity.EntityAboutUs, id, "")
	a.invalidate(r, aboutUsPages...)
	a.done(w, r, aboutUsPath+"/versions", "Version Activated", "The selected version is now live.")
}

// suggestAboutUsVersion returns one above the highest stored version. A
// failed lookup suggests 1 unless the token was rejected.
func (a *Admin) suggestAboutUsVersion(w http.ResponseWriter, r *http.Request) (int, bool) {
	versions, err := a.api.AboutUs.List(r.Context())
	if a.signedOut(w, r, err) {
		return 0, false
	}
	if err != nil {
		slog.Warn("list about-us for version suggestion failed", "error", err)
	}
	return versioned.SuggestVersion(models.Versions(versions)), true
}

// loadAboutUs fetches the version named in the URL. On failure it has
// already responded.
func (a *Admin) loadAboutUs(w http.ResponseWriter, r *http.Request) (models.AboutUs, bool) {
	id := chi.URLParam(r, "id")
	about, err := a.api.AboutUs.Get(r.Context(), id)
	if err != nil {
		if a.signedOut(w, r, err) {
			return about, false
		}
		slog.Error("get about-us failed", "error", err, "id", id)
		a.flash(w, r, session.Flash{Type: "error", Title: "Error", Message: backend.UserMessage(err)})
		middleware.Redirect(w, r, aboutUsPath+"/versions")
		return about, false
	}
	return about, true
}

func (a *Admin) aboutUsForm(w http.ResponseWriter, r *http.Request, about models.AboutUs, isNew bool, versionInput string, suggested int, msg string) {
	title, action := "Edit About Us", aboutUsPath+"/edit/"+about.ID.String()
	if isNew {
		title, action = "New About-Us Version", aboutUsPath+"/create"
	}
	data := &render.PageData{
		Title:   title,
		Section: "about-us",
		Data: map[string]any{
			"About":        &about,
			"IsNew":        isNew,
			"Action":       action,
			"Progress":     multilingual.Completion(about.Fields(), models.RequiredContentFields),
			"VersionInput": versionInput,
			"Suggested":    suggested,
		},
	}
	if msg != "" {
		data.Flashes = errorFlash(msg)
	}
	a.page(w, r, "aboutus_form", data)
}

// invalidate drops the cached public renderings of pages.
func (a *Admin) invalidate(r *http.Request, pages ...string) {
	for _, p := range pages {
		a.pageCache.InvalidatePage(r.Context(), p)
	}
}
