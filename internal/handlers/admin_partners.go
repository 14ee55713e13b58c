// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

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

const partnersPath = "/admin/partners"

// partnerRow is one line of the partners table.
type partnerRow struct {
	Partner models.Partner
	Lang    multilingual.Lang
}

// PartnersList renders the partner directory in the selected language.
func (a *Admin) PartnersList(w http.ResponseWriter, r *http.Request) {
	partners, err := a.api.Partners.List(r.Context())
	if a.signedOut(w, r, err) {
		return
	}
	if err != nil {
		slog.Error("list partners failed", "error", err)
	}

	lang := listLang(r)
	rows := make([]partnerRow, 0, len(partners))
	for _, p := range partners {
		rows = append(rows, partnerRow{Partner: p, Lang: lang})
	}

	a.page(w, r, "partners_list", &render.PageData{
		Title:   "Partners",
		Section: "partners",
		Lang:    lang,
		Data: map[string]any{
			"Rows":  rows,
			"Error": backend.UserMessage(err),
		},
	})
}

// PartnerNew renders the empty partner form.
func (a *Admin) PartnerNew(w http.ResponseWriter, r *http.Request) {
	a.page(w, r, "partner_form", &render.PageData{
		Title:   "Add Partner",
		Section: "partners",
		Data:    partnerFormData(models.Partner{Actif: versioned.Active(true)}, true, partnersPath+"/create", a.assets != nil),
	})
}

// PartnerCreate handles the new partner form submission.
func (a *Admin) PartnerCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	p := partnerFromForm(r.PostForm)

	if msg := validatePartner(p); msg != "" {
		a.partnerForm(w, r, p, true, partnersPath+"/create", msg)
		return
	}

	created, err := a.api.Partners.Create(r.Context(), p)
	if err != nil {
		if a.signedOut(w, r, err) {
			return
		}
		slog.Error("create partner failed", "error", err)
		a.partnerForm(w, r, p, true, partnersPath+"/create", backend.UserMessage(err))
		return
	}

	a.record(r, activity.ActionCreate, activity.EntityPartner, created.ID.String(), p.Nom.Display(multilingual.DefaultLang))
	a.pageCache.InvalidateAll(r.Context())
	a.done(w, r, partnersPath, "Partner Created", "The partner has been added.")
}

// PartnerEdit renders the edit form for an existing partner.
func (a *Admin) PartnerEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := a.api.Partners.Get(r.Context(), id)
	if err != nil {
		if a.signedOut(w, r, err) {
			return
		}
		slog.Error("get partner failed", "error", err, "id", id)
		a.flash(w, r, session.Flash{Type: "error", Title: "Error", Message: backend.UserMessage(err)})
		middleware.Redirect(w, r, partnersPath)
		return
	}

	a.page(w, r, "partner_form", &render.PageData{
		Title:   "Edit Partner",
		Section: "partners",
		Data:    partnerFormData(p, false, partnersPath+"/edit/"+id, a.assets != nil),
	})
}

// PartnerUpdate handles the edit form submission.
func (a *Admin) PartnerUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	p := partnerFromForm(r.PostForm)
	action := partnersPath + "/edit/" + id

	if msg := validatePartner(p); msg != "" {
		a.partnerForm(w, r, p, false, action, msg)
		return
	}

	if _, err := a.api.Partners.Update(r.Context(), id, p); err != nil {
		if a.signedOut(w, r, err) {
			return
		}
		slog.Error("update partner failed", "error", err, "id", id)
		a.partnerForm(w, r, p, false, action, backend.UserMessage(err))
		return
	}

	a.record(r, activity.ActionUpdate, activity.EntityPartner, id, p.Nom.Display(multilingual.DefaultLang))
	a.pageCache.InvalidateAll(r.Context())
	a.done(w, r, partnersPath, "Partner Updated", "Your changes have been saved.")
}

// PartnerDelete removes a partner. The row is only dropped from the table
// once the backend confirms; on failure the row stays and an error flash
// is swapped in out of band.
func (a *Admin) PartnerDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := a.api.Partners.Delete(r.Context(), id); err != nil {
		if a.signedOut(w, r, err) {
			return
		}
		slog.Error("delete partner failed", "error", err, "id", id)
		w.Header().Set("HX-Reswap", "none")
		a.renderer.Fragment(w, "partners_list", "flash_oob", errorFlash(backend.UserMessage(err)))
		return
	}

	a.record(r, activity.ActionDelete, activity.EntityPartner, id, "")
	a.pageCache.InvalidateAll(r.Context())
	a.renderer.Fragment(w, "partners_list", "flash_oob", []session.Flash{
		{Type: "success", Title: "Partner Deleted", Message: "The partner has been removed."},
	})
}

// partnerForm re-renders the submitted form with an error.
func (a *Admin) partnerForm(w http.ResponseWriter, r *http.Request, p models.Partner, isNew bool, action, msg string) {
	title := "Edit Partner"
	if isNew {
		title = "Add Partner"
	}
	a.page(w, r, "partner_form", &render.PageData{
		Title:   title,
		Section: "partners",
		Flashes: errorFlash(msg),
		Data:    partnerFormData(p, isNew, action, a.assets != nil),
	})
}
