// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"toorrii/internal/activity"
	"toorrii/internal/backend"
	"toorrii/internal/middleware"
	"toorrii/internal/models"
	"toorrii/internal/render"
	"toorrii/internal/session"
)

const contactsPath = "/admin/contacts"

// ContactsList shows the contact record, or an invitation to create it.
func (a *Admin) ContactsList(w http.ResponseWriter, r *http.Request) {
	c, ok, err := a.api.Contacts.Get(r.Context())
	if a.signedOut(w, r, err) {
		return
	}
	if err != nil {
		slog.Error("get contact failed", "error", err)
	}

	var contact *models.Contact
	if ok {
		contact = &c
	}
	a.page(w, r, "contacts_list", &render.PageData{
		Title:   "Contact",
		Section: "contacts",
		Data: map[string]any{
			"Contact": contact,
			"Error":   backend.UserMessage(err),
		},
	})
}

// ContactNew renders the creation form. Only one contact may exist, so an
// existing record sends the administrator to its edit form instead.
func (a *Admin) ContactNew(w http.ResponseWriter, r *http.Request) {
	if a.contactExists(r.Context()) {
		a.flash(w, r, session.Flash{Type: "info", Title: "Contact Exists", Message: "A contact already exists. You can edit it here."})
		middleware.Redirect(w, r, contactsPath+"/edit")
		return
	}
	a.contactForm(w, r, models.Contact{}, true, "")
}

// ContactCreate handles the creation form submission.
func (a *Admin) ContactCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	c := contactFromForm(r.PostForm)
	if msg := validateContact(c); msg != "" {
		a.contactForm(w, r, c, true, msg)
		return
	}

	created, err := a.api.Contacts.Create(r.Context(), c)
	if err != nil {
		if a.signedOut(w, r, err) {
			return
		}
		slog.Error("create contact failed", "error", err)
		a.contactForm(w, r, c, true, backend.UserMessage(err))
		return
	}

	a.record(r, activity.ActionCreate, activity.EntityContact, created.ID.String(), "")
	a.pageCache.InvalidateAll(r.Context())
	a.done(w, r, contactsPath, "Contact Created", "The contact information has been saved.")
}

// ContactEdit renders the edit form for the stored contact.
func (a *Admin) ContactEdit(w http.ResponseWriter, r *http.Request) {
	c, ok, err := a.api.Contacts.Get(r.Context())
	if err != nil {
		if a.signedOut(w, r, err) {
			return
		}
		slog.Error("get contact failed", "error", err)
		a.flash(w, r, session.Flash{Type: "error", Title: "Error", Message: backend.UserMessage(err)})
		middleware.Redirect(w, r, contactsPath)
		return
	}
	if !ok {
		a.flash(w, r, session.Flash{Type: "info", Title: "No Contact", Message: "Create the contact information first."})
		middleware.Redirect(w, r, contactsPath+"/create")
		return
	}
	a.contactForm(w, r, c, false, "")
}

// ContactUpdate handles the edit form submission.
func (a *Admin) ContactUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	c := contactFromForm(r.PostForm)
	if msg := validateContact(c); msg != "" {
		a.contactForm(w, r, c, false, msg)
		return
	}

	if _, err := a.api.Contacts.Update(r.Context(), c); err != nil {
		if a.signedOut(w, r, err) {
			return
		}
		slog.Error("update contact failed", "error", err)
		a.contactForm(w, r, c, false, backend.UserMessage(err))
		return
	}

	a.record(r, activity.ActionUpdate, activity.EntityContact, "", "")
	a.pageCache.InvalidateAll(r.Context())
	a.done(w, r, contactsPath, "Contact Updated", "Your changes have been saved.")
}

func (a *Admin) contactForm(w http.ResponseWriter, r *http.Request, c models.Contact, isNew bool, msg string) {
	title, action := "Edit Contact", contactsPath+"/edit"
	if isNew {
		title, action = "Add Contact", contactsPath+"/create"
	}
	data := &render.PageData{
		Title:   title,
		Section: "contacts",
		Data: map[string]any{
			"Contact": &c,
			"IsNew":   isNew,
			"Action":  action,
		},
	}
	if msg != "" {
		data.Flashes = errorFlash(msg)
	}
	a.page(w, r, "contact_form", data)
}
