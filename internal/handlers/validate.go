package handlers

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"toorrii/internal/models"
	"toorrii/internal/multilingual"
)

// Validation limits for console forms. The backend validates the rest.
const (
	maxNameLen        = 300
	maxDescriptionLen = 10_000
	maxContentLen     = 100_000
	maxLinks          = 20
)

// validatePartner checks the partner form and returns the first error found.
func validatePartner(p models.Partner) string {
	if p.Nom.IsEmpty() {
		return "Partner name is required in at least one language."
	}
	if longest(p.Nom) > maxNameLen {
		return "Partner name is too long (max 300 characters)."
	}
	if longest(p.Description) > maxDescriptionLen {
		return "Description is too long (max 10,000 characters)."
	}
	if msg := validateEmail(p.Email); msg != "" {
		return msg
	}
	if !p.Type.Valid() {
		return "Unknown partner type."
	}
	if p.PrioriteAffichage < 0 {
		return "Display priority must not be negative."
	}
	if p.DateDeb != "" && p.DateFin != "" && p.DateFin < p.DateDeb {
		return "End date must be after the start date."
	}
	for _, raw := range []string{p.SiteWeb, models.Deref(p.Facebook), models.Deref(p.Instagram), models.Deref(p.Tiktok), p.Logo, p.Banniere} {
		if msg := validateURL(raw); msg != "" {
			return msg
		}
	}
	if len(p.LiensExternes) > maxLinks {
		return "Too many external links (max 20)."
	}
	for _, l := range p.LiensExternes {
		if msg := validateURL(l.URL); msg != "" {
			return msg
		}
	}
	return ""
}

// validateContact checks the contact form.
func validateContact(c models.Contact) string {
	if msg := validateEmail(c.Email); msg != "" {
		return msg
	}
	for _, raw := range []string{c.SiteWeb, c.Facebook, c.Instagram, c.Tiktok, c.Linkedin, c.X} {
		if msg := validateURL(raw); msg != "" {
			return msg
		}
	}
	return ""
}

// validatePolicy checks a policy or About-Us body.
func validatePolicy(titre, contenu multilingual.Field) string {
	if titre.IsEmpty() {
		return "Title is required in at least one language."
	}
	if longest(titre) > maxNameLen {
		return "Title is too long (max 300 characters)."
	}
	if longest(contenu) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

func validateEmail(s string) string {
	if s == "" {
		return ""
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "Email address is not valid."
	}
	return ""
}

// validateURL accepts blank values and absolute http(s) URLs.
func validateURL(s string) string {
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "Links must be full http:// or https:// URLs."
	}
	return ""
}

// longest is the rune length of the longest translation of f.
func longest(f multilingual.Field) int {
	n := 0
	for _, l := range multilingual.Languages {
		if c := utf8.RuneCountInString(strings.TrimSpace(f.Get(l))); c > n {
			n = c
		}
	}
	return n
}
