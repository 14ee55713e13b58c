// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "toorrii/internal/multilingual"

// Contact is the organization's contact record. The backend keeps a
// single one.
type Contact struct {
	ID             ID                 `json:"id,omitempty"`
	Titre          multilingual.Field `json:"titre"`
	Adresse        multilingual.Field `json:"adresse"`
	Ville          multilingual.Field `json:"ville"`
	Wilaya         multilingual.Field `json:"wilaya"`
	MessageAcceuil multilingual.Field `json:"message_acceuil"`

	Email         string `json:"email"`
	Telephone1    string `json:"telephone_1"`
	Telephone2    string `json:"telephone_2"`
	TelephoneFixe string `json:"telephone_fixe"`
	Horaires      string `json:"horaires"`
	SiteWeb       string `json:"site_web"`
	Facebook      string `json:"facebook"`
	Instagram     string `json:"instagram"`
	Tiktok        string `json:"tiktok"`
	Linkedin      string `json:"linkedin"`
	X             string `json:"x"`
}

// ContactFields lists the multilingual fields in form order.
var ContactFields = []string{"titre", "adresse", "ville", "wilaya", "message_acceuil"}

// Fields returns the multilingual values keyed by wire name.
func (c Contact) Fields() map[string]multilingual.Field {
	return map[string]multilingual.Field{
		"titre":           c.Titre,
		"adresse":         c.Adresse,
		"ville":           c.Ville,
		"wilaya":          c.Wilaya,
		"message_acceuil": c.MessageAcceuil,
	}
}

// SocialLink is a named social profile URL.
type SocialLink struct {
	Network string
	URL     string
}

// Socials returns the filled-in social links in a fixed order.
func (c Contact) Socials() []SocialLink {
	all := []SocialLink{
		{"Facebook", c.Facebook},
		{"Instagram", c.Instagram},
		{"TikTok", c.Tiktok},
		{"LinkedIn", c.Linkedin},
		{"X", c.X},
	}
	out := all[:0]
	for _, s := range all {
		if s.URL != "" {
			out = append(out, s)
		}
	}
	return out
}

// Payload returns the contact without its id.
func (c Contact) Payload() Contact {
	c.ID = ""
	return c
}
