// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"toorrii/internal/multilingual"
	"toorrii/internal/versioned"
)

// PartnerType classifies a partner.
type PartnerType string

const (
	PartnerCommercial PartnerType = "COMMERCIAL"
	PartnerMarketing  PartnerType = "MARKETING"
	PartnerTechnique  PartnerType = "TECHNIQUE"
	PartnerMedia      PartnerType = "MEDIA"
	PartnerAutre      PartnerType = "AUTRE"
)

// PartnerTypes lists the selectable partner types in display order.
var PartnerTypes = []PartnerType{PartnerCommercial, PartnerMarketing, PartnerTechnique, PartnerMedia, PartnerAutre}

// Valid reports whether t is a known type. The empty type is allowed.
func (t PartnerType) Valid() bool {
	if t == "" {
		return true
	}
	for _, known := range PartnerTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Address is a partner's postal address. The backend stores it as a
// one-element list of {rue, ville, pays}; older records hold a single
// multilingual value, which is read as the street.
type Address struct {
	Rue   multilingual.Field `json:"rue"`
	Ville multilingual.Field `json:"ville"`
	Pays  multilingual.Field `json:"pays"`
}

type addressLine Address

// UnmarshalJSON reads the list shape or the legacy single value. It never fails.
func (a *Address) UnmarshalJSON(b []byte) error {
	res := gjson.ParseBytes(b)
	*a = Address{}
	if res.IsArray() {
		first := res.Get("0")
		if first.IsObject() {
			a.Rue = multilingual.FromResult(first.Get("rue"))
			a.Ville = multilingual.FromResult(first.Get("ville"))
			a.Pays = multilingual.FromResult(first.Get("pays"))
		}
		return nil
	}
	if res.IsObject() && (res.Get("rue").Exists() || res.Get("ville").Exists() || res.Get("pays").Exists()) {
		a.Rue = multilingual.FromResult(res.Get("rue"))
		a.Ville = multilingual.FromResult(res.Get("ville"))
		a.Pays = multilingual.FromResult(res.Get("pays"))
		return nil
	}
	a.Rue = multilingual.FromResult(res)
	return nil
}

// MarshalJSON always writes the one-element list shape.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal([]addressLine{addressLine(a)})
}

// IsEmpty reports whether no part of the address is filled in.
func (a Address) IsEmpty() bool {
	return a.Rue.IsEmpty() && a.Ville.IsEmpty() && a.Pays.IsEmpty()
}

// ExternalLink is one entry of a partner's external links.
type ExternalLink struct {
	URL   string `json:"url"`
	Titre string `json:"titre"`
}

// ExternalLinks decodes only the list shape; the legacy multilingual
// object carried no usable URLs and is dropped.
type ExternalLinks []ExternalLink

// UnmarshalJSON never fails. Entries without a URL are skipped.
func (l *ExternalLinks) UnmarshalJSON(b []byte) error {
	res := gjson.ParseBytes(b)
	*l = nil
	if !res.IsArray() {
		return nil
	}
	res.ForEach(func(_, entry gjson.Result) bool {
		url := entry.Get("url").String()
		if entry.IsObject() && url != "" {
			*l = append(*l, ExternalLink{URL: url, Titre: entry.Get("titre").String()})
		}
		return true
	})
	return nil
}

// MarshalJSON writes an empty list rather than null.
func (l ExternalLinks) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]ExternalLink(l))
}

// Partner is a directory entry.
type Partner struct {
	ID            ID                 `json:"id,omitempty"`
	Nom           multilingual.Field `json:"nom_partenaire"`
	Description   multilingual.Field `json:"description"`
	Adresse       Address            `json:"adresse"`
	Email         string             `json:"email"`
	Telephone     string             `json:"telephone"`
	Telephone2    string             `json:"telephone_2"`
	TelephoneFixe string             `json:"telephone_fixe"`
	SiteWeb       string             `json:"site_web"`
	Type          PartnerType        `json:"type_partenaire,omitempty"`
	Actif         versioned.Active   `json:"actif"`
	Facebook      *string            `json:"facebook"`
	Instagram     *string            `json:"instagram"`
	Tiktok        *string            `json:"tiktok"`
	DateDeb       string             `json:"date_deb"`
	DateFin       string             `json:"date_fin"`
	// DateCreationEntreprise is the company founding date.
	DateCreationEntreprise string        `json:"date_creation_entreprise"`
	PrioriteAffichage      int           `json:"priorite_affichage"`
	Logo                   string        `json:"logo,omitempty"`
	Banniere               string        `json:"banniere,omitempty"`
	LiensExternes          ExternalLinks `json:"liens_externes"`

	DateCreation     string `json:"date_creation,omitempty"`
	DateModification string `json:"date_modification,omitempty"`
}

// Payload returns the partner stripped of server-managed fields.
func (p Partner) Payload() Partner {
	p.ID = ""
	p.DateCreation = ""
	p.DateModification = ""
	return p
}

// FormDates returns the date fields trimmed for datetime-local and date
// form inputs.
func (p Partner) FormDates() (deb, fin, founded string) {
	return trimTo(p.DateDeb, 16), trimTo(p.DateFin, 16), trimTo(p.DateCreationEntreprise, 10)
}

// City is the partner's city in the preferred language.
func (p Partner) City(lang multilingual.Lang) string {
	return p.Adresse.Ville.Display(lang)
}

// Socials returns the non-empty social links keyed by network.
func (p Partner) Socials() map[string]string {
	out := make(map[string]string, 3)
	for name, v := range map[string]*string{"facebook": p.Facebook, "instagram": p.Instagram, "tiktok": p.Tiktok} {
		if v != nil && *v != "" {
			out[name] = *v
		}
	}
	return out
}

// OptionalString maps "" to nil so blank social links are sent as null.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimTo(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
