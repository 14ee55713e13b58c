// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"toorrii/internal/multilingual"
	"toorrii/internal/versioned"
)

// AboutUs is one version of the About-Us page.
type AboutUs struct {
	ID                  ID                 `json:"about_id"`
	Titre               multilingual.Field `json:"titre"`
	Slogan              multilingual.Field `json:"slogan"`
	Contenu             multilingual.Field `json:"contenu"`
	Mission             multilingual.Field `json:"mission"`
	Vision              multilingual.Field `json:"vision"`
	Valeurs             multilingual.Field `json:"valeurs"`
	PourquoiChoisirNous multilingual.Field `json:"pourquoi_choisir_nous"`
	QuiNousServons      multilingual.Field `json:"qui_nous_servons"`
	Version             int                `json:"version"`
	Active              versioned.Active   `json:"active"`

	DateCreation     string `json:"date_creation,omitempty"`
	DateModification string `json:"date_modification,omitempty"`
}

// AboutUsFields lists the multilingual About-Us fields in form order.
var AboutUsFields = []string{
	"titre", "slogan", "contenu", "mission", "vision",
	"valeurs", "pourquoi_choisir_nous", "qui_nous_servons",
}

// RequiredContentFields must be filled in every language before a
// versioned page can be created.
var RequiredContentFields = []string{"titre", "contenu"}

// Fields returns the multilingual values keyed by wire name.
func (a AboutUs) Fields() map[string]multilingual.Field {
	return map[string]multilingual.Field{
		"titre":                 a.Titre,
		"slogan":                a.Slogan,
		"contenu":               a.Contenu,
		"mission":               a.Mission,
		"vision":                a.Vision,
		"valeurs":               a.Valeurs,
		"pourquoi_choisir_nous": a.PourquoiChoisirNous,
		"qui_nous_servons":      a.QuiNousServons,
	}
}

// SetFields copies the known keys of values into a.
func (a *AboutUs) SetFields(values map[string]multilingual.Field) {
	a.Titre = values["titre"]
	a.Slogan = values["slogan"]
	a.Contenu = values["contenu"]
	a.Mission = values["mission"]
	a.Vision = values["vision"]
	a.Valeurs = values["valeurs"]
	a.PourquoiChoisirNous = values["pourquoi_choisir_nous"]
	a.QuiNousServons = values["qui_nous_servons"]
}

// DisplayTitle is the title for version listings: English, then French,
// then any filled translation, else "Untitled".
func (a AboutUs) DisplayTitle() string {
	return a.Titre.DisplayOr(multilingual.EN, "Untitled")
}

// AboutUsPayload is the create/update body. Multilingual fields travel in
// array form.
type AboutUsPayload struct {
	Titre               multilingual.Translations `json:"titre"`
	Slogan              multilingual.Translations `json:"slogan"`
	Contenu             multilingual.Translations `json:"contenu"`
	Mission             multilingual.Translations `json:"mission"`
	Vision              multilingual.Translations `json:"vision"`
	Valeurs             multilingual.Translations `json:"valeurs"`
	PourquoiChoisirNous multilingual.Translations `json:"pourquoi_choisir_nous"`
	QuiNousServons      multilingual.Translations `json:"qui_nous_servons"`
	Version             int                       `json:"version"`
	Active              bool                      `json:"active"`
}

// Payload builds the write body for a.
func (a AboutUs) Payload() AboutUsPayload {
	return AboutUsPayload{
		Titre:               a.Titre.ArrayForm(),
		Slogan:              a.Slogan.ArrayForm(),
		Contenu:             a.Contenu.ArrayForm(),
		Mission:             a.Mission.ArrayForm(),
		Vision:              a.Vision.ArrayForm(),
		Valeurs:             a.Valeurs.ArrayForm(),
		PourquoiChoisirNous: a.PourquoiChoisirNous.ArrayForm(),
		QuiNousServons:      a.QuiNousServons.ArrayForm(),
		Version:             a.Version,
		Active:              bool(a.Active),
	}
}

// PolicyBody is the content shared by the privacy policy and the terms of
// use.
type PolicyBody struct {
	Titre   multilingual.Field `json:"titre"`
	Contenu multilingual.Field `json:"contenu"`
	Version int                `json:"version"`
	Active  versioned.Active   `json:"active"`

	DateCreation     string `json:"date_creation,omitempty"`
	DateModification string `json:"date_modification,omitempty"`
}

// PolicyPayload is the create/update body for both policy kinds.
type PolicyPayload struct {
	Titre   multilingual.Translations `json:"titre"`
	Contenu multilingual.Translations `json:"contenu"`
	Version int                       `json:"version"`
	Active  bool                      `json:"active"`
}

// Payload builds the write body.
func (b PolicyBody) Payload() PolicyPayload {
	return PolicyPayload{
		Titre:   b.Titre.ArrayForm(),
		Contenu: b.Contenu.ArrayForm(),
		Version: b.Version,
		Active:  bool(b.Active),
	}
}

// Fields returns the multilingual values keyed by wire name.
func (b PolicyBody) Fields() map[string]multilingual.Field {
	return map[string]multilingual.Field{"titre": b.Titre, "contenu": b.Contenu}
}

// PrivacyPolicy is one version of the privacy policy.
type PrivacyPolicy struct {
	ID ID `json:"id"`
	PolicyBody
}

// Terms is one version of the terms of use.
type Terms struct {
	ID ID `json:"condition_id"`
	PolicyBody
}

// Versions returns the version numbers of records, for suggesting the
// next one.
func Versions[T interface{ GetVersion() int }](records []T) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.GetVersion()
	}
	return out
}

// ActiveFlags returns the active flag of every record in order.
func ActiveFlags[T interface{ IsActive() bool }](records []T) []bool {
	out := make([]bool, len(records))
	for i, r := range records {
		out[i] = r.IsActive()
	}
	return out
}

func (a AboutUs) GetVersion() int    { return a.Version }
func (a AboutUs) IsActive() bool     { return bool(a.Active) }
func (b PolicyBody) GetVersion() int { return b.Version }
func (b PolicyBody) IsActive() bool  { return bool(b.Active) }

// FindActive returns the first active record, if any.
func FindActive[T interface{ IsActive() bool }](records []T) (T, bool) {
	for _, r := range records {
		if r.IsActive() {
			return r, true
		}
	}
	var zero T
	return zero, false
}
