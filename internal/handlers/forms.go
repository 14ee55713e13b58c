// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"toorrii/internal/models"
	"toorrii/internal/multilingual"
	"toorrii/internal/versioned"
)

// minLinkRows is how many external link inputs the partner form offers
// beyond the stored ones.
const minLinkRows = 2

func formString(form url.Values, key string) string {
	return strings.TrimSpace(form.Get(key))
}

// formChecked reads a checkbox. Unchecked boxes are not submitted.
func formChecked(form url.Values, key string) bool {
	v := form.Get(key)
	return v == "true" || v == "on" || v == "1"
}

// formFields reads every multilingual field in keys.
func formFields(form url.Values, keys []string) map[string]multilingual.Field {
	out := make(map[string]multilingual.Field, len(keys))
	for _, k := range keys {
		out[k] = multilingual.FromForm(form, k)
	}
	return out
}

// partnerFromForm builds a partner from the submitted form. Dates from
// datetime-local inputs are sent as typed; blank social links become null.
func partnerFromForm(form url.Values) models.Partner {
	priority, _ := strconv.Atoi(formString(form, "priorite_affichage"))

	p := models.Partner{
		Nom:         multilingual.FromForm(form, "nom_partenaire"),
		Description: multilingual.FromForm(form, "description"),
		Adresse: models.Address{
			Rue:   multilingual.FromForm(form, "adresse_rue"),
			Ville: multilingual.FromForm(form, "adresse_ville"),
			Pays:  multilingual.FromForm(form, "adresse_pays"),
		},
		Email:                  formString(form, "email"),
		Telephone:              formString(form, "telephone"),
		Telephone2:             formString(form, "telephone_2"),
		TelephoneFixe:          formString(form, "telephone_fixe"),
		SiteWeb:                formString(form, "site_web"),
		Type:                   models.PartnerType(formString(form, "type_partenaire")),
		Actif:                  versioned.Active(formChecked(form, "actif")),
		Facebook:               models.OptionalString(formString(form, "facebook")),
		Instagram:              models.OptionalString(formString(form, "instagram")),
		Tiktok:                 models.OptionalString(formString(form, "tiktok")),
		DateDeb:                formString(form, "date_deb"),
		DateFin:                formString(form, "date_fin"),
		DateCreationEntreprise: formString(form, "date_creation_entreprise"),
		PrioriteAffichage:      priority,
		Logo:                   formString(form, "logo"),
		Banniere:               formString(form, "banniere"),
	}

	urls := form["lien_url"]
	titles := form["lien_titre"]
	for i, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		title := ""
		if i < len(titles) {
			title = strings.TrimSpace(titles[i])
		}
		p.LiensExternes = append(p.LiensExternes, models.ExternalLink{URL: u, Titre: title})
	}
	return p
}

// partnerFormData is the template data of the partner form.
func partnerFormData(p models.Partner, isNew bool, action string, uploads bool) map[string]any {
	deb, fin, founded := p.FormDates()
	links := append(models.ExternalLinks{}, p.LiensExternes...)
	for i := 0; i < minLinkRows; i++ {
		links = append(links, models.ExternalLink{})
	}
	return map[string]any{
		"Partner":        &p,
		"IsNew":          isNew,
		"Action":         action,
		"DateDeb":        deb,
		"DateFin":        fin,
		"Founded":        founded,
		"UploadsEnabled": uploads,
		"Links":          links,
	}
}

// contactFromForm builds the contact record from the submitted form.
func contactFromForm(form url.Values) models.Contact {
	f := formFields(form, models.ContactFields)
	return models.Contact{
		Titre:          f["titre"],
		Adresse:        f["adresse"],
		Ville:          f["ville"],
		Wilaya:         f["wilaya"],
		MessageAcceuil: f["message_acceuil"],
		Email:          formString(form, "email"),
		Telephone1:     formString(form, "telephone_1"),
		Telephone2:     formString(form, "telephone_2"),
		TelephoneFixe:  formString(form, "telephone_fixe"),
		Horaires:       formString(form, "horaires"),
		SiteWeb:        formString(form, "site_web"),
		Facebook:       formString(form, "facebook"),
		Instagram:      formString(form, "instagram"),
		Tiktok:         formString(form, "tiktok"),
		Linkedin:       formString(form, "linkedin"),
		X:              formString(form, "x"),
	}
}

// policyFromForm reads the policy form. The version falls back to
// suggested when the input is blank.
func policyFromForm(form url.Values, suggested int) models.PolicyBody {
	f := formFields(form, models.RequiredContentFields)
	return models.PolicyBody{
		Titre:   f["titre"],
		Contenu: f["contenu"],
		Version: versioned.ResolveVersion(form.Get("version"), suggested),
		Active:  versioned.Active(formChecked(form, "active")),
	}
}
