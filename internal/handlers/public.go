// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"toorrii/internal/backend"
	"toorrii/internal/cache"
	"toorrii/internal/middleware"
	"toorrii/internal/models"
	"toorrii/internal/multilingual"
	"toorrii/internal/render"
)

// errNoPage marks content that does not exist or is not published.
var errNoPage = errors.New("page not found")

// homeTitles is the home page title per language.
var homeTitles = multilingual.Field{AR: "الرئيسية", FR: "Accueil", EN: "Home"}

// Public serves the public site from the backend, one cached rendering per
// page and language.
type Public struct {
	renderer  *render.Renderer
	api       *backend.Services
	pageCache *cache.PageCache
}

// NewPublic creates a new Public handler group. pageCache may be nil.
func NewPublic(renderer *render.Renderer, api *backend.Services, pageCache *cache.PageCache) *Public {
	return &Public{renderer: renderer, api: api, pageCache: pageCache}
}

// Homepage shows the active About-Us hero and the active partners, highest
// display priority first.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "home", "home", func(ctx context.Context, d *render.PublicData) error {
		d.Title = homeTitles.Get(d.Lang)

		versions, err := p.api.AboutUs.List(ctx)
		if err != nil {
			return err
		}
		var about *models.AboutUs
		if v, ok := models.FindActive(versions); ok {
			about = &v
		}

		partners, err := p.api.Partners.List(ctx)
		if err != nil {
			return err
		}
		d.Data["About"] = about
		d.Data["Partners"] = publishedPartners(partners)
		return nil
	})
}

// AboutUs shows the active About-Us version.
func (p *Public) AboutUs(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "about-us", "about", func(ctx context.Context, d *render.PublicData) error {
		versions, err := p.api.AboutUs.List(ctx)
		if err != nil {
			return err
		}
		var about *models.AboutUs
		if v, ok := models.FindActive(versions); ok {
			about = &v
			d.Title = v.Titre.Display(d.Lang)
		}
		d.Data["About"] = about
		return nil
	})
}

// PrivacyPolicy shows the active privacy policy.
func (p *Public) PrivacyPolicy(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "privacy-policy", "policy", func(ctx context.Context, d *render.PublicData) error {
		items, err := p.api.Privacy.List(ctx)
		if err != nil {
			return err
		}
		var body *models.PolicyBody
		if v, ok := models.FindActive(items); ok {
			body = &v.PolicyBody
			d.Title = v.Titre.Display(d.Lang)
		}
		d.Data["Body"] = body
		return nil
	})
}

// Terms shows the active terms of use.
func (p *Public) Terms(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "terms-of-service", "policy", func(ctx context.Context, d *render.PublicData) error {
		items, err := p.api.Terms.List(ctx)
		if err != nil {
			return err
		}
		var body *models.PolicyBody
		if v, ok := models.FindActive(items); ok {
			body = &v.PolicyBody
			d.Title = v.Titre.Display(d.Lang)
		}
		d.Data["Body"] = body
		return nil
	})
}

// Contact shows the contact record, which the layout also uses for the
// footer.
func (p *Public) Contact(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "contact", "contact", func(ctx context.Context, d *render.PublicData) error {
		if d.Contact != nil {
			d.Title = d.Contact.Titre.Display(d.Lang)
		}
		return nil
	})
}

// Partner shows one active partner.
func (p *Public) Partner(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p.serve(w, r, "partner/"+id, "partner", func(ctx context.Context, d *render.PublicData) error {
		partner, err := p.api.Partners.Get(ctx, id)
		if err != nil {
			return err
		}
		if !partner.Actif {
			return errNoPage
		}
		d.Title = partner.Nom.Display(d.Lang)
		d.Data["Partner"] = &partner
		return nil
	})
}

// serve writes the cached rendering of page in the visitor's language, or
// builds it with load, renders tmpl and caches the result.
func (p *Public) serve(w http.ResponseWriter, r *http.Request, page, tmpl string, load func(ctx context.Context, d *render.PublicData) error) {
	ctx := r.Context()
	lang := middleware.LangFromCtx(ctx)
	key := cache.PageKey(page, lang)

	if cached, ok := p.pageCache.Get(ctx, key); ok {
		writeHTML(w, cached)
		return
	}

	d := &render.PublicData{Lang: lang, Path: r.URL.Path, Data: map[string]any{}}
	if c, ok, err := p.api.Contacts.Get(ctx); err != nil {
		slog.Warn("footer contact lookup failed", "error", err)
	} else if ok {
		d.Contact = &c
	}

	if err := load(ctx, d); err != nil {
		if errors.Is(err, errNoPage) || errors.Is(err, backend.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("public page load failed", "page", page, "error", err)
		http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	out, err := p.renderer.Public(tmpl, d)
	if err != nil {
		slog.Error("public page render failed", "page", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	p.pageCache.Set(ctx, key, out)
	writeHTML(w, out)
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}

// publishedPartners keeps active partners, highest display priority first.
func publishedPartners(all []models.Partner) []models.Partner {
	out := make([]models.Partner, 0, len(all))
	for _, p := range all {
		if p.Actif {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(x, y models.Partner) int {
		return cmp.Compare(y.PrioriteAffichage, x.PrioriteAffichage)
	})
	return out
}
