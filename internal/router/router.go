// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Toorrii console and public site. It organizes routes into public and
// admin groups with appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"toorrii/internal/handlers"
	"toorrii/internal/middleware"
	"toorrii/internal/session"
	"toorrii/web"
)

// Options tune the middleware stacks.
type Options struct {
	// Secure marks cookies Secure. Set outside development.
	Secure bool
	// LoginLimiter throttles login attempts per client. Nil disables it.
	LoginLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessions session.Manager, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check: no session, no CSRF.
	r.Get("/health", healthHandler)

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.Secure))
		r.Use(middleware.LoadSession(sessions))
		r.Use(middleware.NoStore)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, handlers.DashboardPath, http.StatusSeeOther)
		})

		// Auth pages, reachable without a signed-in session.
		r.With(middleware.RedirectIfAuthenticated(handlers.DashboardPath)).Get("/login", auth.LoginPage)
		login := r.With()
		if opts.LoginLimiter != nil {
			login = r.With(opts.LoginLimiter.Middleware)
		}
		login.Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)
		// The stream reports the end of the session itself, so it must
		// not redirect.
		r.Get("/session/events", auth.SessionEvents)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/dashboard", admin.Dashboard)

			r.Route("/partners", func(r chi.Router) {
				r.Get("/", admin.PartnersList)
				r.Get("/create", admin.PartnerNew)
				r.Post("/create", admin.PartnerCreate)
				r.Get("/edit/{id}", admin.PartnerEdit)
				r.Post("/edit/{id}", admin.PartnerUpdate)
				r.Delete("/{id}", admin.PartnerDelete)
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", admin.ContactsList)
				r.Get("/create", admin.ContactNew)
				r.Post("/create", admin.ContactCreate)
				r.Get("/edit", admin.ContactEdit)
				r.Post("/edit", admin.ContactUpdate)
			})

			r.Route("/about-us", func(r chi.Router) {
				r.Get("/", admin.AboutUsView)
				r.Get("/versions", admin.AboutUsVersions)
				r.Get("/create", admin.AboutUsNew)
				r.Post("/create", admin.AboutUsCreate)
				r.Get("/edit/{id}", admin.AboutUsEdit)
				r.Post("/edit/{id}", admin.AboutUsUpdate)
				r.Put("/{id}/activate", admin.AboutUsActivate)
				r.Post("/{id}/activate", admin.AboutUsActivate)
			})

			r.Route("/privacy-policy", policyRoutes(admin.Privacy))
			r.Route("/terms", policyRoutes(admin.Terms))

			r.Post("/assets", admin.AssetUpload)
		})
	})

	// Public site, in the visitor's language.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Language(opts.Secure))
		r.Get("/", public.Homepage)
		r.Get("/about-us", public.AboutUs)
		r.Get("/privacy-policy", public.PrivacyPolicy)
		r.Get("/terms-of-service", public.Terms)
		r.Get("/contact", public.Contact)
		r.Get("/partner/{id}", public.Partner)
	})

	return r
}

func policyRoutes(p *handlers.Policies) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", p.List)
		r.Get("/create", p.New)
		r.Post("/create", p.Create)
		r.Get("/{id}", p.Edit)
		r.Post("/{id}", p.Update)
		r.Put("/{id}/activate", p.Activate)
		r.Post("/{id}/activate", p.Activate)
	}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
