// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests: an in-memory REST backend, an in-memory session store
// and a router wired like the production one, minus CSRF.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"toorrii/internal/auth"
	"toorrii/internal/backend"
	"toorrii/internal/events"
	"toorrii/internal/middleware"
	"toorrii/internal/models"
	"toorrii/internal/render"
	"toorrii/internal/session"
)

const (
	testToken    = "good-token"
	testRefresh  = "good-refresh"
	testEmail    = "admin@toorrii.test"
	testPassword = "secret"
)

// fakeAPI is an in-memory stand-in for the Toorrii REST backend. Write
// endpoints require the bearer token testToken; any other token is
// rejected on every endpoint.
type fakeAPI struct {
	mu       sync.Mutex
	nextID   int
	partners []models.Partner
	contact  *models.Contact
	about    []models.AboutUs
	privacy  []models.PrivacyPolicy
	terms    []models.Terms

	deleteFails bool
	logouts     int
	// termsQuery is the condition_id of the last terms update.
	termsQuery string
}

func (f *fakeAPI) id() models.ID {
	f.nextID++
	return models.ID(fmt.Sprint(f.nextID))
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/Admin/loginAdmin/", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != testEmail || req.Password != testPassword {
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		reply(w, http.StatusOK, models.LoginResponse{AccessToken: testToken, RefreshToken: testRefresh})
	})
	mux.Handle("POST /auth/Admin/logoutAdmin/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		f.logouts++
		reply(w, http.StatusOK, map[string]string{})
	}))

	// Partners
	mux.HandleFunc("GET /home/partenaire/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		reply(w, http.StatusOK, f.partners)
	})
	mux.HandleFunc("GET /home/partenaire/{id}/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, p := range f.partners {
			if p.ID.String() == r.PathValue("id") {
				reply(w, http.StatusOK, p)
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"message": "Partner not found."})
	})
	mux.Handle("POST /admins/partenaire/ajouter/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var p models.Partner
		json.NewDecoder(r.Body).Decode(&p)
		p.ID = f.id()
		f.partners = append(f.partners, p)
		reply(w, http.StatusCreated, p)
	}))
	mux.Handle("PUT /admins/partenaire/modifier/{id}/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var p models.Partner
		json.NewDecoder(r.Body).Decode(&p)
		for i := range f.partners {
			if f.partners[i].ID.String() == r.PathValue("id") {
				p.ID = f.partners[i].ID
				f.partners[i] = p
				reply(w, http.StatusOK, p)
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"message": "Partner not found."})
	}))
	mux.Handle("DELETE /admins/partenaire/supprimer/{id}/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		if f.deleteFails {
			reply(w, http.StatusInternalServerError, map[string]string{"message": "Partner is still referenced."})
			return
		}
		for i := range f.partners {
			if f.partners[i].ID.String() == r.PathValue("id") {
				f.partners = append(f.partners[:i], f.partners[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"message": "Partner not found."})
	}))

	// Contact
	mux.HandleFunc("GET /home/contact/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.contact == nil {
			reply(w, http.StatusOK, []models.Contact{})
			return
		}
		reply(w, http.StatusOK, []models.Contact{*f.contact})
	})
	mux.Handle("POST /admins/contact/ajouter/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var c models.Contact
		json.NewDecoder(r.Body).Decode(&c)
		c.ID = f.id()
		f.contact = &c
		reply(w, http.StatusCreated, c)
	}))
	mux.Handle("PUT /admins/contact/modifier/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var c models.Contact
		json.NewDecoder(r.Body).Decode(&c)
		if f.contact != nil {
			c.ID = f.contact.ID
		}
		f.contact = &c
		reply(w, http.StatusOK, c)
	}))

	// About-Us
	mux.HandleFunc("GET /home/a_propos_nous/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		reply(w, http.StatusOK, f.about)
	})
	mux.Handle("POST /admins/a_propos_nous/ajouter/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var a models.AboutUs
		json.NewDecoder(r.Body).Decode(&a)
		a.ID = f.id()
		f.about = append(f.about, a)
		reply(w, http.StatusCreated, a)
	}))
	mux.Handle("PUT /admins/a_propos_nous/modifier/{id}/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var a models.AboutUs
		json.NewDecoder(r.Body).Decode(&a)
		for i := range f.about {
			if f.about[i].ID.String() == r.PathValue("id") {
				a.ID = f.about[i].ID
				f.about[i] = a
			}
		}
		reply(w, http.StatusOK, a)
	}))
	mux.Handle("PUT /admins/a_propos_nous/activer/{id}/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		for i := range f.about {
			f.about[i].Active = f.about[i].ID.String() == r.PathValue("id")
		}
		reply(w, http.StatusOK, map[string]string{"message": "ok"})
	}))

	// Privacy policy
	mux.HandleFunc("GET /home/politique_confidentialite/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		reply(w, http.StatusOK, f.privacy)
	})
	mux.Handle("POST /admins/politique_confidentialite/ajouter/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var p models.PrivacyPolicy
		json.NewDecoder(r.Body).Decode(&p.PolicyBody)
		p.ID = f.id()
		f.privacy = append(f.privacy, p)
		reply(w, http.StatusCreated, p)
	}))
	mux.Handle("PUT /admins/politique_confidentialite/modifier/{id}/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var b models.PolicyBody
		json.NewDecoder(r.Body).Decode(&b)
		for i := range f.privacy {
			if f.privacy[i].ID.String() == r.PathValue("id") {
				f.privacy[i].PolicyBody = b
			}
		}
		reply(w, http.StatusOK, b)
	}))

	// Terms of use
	mux.HandleFunc("GET /home/condition_dutilisation/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		reply(w, http.StatusOK, f.terms)
	})
	mux.Handle("POST /admins/condition_dutilisation/ajouter/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var t models.Terms
		json.NewDecoder(r.Body).Decode(&t.PolicyBody)
		t.ID = f.id()
		f.terms = append(f.terms, t)
		reply(w, http.StatusCreated, t)
	}))
	mux.Handle("PUT /admins/condition_dutilisation/modifier/", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var b models.PolicyBody
		json.NewDecoder(r.Body).Decode(&b)
		f.termsQuery = r.URL.Query().Get("condition_id")
		for i := range f.terms {
			if f.terms[i].ID.String() == f.termsQuery {
				f.terms[i].PolicyBody = b
			}
		}
		reply(w, http.StatusOK, b)
	}))

	// A stale token is rejected everywhere, anonymous reads are not.
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" && h != "Bearer "+testToken {
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// authed rejects requests without the test bearer token and serializes
// handlers that mutate state.
func (f *fakeAPI) authed(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		h(w, r)
	})
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// fakeAssets records uploads in memory.
type fakeAssets struct {
	mu      sync.Mutex
	uploads map[string]string // key -> content type
}

func (a *fakeAssets) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	io.Copy(io.Discard, body)
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.uploads == nil {
		a.uploads = make(map[string]string)
	}
	a.uploads[key] = contentType
	return nil
}

func (a *fakeAssets) FileURL(key string) string { return "https://cdn.toorrii.test/" + key }

// testEnv bundles the handler groups over one fake backend.
type testEnv struct {
	api      *fakeAPI
	sessions *session.MemoryStore
	bus      *events.Local
	admin    *Admin
	auth     *Auth
	public   *Public
	router   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithAssets(t, nil)
}

func newTestEnvWithAssets(t *testing.T, assets Assets) *testEnv {
	t.Helper()

	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	renderer, err := render.New(false)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewMemoryStore()
	bus := events.NewLocal()
	services := backend.NewServices(backend.New(srv.URL, bus))
	gate := auth.NewGate(sessions, bus, services.Auth)
	t.Cleanup(gate.Close)

	env := &testEnv{
		api:      api,
		sessions: sessions,
		bus:      bus,
		admin:    NewAdmin(renderer, sessions, services, nil, nil, assets),
		auth:     NewAuth(renderer, sessions, services.Auth, gate, bus, nil),
		public:   NewPublic(renderer, services, nil),
	}
	env.router = env.routes()
	return env
}

// routes mirrors the production router without CSRF and rate limiting.
func (e *testEnv) routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.LoadSession(e.sessions))
		r.Get("/login", e.auth.LoginPage)
		r.Post("/login", e.auth.LoginSubmit)
		r.Post("/logout", e.auth.Logout)
		r.Get("/session/events", e.auth.SessionEvents)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/dashboard", e.admin.Dashboard)

			r.Get("/partners", e.admin.PartnersList)
			r.Get("/partners/create", e.admin.PartnerNew)
			r.Post("/partners/create", e.admin.PartnerCreate)
			r.Get("/partners/edit/{id}", e.admin.PartnerEdit)
			r.Post("/partners/edit/{id}", e.admin.PartnerUpdate)
			r.Delete("/partners/{id}", e.admin.PartnerDelete)

			r.Get("/contacts", e.admin.ContactsList)
			r.Get("/contacts/create", e.admin.ContactNew)
			r.Post("/contacts/create", e.admin.ContactCreate)
			r.Get("/contacts/edit", e.admin.ContactEdit)
			r.Post("/contacts/edit", e.admin.ContactUpdate)

			r.Get("/about-us", e.admin.AboutUsView)
			r.Get("/about-us/versions", e.admin.AboutUsVersions)
			r.Get("/about-us/create", e.admin.AboutUsNew)
			r.Post("/about-us/create", e.admin.AboutUsCreate)
			r.Get("/about-us/edit/{id}", e.admin.AboutUsEdit)
			r.Post("/about-us/edit/{id}", e.admin.AboutUsUpdate)
			r.Put("/about-us/{id}/activate", e.admin.AboutUsActivate)

			for base, p := range map[string]*Policies{"/privacy-policy": e.admin.Privacy, "/terms": e.admin.Terms} {
				r.Get(base, p.List)
				r.Get(base+"/create", p.New)
				r.Post(base+"/create", p.Create)
				r.Get(base+"/{id}", p.Edit)
				r.Post(base+"/{id}", p.Update)
				r.Put(base+"/{id}/activate", p.Activate)
			}

			r.Post("/assets", e.admin.AssetUpload)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Language(false))
		r.Get("/", e.public.Homepage)
		r.Get("/about-us", e.public.AboutUs)
		r.Get("/privacy-policy", e.public.PrivacyPolicy)
		r.Get("/terms-of-service", e.public.Terms)
		r.Get("/contact", e.public.Contact)
		r.Get("/partner/{id}", e.public.Partner)
	})
	return r
}

// signIn seeds a session holding token and returns its cookie.
func (e *testEnv) signIn(token string) *http.Cookie {
	id := fmt.Sprintf("sess-%s", token)
	e.sessions.Put(session.Data{ID: id, AccessToken: token, RefreshToken: testRefresh, Email: testEmail})
	return &http.Cookie{Name: session.CookieName, Value: id}
}

// do sends a request through the router. A non-nil form is sent
// url-encoded.
func (e *testEnv) do(method, target string, form url.Values, cookie *http.Cookie, htmx bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// sessionCookie returns the session cookie set by rr, if any.
func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge >= 0 && c.Value != "" {
			return c
		}
	}
	return nil
}

func assertContains(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("body should contain %q", want)
		}
	}
}

func assertRedirect(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303 (body: %s)", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != want {
		t.Errorf("Location: got %q, want %q", loc, want)
	}
}
