// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the admin console and
// the public site. Admin pages support full-page and HTMX partial rendering,
// detecting the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"toorrii/internal/auth"
	"toorrii/internal/markdown"
	"toorrii/internal/middleware"
	"toorrii/internal/models"
	"toorrii/internal/multilingual"
	"toorrii/internal/session"
)

//go:embed templates/admin/*.html templates/public/*.html
var templateFS embed.FS

// PageData holds all data passed to admin templates.
type PageData struct {
	Title     string            // Page title for <title> tag
	Section   string            // Active sidebar section (e.g., "dashboard", "partners")
	Session   *session.Data     // Current session (nil if none)
	Identity  auth.Identity     // Claims of the access token, for the header
	CSRFToken string            // CSRF token for forms and HTMX headers
	Lang      multilingual.Lang // Display language of list pages
	Flashes   []session.Flash   // One-time notification messages
	// ContactExists disables the sidebar "Add Contact" entry.
	ContactExists bool
	Data          map[string]any // Page-specific data
}

// PublicData holds all data passed to public site templates.
type PublicData struct {
	Title     string
	Lang      multilingual.Lang
	Path      string          // request path, for the language switcher
	Contact   *models.Contact // footer details, nil when none exists
	Data      map[string]any
	Languages []multilingual.Meta
}

// Dir is the text direction of the page language.
func (d *PublicData) Dir() string { return multilingual.MetaFor(d.Lang).Dir }

// Renderer handles template parsing and execution.
type Renderer struct {
	admin   map[string]*template.Template
	public  map[string]*template.Template
	funcMap template.FuncMap
}

// standaloneTemplates render as full HTML pages without the admin layout.
var standaloneTemplates = map[string]bool{
	"login": true,
}

// mlInput describes one multilingual form control: a tab per language
// bound to key.ar, key.fr and key.en.
type mlInput struct {
	Key       string
	Label     string
	Value     multilingual.Field
	Textarea  bool
	Required  bool
	Languages []multilingual.Meta
}

// AssetField is the logo or banner control of the partner form. The
// upload endpoint re-renders it with the stored URL.
type AssetField struct {
	Kind    string // form field name: "logo" or "banniere"
	Label   string
	URL     string
	Error   string
	Enabled bool // uploads configured
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each admin page is paired with the admin base layout and
// each public page with the public layout. When devMode is true, pages
// load HTMX unminified.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		admin:  make(map[string]*template.Template),
		public: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "active"
				}
				return ""
			},
			"deref": models.Deref,
			"isDev": func() bool { return devMode },
			// tr shows f in lang with the usual fallbacks.
			"tr": func(f multilingual.Field, lang multilingual.Lang) string {
				return f.Display(lang)
			},
			"trOr": func(f multilingual.Field, lang multilingual.Lang, placeholder string) string {
				return f.DisplayOr(lang, placeholder)
			},
			"slot": func(f multilingual.Field, lang multilingual.Lang) string {
				return f.Get(lang)
			},
			"langs": multilingual.AllMeta,
			"meta":  multilingual.MetaFor,
			"md":    markdown.Render,
			"ml": func(key, label string, value multilingual.Field, textarea, required bool) mlInput {
				return mlInput{
					Key: key, Label: label, Value: value,
					Textarea: textarea, Required: required,
					Languages: multilingual.AllMeta(),
				}
			},
			"langProgress": func(p multilingual.Progress, lang multilingual.Lang) multilingual.LangProgress {
				return p.Lang(lang)
			},
			"assetField": func(kind, label, url string, enabled bool) AssetField {
				return AssetField{Kind: kind, Label: label, URL: url, Enabled: enabled}
			},
			"partnerTypes": func() []models.PartnerType { return models.PartnerTypes },
			"truncate": func(s string, n int) string {
				runes := []rune(s)
				if len(runes) <= n {
					return s
				}
				return string(runes[:n]) + "…"
			},
			"dateOnly": func(s string) string {
				if len(s) > 10 {
					return s[:10]
				}
				return s
			},
		},
	}

	if err := r.parse("admin", "base.html", r.admin, standaloneTemplates); err != nil {
		return nil, err
	}
	if err := r.parse("public", "layout.html", r.public, nil); err != nil {
		return nil, err
	}
	return r, nil
}

// parse pairs every page in templates/dir with the layout file.
func (r *Renderer) parse(dir, layout string, into map[string]*template.Template, standalone map[string]bool) error {
	entries, err := fs.ReadDir(templateFS, "templates/"+dir)
	if err != nil {
		return fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == layout || !strings.HasSuffix(name, ".html") {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		if standalone[tmplName] {
			tmpl, err = template.New(name).Funcs(r.funcMap).ParseFS(templateFS, "templates/"+dir+"/"+name)
		} else {
			tmpl, err = template.New(layout).Funcs(r.funcMap).ParseFS(
				templateFS, "templates/"+dir+"/"+layout, "templates/"+dir+"/"+name,
			)
		}
		if err != nil {
			return fmt.Errorf("parse template %s/%s: %w", dir, name, err)
		}
		into[tmplName] = tmpl
	}
	return nil
}

// Page renders a full admin page or an HTMX partial, depending on the
// request headers. For HTMX requests, only the "content" block is sent.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.admin[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	if data.Session != nil && data.Identity.Email == "" {
		if id, ok := auth.ParseIdentity(data.Session.AccessToken); ok {
			data.Identity = id
		}
		if data.Identity.Email == "" {
			data.Identity.Email = data.Session.Email
		}
	}
	if data.Lang == "" {
		data.Lang = multilingual.DefaultLang
	}

	execName := "base.html"
	switch {
	case isHTMX(r) && !standaloneTemplates[name]:
		execName = "content"
	case standaloneTemplates[name]:
		execName = name + ".html"
	}

	rn.write(w, tmpl, execName, data)
}

// Fragment renders a named block of an admin page, for HTMX swaps such as
// a table row.
func (rn *Renderer) Fragment(w http.ResponseWriter, page, block string, data any) {
	tmpl, ok := rn.admin[page]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", page), http.StatusInternalServerError)
		return
	}
	rn.write(w, tmpl, block, data)
}

// Public renders a public site page into memory so the caller can cache it.
func (rn *Renderer) Public(name string, data *PublicData) ([]byte, error) {
	tmpl, ok := rn.public[name]
	if !ok {
		return nil, fmt.Errorf("public template %q not found", name)
	}
	if data.Lang == "" {
		data.Lang = multilingual.DefaultLang
	}
	data.Languages = multilingual.AllMeta()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// write executes into a buffer first so a template error never leaves a
// half-written page.
func (rn *Renderer) write(w http.ResponseWriter, tmpl *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
