// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"

	"toorrii/internal/multilingual"
)

const (
	// LangCookieName remembers the visitor's chosen display language.
	LangCookieName = "toorrii_lang"

	// LangQueryParam switches the display language.
	LangQueryParam = "lang"

	langKey contextKey = "lang"
)

// Language resolves the display language of the request, in order: the
// ?lang= query parameter (persisted in a cookie), the cookie, the
// Accept-Language header, then the default language.
func Language(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang, fromQuery := resolveLang(r)
			if fromQuery {
				http.SetCookie(w, &http.Cookie{
					Name:     LangCookieName,
					Value:    string(lang),
					Path:     "/",
					MaxAge:   365 * 24 * 60 * 60,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
		})
	}
}

func resolveLang(r *http.Request) (multilingual.Lang, bool) {
	if l, ok := multilingual.MatchTag(r.URL.Query().Get(LangQueryParam)); ok {
		return l, true
	}
	if c, err := r.Cookie(LangCookieName); err == nil {
		if l, ok := multilingual.ParseLang(c.Value); ok {
			return l, false
		}
	}
	return multilingual.MatchAcceptLanguage(r.Header.Get("Accept-Language")), false
}

// WithLang returns ctx carrying lang.
func WithLang(ctx context.Context, lang multilingual.Lang) context.Context {
	return context.WithValue(ctx, langKey, lang)
}

// LangFromCtx returns the display language, or the default when none was
// resolved.
func LangFromCtx(ctx context.Context) multilingual.Lang {
	if l, ok := ctx.Value(langKey).(multilingual.Lang); ok {
		return l
	}
	return multilingual.DefaultLang
}
