// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the console shows about the signed-in administrator.
// It is read from the access token without verifying the signature; the
// backend remains the only judge of the token's validity.
type Identity struct {
	Email     string
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim is in the past.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ParseIdentity extracts display claims from a JWT access token. Tokens
// that are not JWTs yield ok=false.
func ParseIdentity(token string) (Identity, bool) {
	if token == "" {
		return Identity{}, false
	}
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Identity{}, false
	}
	id := Identity{Email: claims.Email, Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, true
}
