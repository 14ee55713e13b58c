// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// LoginRequest is the administrator login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued tokens. Other fields the backend
// returns are ignored.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Message      string `json:"message,omitempty"`
}

// LogoutRequest asks the backend to blacklist a refresh token.
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}
