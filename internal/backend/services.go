// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"context"
	"net/http"

	"toorrii/internal/models"
)

// Services groups the per-resource APIs over one Client.
type Services struct {
	Auth     *AuthService
	Partners *PartnerService
	Contacts *ContactService
	AboutUs  *AboutUsService
	Privacy  *PrivacyService
	Terms    *TermsService
}

// NewServices wires every resource API to c.
func NewServices(c *Client) *Services {
	return &Services{
		Auth:     &AuthService{c: c},
		Partners: &PartnerService{c: c},
		Contacts: &ContactService{c: c},
		AboutUs:  &AboutUsService{c: c},
		Privacy:  &PrivacyService{c: c},
		Terms:    &TermsService{c: c},
	}
}

// AuthService logs administrators in and out.
type AuthService struct{ c *Client }

// Login exchanges credentials for tokens. A rejected login is an ordinary
// error and does not raise the auth signal.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	body, err := s.c.send(ctx, call{
		method:    http.MethodPost,
		path:      "auth/Admin/loginAdmin/",
		body:      models.LoginRequest{Email: email, Password: password},
		fallback:  "An unknown error occurred.",
		anonymous: true,
		quiet:     true,
	})
	if err != nil {
		return models.LoginResponse{}, err
	}
	return decodeOne[models.LoginResponse](body)
}

// Logout asks the backend to blacklist refreshToken, authenticating with
// the access token in ctx.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	_, err := s.c.send(ctx, call{
		method:   http.MethodPost,
		path:     "auth/Admin/logoutAdmin/",
		body:     models.LogoutRequest{Refresh: refreshToken},
		fallback: "Logout failed.",
		quiet:    true,
	})
	return err
}

// PartnerService manages the partner directory.
type PartnerService struct{ c *Client }

func (s *PartnerService) List(ctx context.Context) ([]models.Partner, error) {
	body, err := s.c.send(ctx, call{method: http.MethodGet, path: "home/partenaire/", fallback: "Failed to fetch partners."})
	if err != nil {
		return nil, err
	}
	return decodeList[models.Partner](body)
}

func (s *PartnerService) Get(ctx context.Context, id string) (models.Partner, error) {
	body, err := s.c.send(ctx, call{
		method:     http.MethodGet,
		path:       "home/partenaire/{id}/",
		pathParams: map[string]string{"id": id},
		fallback:   "Failed to fetch partner information.",
	})
	if err != nil {
		return models.Partner{}, err
	}
	return decodeOne[models.Partner](body)
}

func (s *PartnerService) Create(ctx context.Context, p models.Partner) (models.Partner, error) {
	body, err := s.c.send(ctx, call{
		method:   http.MethodPost,
		path:     "admins/partenaire/ajouter/",
		body:     p.Payload(),
		fallback: "Failed to create partner.",
	})
	if err != nil {
		return models.Partner{}, err
	}
	return decodeOne[models.Partner](body)
}

func (s *PartnerService) Update(ctx context.Context, id string, p models.Partner) (models.Partner, error) {
	body, err := s.c.send(ctx, call{
		method:     http.MethodPut,
		path:       "admins/partenaire/modifier/{id}/",
		pathParams: map[string]string{"id": id},
		body:       p.Payload(),
		fallback:   "Failed to update partner.",
	})
	if err != nil {
		return models.Partner{}, err
	}
	return decodeOne[models.Partner](body)
}

func (s *PartnerService) Delete(ctx context.Context, id string) error {
	_, err := s.c.send(ctx, call{
		method:     http.MethodDelete,
		path:       "admins/partenaire/supprimer/{id}/",
		pathParams: map[string]string{"id": id},
		fallback:   "Failed to delete partner.",
	})
	return err
}

// ContactService manages the singleton contact record.
type ContactService struct{ c *Client }

// List returns the stored contacts; at most one is expected.
func (s *ContactService) List(ctx context.Context) ([]models.Contact, error) {
	body, err := s.c.send(ctx, call{method: http.MethodGet, path: "home/contact/", fallback: "Failed to fetch contact information."})
	if err != nil {
		return nil, err
	}
	return decodeList[models.Contact](body)
}

// Get returns the contact record and whether one exists.
func (s *ContactService) Get(ctx context.Context) (models.Contact, bool, error) {
	list, err := s.List(ctx)
	if err != nil || len(list) == 0 {
		return models.Contact{}, false, err
	}
	return list[0], true, nil
}

func (s *ContactService) Create(ctx context.Context, c models.Contact) (models.Contact, error) {
	body, err := s.c.send(ctx, call{
		method:   http.MethodPost,
		path:     "admins/contact/ajouter/",
		body:     c.Payload(),
		fallback: "Failed to create contact information.",
	})
	if err != nil {
		return models.Contact{}, err
	}
	return decodeOne[models.Contact](body)
}

// Update replaces the contact record. The endpoint takes no id.
func (s *ContactService) Update(ctx context.Context, c models.Contact) (models.Contact, error) {
	body, err := s.c.send(ctx, call{
		method:   http.MethodPut,
		path:     "admins/contact/modifier/",
		body:     c.Payload(),
		fallback: "Failed to update contact information.",
	})
	if err != nil {
		return models.Contact{}, err
	}
	return decodeOne[models.Contact](body)
}

// AboutUsService manages About-Us versions.
type AboutUsService struct{ c *Client }

func (s *AboutUsService) List(ctx context.Context) ([]models.AboutUs, error) {
	body, err := s.c.send(ctx, call{method: http.MethodGet, path: "home/a_propos_nous/", fallback: "Failed to fetch About Us information."})
	if err != nil {
		return nil, err
	}
	return decodeList[models.AboutUs](body)
}

// Get finds one version by id. The backend has no detail endpoint, so the
// list is scanned.
func (s *AboutUsService) Get(ctx context.Context, id string) (models.AboutUs, error) {
	list, err := s.List(ctx)
	if err != nil {
		return models.AboutUs{}, err
	}
	for _, a := range list {
		if a.ID.String() == id {
			return a, nil
		}
	}
	return models.AboutUs{}, &Error{Status: http.StatusNotFound, Message: "About Us version not found.", Err: ErrNotFound}
}

func (s *AboutUsService) Create(ctx context.Context, a models.AboutUs) (models.AboutUs, error) {
	body, err := s.c.send(ctx, call{
		method:   http.MethodPost,
		path:     "admins/a_propos_nous/ajouter/",
		body:     a.Payload(),
		fallback: "Failed to create About Us.",
	})
	if err != nil {
		return models.AboutUs{}, err
	}
	return decodeOne[models.AboutUs](body)
}

func (s *AboutUsService) Update(ctx context.Context, id string, a models.AboutUs) (models.AboutUs, error) {
	body, err := s.c.send(ctx, call{
		method:     http.MethodPut,
		path:       "admins/a_propos_nous/modifier/{id}/",
		pathParams: map[string]string{"id": id},
		body:       a.Payload(),
		fallback:   "Failed to update About Us.",
	})
	if err != nil {
		return models.AboutUs{}, err
	}
	return decodeOne[models.AboutUs](body)
}

// Activate makes version id the active one. The backend deactivates the
// others.
func (s *AboutUsService) Activate(ctx context.Context, id string) error {
	_, err := s.c.send(ctx, call{
		method:     http.MethodPut,
		path:       "admins/a_propos_nous/activer/{id}/",
		pathParams: map[string]string{"id": id},
		fallback:   "Failed to activate version.",
	})
	return err
}

// PrivacyService manages privacy policy versions.
type PrivacyService struct{ c *Client }

func (s *PrivacyService) List(ctx context.Context) ([]models.PrivacyPolicy, error) {
	body, err := s.c.send(ctx, call{method: http.MethodGet, path: "home/politique_confidentialite/", fallback: "Failed to fetch privacy policies."})
	if err != nil {
		return nil, err
	}
	return decodeList[models.PrivacyPolicy](body)
}

func (s *PrivacyService) Create(ctx context.Context, b models.PolicyBody) (models.PrivacyPolicy, error) {
	body, err := s.c.send(ctx, call{
		method:   http.MethodPost,
		path:     "admins/politique_confidentialite/ajouter/",
		body:     b.Payload(),
		fallback: "Failed to create privacy policy.",
	})
	if err != nil {
		return models.PrivacyPolicy{}, err
	}
	return decodeOne[models.PrivacyPolicy](body)
}

func (s *PrivacyService) Update(ctx context.Context, id string, b models.PolicyBody) (models.PrivacyPolicy, error) {
	body, err := s.c.send(ctx, call{
		method:     http.MethodPut,
		path:       "admins/politique_confidentialite/modifier/{id}/",
		pathParams: map[string]string{"id": id},
		body:       b.Payload(),
		fallback:   "Failed to update privacy policy.",
	})
	if err != nil {
		return models.PrivacyPolicy{}, err
	}
	return decodeOne[models.PrivacyPolicy](body)
}

// TermsService manages terms-of-use versions.
type TermsService struct{ c *Client }

func (s *TermsService) List(ctx context.Context) ([]models.Terms, error) {
	body, err := s.c.send(ctx, call{method: http.MethodGet, path: "home/condition_dutilisation/", fallback: "Failed to fetch terms and conditions."})
	if err != nil {
		return nil, err
	}
	return decodeList[models.Terms](body)
}

func (s *TermsService) Create(ctx context.Context, b models.PolicyBody) (models.Terms, error) {
	body, err := s.c.send(ctx, call{
		method:   http.MethodPost,
		path:     "admins/condition_dutilisation/ajouter/",
		body:     b.Payload(),
		fallback: "Failed to create terms and conditions.",
	})
	if err != nil {
		return models.Terms{}, err
	}
	return decodeOne[models.Terms](body)
}

// Update sends the id as the condition_id query parameter rather than a
// path segment.
func (s *TermsService) Update(ctx context.Context, id string, b models.PolicyBody) (models.Terms, error) {
	body, err := s.c.send(ctx, call{
		method:   http.MethodPut,
		path:     "admins/condition_dutilisation/modifier/",
		query:    map[string]string{"condition_id": id},
		body:     b.Payload(),
		fallback: "Failed to update terms and conditions.",
	})
	if err != nil {
		return models.Terms{}, err
	}
	return decodeOne[models.Terms](body)
}
