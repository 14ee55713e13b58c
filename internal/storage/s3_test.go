// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"errors"
	"strings"
	"testing"
)

func TestNewWithoutCredentials(t *testing.T) {
	c, err := New("", "us-east-1", "", "", "assets", "")
	if err != nil || c != nil {
		t.Fatalf("New without endpoint: got %v, %v; want nil, nil", c, err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New("http://minio:9000", "us-east-1", "key", "secret", "", ""); err == nil {
		t.Fatal("expected error for empty bucket")
	}
}

func TestFileURLAndExtractKey(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		wantURL   string
	}{
		{"path style", "", "http://minio:9000/assets/partners/logo/a.png"},
		{"cdn", "https://cdn.toorrii.test/", "https://cdn.toorrii.test/partners/logo/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New("http://minio:9000/", "us-east-1", "key", "secret", "assets", tt.publicURL)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			got := c.FileURL("partners/logo/a.png")
			if got != tt.wantURL {
				t.Errorf("FileURL: got %q, want %q", got, tt.wantURL)
			}
			key, ok := c.ExtractKey(got)
			if !ok || key != "partners/logo/a.png" {
				t.Errorf("ExtractKey: got %q, %v", key, ok)
			}
			if _, ok := c.ExtractKey("https://elsewhere.test/x.png"); ok {
				t.Error("foreign URL should not match")
			}
		})
	}
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name        string
		kind        string
		filename    string
		contentType string
		wantPrefix  string
		wantSuffix  string
		wantErr     bool
	}{
		{"png logo", "logo", "acme.png", "image/png", "partners/logo/", ".png", false},
		{"jpeg keeps jpeg", "banniere", "wide.JPEG", "image/jpeg", "partners/banniere/", ".jpeg", false},
		{"jpg from type", "logo", "noext", "image/jpeg", "partners/logo/", ".jpg", false},
		{"params ignored", "logo", "a.svg", "image/svg+xml; charset=utf-8", "partners/logo/", ".svg", false},
		{"empty kind", "", "a.webp", "image/webp", "partners/assets/", ".webp", false},
		{"pdf rejected", "logo", "a.pdf", "application/pdf", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ObjectKey(tt.kind, tt.filename, tt.contentType)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedType) {
					t.Fatalf("expected ErrUnsupportedType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ObjectKey: %v", err)
			}
			if !strings.HasPrefix(key, tt.wantPrefix) || !strings.HasSuffix(key, tt.wantSuffix) {
				t.Errorf("key %q: want prefix %q suffix %q", key, tt.wantPrefix, tt.wantSuffix)
			}
		})
	}

	a, _ := ObjectKey("logo", "a.png", "image/png")
	b, _ := ObjectKey("logo", "a.png", "image/png")
	if a == b {
		t.Error("keys should be unique")
	}
}
