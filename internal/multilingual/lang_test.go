// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package multilingual

import "testing"

func TestParseLang(t *testing.T) {
	for _, in := range []string{"ar", "FR", " en "} {
		if _, ok := ParseLang(in); !ok {
			t.Errorf("ParseLang(%q): want ok", in)
		}
	}
	for _, in := range []string{"", "de", "fr-FR"} {
		if _, ok := ParseLang(in); ok {
			t.Errorf("ParseLang(%q): want not ok", in)
		}
	}
}

func TestMatchTag(t *testing.T) {
	tests := []struct {
		in   string
		want Lang
	}{
		{"ar-DZ", AR},
		{"fr-CA", FR},
		{"en-GB", EN},
		{"en", EN},
	}
	for _, tt := range tests {
		got, ok := MatchTag(tt.in)
		if !ok || got != tt.want {
			t.Errorf("MatchTag(%q) = %q, %v; want %q", tt.in, got, ok, tt.want)
		}
	}
	if _, ok := MatchTag("not a tag!"); ok {
		t.Error("MatchTag(garbage): want not ok")
	}
}

func TestMatchAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   Lang
	}{
		{"", DefaultLang},
		{"ar-DZ,ar;q=0.9,fr;q=0.8", AR},
		{"en-US,en;q=0.9", EN},
		{"fr-FR", FR},
		{";;;", DefaultLang},
	}
	for _, tt := range tests {
		if got := MatchAcceptLanguage(tt.header); got != tt.want {
			t.Errorf("MatchAcceptLanguage(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestMetaFor(t *testing.T) {
	if MetaFor(AR).Dir != "rtl" {
		t.Error("arabic should be right-to-left")
	}
	if MetaFor(Lang("xx")).Lang != DefaultLang {
		t.Error("unknown lang should fall back to default metadata")
	}
	if len(AllMeta()) != 3 {
		t.Error("AllMeta should list three languages")
	}
}
