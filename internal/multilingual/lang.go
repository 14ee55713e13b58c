// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package multilingual

import (
	"strings"

	"golang.org/x/text/language"
)

// Lang is one of the three supported content languages.
type Lang string

const (
	AR Lang = "ar"
	FR Lang = "fr"
	EN Lang = "en"
)

// DefaultLang is used when nothing better can be negotiated.
const DefaultLang = FR

// Languages lists the supported languages in wire order.
var Languages = []Lang{AR, FR, EN}

// Meta describes how a language is presented in forms.
type Meta struct {
	Lang       Lang
	Label      string // English name, e.g. "French"
	NativeName string // e.g. "Français"
	Dir        string // "ltr" or "rtl"
}

var meta = map[Lang]Meta{
	AR: {Lang: AR, Label: "Arabic", NativeName: "العربية", Dir: "rtl"},
	FR: {Lang: FR, Label: "French", NativeName: "Français", Dir: "ltr"},
	EN: {Lang: EN, Label: "English", NativeName: "English", Dir: "ltr"},
}

// MetaFor returns presentation metadata for lang.
func MetaFor(lang Lang) Meta {
	if m, ok := meta[lang]; ok {
		return m
	}
	return meta[DefaultLang]
}

// AllMeta returns metadata for every supported language, in wire order.
func AllMeta() []Meta {
	out := make([]Meta, 0, len(Languages))
	for _, l := range Languages {
		out = append(out, meta[l])
	}
	return out
}

// ParseLang matches a wire language code exactly (case-insensitive).
func ParseLang(s string) (Lang, bool) {
	switch Lang(strings.ToLower(strings.TrimSpace(s))) {
	case AR:
		return AR, true
	case FR:
		return FR, true
	case EN:
		return EN, true
	}
	return "", false
}

// supportedTags mirrors Languages; the first entry is the matcher fallback.
var supportedTags = []language.Tag{language.French, language.Arabic, language.English}

var matcher = language.NewMatcher(supportedTags)

// MatchTag resolves a BCP 47 tag such as "ar-DZ" or "en-GB" to a
// supported language.
func MatchTag(value string) (Lang, bool) {
	if l, ok := ParseLang(value); ok {
		return l, true
	}
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return fromTag(supportedTags[idx]), true
}

// MatchAcceptLanguage picks the best supported language for an
// Accept-Language header, falling back to DefaultLang.
func MatchAcceptLanguage(header string) Lang {
	if strings.TrimSpace(header) == "" {
		return DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	return fromTag(supportedTags[idx])
}

func fromTag(tag language.Tag) Lang {
	base, _ := tag.Base()
	if l, ok := ParseLang(base.String()); ok {
		return l
	}
	return DefaultLang
}
