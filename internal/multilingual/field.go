// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package multilingual models text that carries parallel Arabic, French and
// English variants. The backend speaks two wire encodings for such values
// (an {ar,fr,en} object and an array of {lang,value} pairs); this package
// reads both and writes whichever one a given endpoint expects.
package multilingual

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Field holds one logical value in the three supported languages.
// All three slots always exist; an absent translation is "".
type Field struct {
	AR string
	FR string
	EN string
}

// Translation is one entry of the array wire form.
type Translation struct {
	Lang  Lang   `json:"lang"`
	Value string `json:"value"`
}

// Translations is the array wire form used by the About-Us, privacy-policy
// and terms endpoints.
type Translations []Translation

// Get returns the text stored for lang, or "" for an unsupported language.
func (f Field) Get(lang Lang) string {
	switch lang {
	case AR:
		return f.AR
	case FR:
		return f.FR
	case EN:
		return f.EN
	}
	return ""
}

// Edit returns a copy of f with exactly one language slot replaced.
func (f Field) Edit(lang Lang, text string) Field {
	switch lang {
	case AR:
		f.AR = text
	case FR:
		f.FR = text
	case EN:
		f.EN = text
	}
	return f
}

// IsEmpty reports whether every language slot is blank.
func (f Field) IsEmpty() bool {
	for _, l := range Languages {
		if strings.TrimSpace(f.Get(l)) != "" {
			return false
		}
	}
	return true
}

// ObjectForm returns the {ar,fr,en} wire shape used by the contact and
// partner endpoints.
func (f Field) ObjectForm() map[string]string {
	return map[string]string{
		string(AR): f.AR,
		string(FR): f.FR,
		string(EN): f.EN,
	}
}

// ArrayForm expands f into exactly three entries in ar, fr, en order.
func (f Field) ArrayForm() Translations {
	out := make(Translations, 0, len(Languages))
	for _, l := range Languages {
		out = append(out, Translation{Lang: l, Value: f.Get(l)})
	}
	return out
}

// Display picks the single value shown where only one language fits, such
// as a table column: the preferred language, then French, then the first
// non-empty translation.
func (f Field) Display(preferred Lang) string {
	if v := f.Get(preferred); v != "" {
		return v
	}
	if f.FR != "" {
		return f.FR
	}
	for _, l := range Languages {
		if v := f.Get(l); v != "" {
			return v
		}
	}
	return ""
}

// DisplayOr is Display with a placeholder for fields that are entirely empty.
func (f Field) DisplayOr(preferred Lang, placeholder string) string {
	if v := f.Display(preferred); v != "" {
		return v
	}
	return placeholder
}

// MarshalJSON writes the object form.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.ObjectForm())
}

// UnmarshalJSON accepts every shape Normalize does and never fails.
func (f *Field) UnmarshalJSON(data []byte) error {
	*f = Normalize(data)
	return nil
}

// FromForm reads the three inputs named key.ar, key.fr and key.en.
func FromForm(values url.Values, key string) Field {
	var f Field
	for _, l := range Languages {
		f = f.Edit(l, values.Get(key+"."+string(l)))
	}
	return f
}

// ToArrayForms converts a set of named fields to their array wire form.
func ToArrayForms(fields map[string]Field) map[string]Translations {
	out := make(map[string]Translations, len(fields))
	for k, f := range fields {
		out[k] = f.ArrayForm()
	}
	return out
}
