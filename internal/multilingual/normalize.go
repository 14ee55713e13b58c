// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package multilingual

import "github.com/tidwall/gjson"

// Normalize turns any backend encoding of a multilingual value into a
// complete Field. Accepted shapes:
//
//   - object form {"ar": "...", "fr": "...", "en": "..."}
//   - array form [{"lang": "fr", "value": "..."}, ...] in any order;
//     the first entry for a language wins and unknown languages are ignored
//   - a bare string, stored as the French value
//   - null, missing, malformed JSON or any other shape, which yields an
//     empty Field
//
// Non-string translation values are treated as empty.
func Normalize(raw []byte) Field {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return Field{}
	}
	return FromResult(gjson.ParseBytes(raw))
}

// FromResult normalizes an already parsed gjson value.
func FromResult(res gjson.Result) Field {
	var f Field
	switch {
	case res.Type == gjson.String:
		f.FR = res.Str
	case res.IsArray():
		seen := make(map[Lang]bool, len(Languages))
		res.ForEach(func(_, entry gjson.Result) bool {
			if !entry.IsObject() {
				return true
			}
			lang, ok := ParseLang(entry.Get("lang").String())
			if !ok || seen[lang] {
				return true
			}
			seen[lang] = true
			f = f.Edit(lang, stringValue(entry.Get("value")))
			return true
		})
	case res.IsObject():
		for _, l := range Languages {
			f = f.Edit(l, stringValue(res.Get(string(l))))
		}
	}
	return f
}

// stringValue returns the text of a JSON string and "" for anything else.
func stringValue(res gjson.Result) string {
	if res.Type != gjson.String {
		return ""
	}
	return res.Str
}
