// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package multilingual

import (
	"math"
	"strings"
)

// LangProgress counts required fields filled in one language.
type LangProgress struct {
	Filled int
	Total  int
}

// Complete reports whether every required field has this translation.
func (p LangProgress) Complete() bool {
	return p.Filled == p.Total
}

// Progress summarizes how much of a multilingual form is filled in.
type Progress struct {
	Percent int
	PerLang map[Lang]LangProgress
}

// Complete reports whether every required field is filled in every language.
func (p Progress) Complete() bool {
	return p.Percent >= 100
}

// Lang returns the per-language counts for l.
func (p Progress) Lang(l Lang) LangProgress {
	return p.PerLang[l]
}

// Completion computes the form progress over the required keys: the share
// of non-blank (field, language) pairs, rounded to the nearest percent.
// A required key missing from values counts as empty. With no required
// keys the form is trivially complete.
func Completion(values map[string]Field, required []string) Progress {
	p := Progress{PerLang: make(map[Lang]LangProgress, len(Languages))}
	for _, l := range Languages {
		p.PerLang[l] = LangProgress{Total: len(required)}
	}
	if len(required) == 0 {
		p.Percent = 100
		return p
	}

	filled := 0
	for _, key := range required {
		f := values[key]
		for _, l := range Languages {
			if strings.TrimSpace(f.Get(l)) == "" {
				continue
			}
			filled++
			lp := p.PerLang[l]
			lp.Filled++
			p.PerLang[l] = lp
		}
	}

	total := len(required) * len(Languages)
	p.Percent = int(math.Floor(float64(filled)/float64(total)*100 + 0.5))
	return p
}
