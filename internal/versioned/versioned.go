// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package versioned holds the rules shared by content that exists in
// numbered versions with at most one active record: About-Us, the privacy
// policy and the terms of use.
package versioned

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// NormalizeActive reports whether a backend active flag means "active".
// Only the boolean true and the strings "true" and "1" qualify. Numeric
// 1, "0", "false", null and anything else are inactive.
func NormalizeActive(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	case *bool:
		return t != nil && *t
	case *string:
		return t != nil && (*t == "true" || *t == "1")
	}
	return false
}

// Active is an active flag that decodes with NormalizeActive semantics and
// encodes as a JSON boolean.
type Active bool

// UnmarshalJSON never fails; unrecognized values decode as false.
func (a *Active) UnmarshalJSON(b []byte) error {
	*a = Active(activeFromResult(gjson.ParseBytes(b)))
	return nil
}

// MarshalJSON writes a plain boolean.
func (a Active) MarshalJSON() ([]byte, error) {
	return strconv.AppendBool(nil, bool(a)), nil
}

func activeFromResult(res gjson.Result) bool {
	switch res.Type {
	case gjson.True:
		return true
	case gjson.String:
		return NormalizeActive(res.Str)
	}
	return false
}

// SuggestVersion returns the next version number: one above the highest
// existing version, or 1 when there are none.
func SuggestVersion(existing []int) int {
	highest := 0
	for _, v := range existing {
		if v > highest {
			highest = v
		}
	}
	return highest + 1
}

// ResolveVersion picks the version to submit. A positive integer typed by
// the user is used verbatim, even if it duplicates an existing version;
// blank or invalid input falls back to suggested.
func ResolveVersion(input string, suggested int) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return suggested
	}
	return n
}

// ActiveCount returns how many flags are set. List pages warn when the
// backend reports more than one active record.
func ActiveCount(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
