// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the wire shapes of the Toorrii backend resources.
package models

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// ID is an opaque backend identifier. The backend sends some ids as JSON
// numbers and others as strings; both decode into the same value.
type ID string

// UnmarshalJSON accepts a string or a number. Anything else yields "".
func (id *ID) UnmarshalJSON(b []byte) error {
	res := gjson.ParseBytes(b)
	switch res.Type {
	case gjson.String:
		*id = ID(res.Str)
	case gjson.Number:
		*id = ID(res.Raw)
	default:
		*id = ""
	}
	return nil
}

// MarshalJSON writes integer ids as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return strconv.AppendQuote(nil, string(id)), nil
}

func (id ID) String() string { return string(id) }

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool { return id == "" }
