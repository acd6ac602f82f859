// SPDX-License-Identifier: MIT

// Package ids provides the opaque 128-bit identifiers used for every
// entity in the data model.
package ids

import "github.com/google/uuid"

// ID is an opaque 128-bit entity identifier.
type ID string

// New generates a fresh random ID.
func New() ID {
	return ID(uuid.NewString())
}

// Empty reports whether id is the zero value.
func (id ID) Empty() bool {
	return id == ""
}

func (id ID) String() string {
	return string(id)
}

// Parse validates that s is a well-formed ID and returns it as an ID.
func Parse(s string) (ID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return ID(s), nil
}
