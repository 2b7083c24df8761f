package permission

import (
	"strings"

	"github.com/tourmarket/tourmarket/internal/apperror"
)

// Perm is a single permission token.
type Perm uint8

const (
	// Read allows listing and viewing records.
	Read Perm = 1 << iota
	// Write allows creating records.
	Write
	// Update allows modifying records.
	Update
	// Delete allows removing records.
	Delete
)

// all lists the vocabulary in storage order.
var all = []Perm{Read, Write, Update, Delete}

var names = map[Perm]string{
	Read:   "read",
	Write:  "write",
	Update: "update",
	Delete: "delete",
}

// All returns the full vocabulary in storage order.
func All() []Perm {
	out := make([]Perm, len(all))
	copy(out, all)

	return out
}

// String returns the token name.
func (p Perm) String() string {
	if name, ok := names[p]; ok {
		return name
	}

	return ""
}

// Valid reports whether p is exactly one token of the vocabulary.
func (p Perm) Valid() bool {
	_, ok := names[p]
	return ok
}

// Parse converts a single token. Matching is exact and case-sensitive.
func Parse(token string) (Perm, bool) {
	for p, name := range names {
		if name == token {
			return p, true
		}
	}

	return 0, false
}

// Set is a set of permission tokens.
type Set uint8

// NewSet builds a set from tokens.
func NewSet(perms ...Perm) Set {
	var s Set
	for _, p := range perms {
		s |= Set(p)
	}

	return s
}

// Has reports whether p is a member of s.
func (s Set) Has(p Perm) bool {
	return p.Valid() && s&Set(p) != 0
}

// Union returns the union of s and other.
func (s Set) Union(other Set) Set {
	return s | other
}

// Empty reports whether the set has no members.
func (s Set) Empty() bool {
	return s == 0
}

// Perms returns the members in storage order.
func (s Set) Perms() []Perm {
	out := make([]Perm, 0, len(all))
	for _, p := range all {
		if s.Has(p) {
			out = append(out, p)
		}
	}

	return out
}

// Strings returns the member names in storage order.
func (s Set) Strings() []string {
	out := make([]string, 0, len(all))
	for _, p := range s.Perms() {
		out = append(out, p.String())
	}

	return out
}

// String returns the comma-joined storage form, e.g. "read,write".
func (s Set) String() string {
	return strings.Join(s.Strings(), ",")
}

// InvalidError names the tokens that are not part of the vocabulary.
type InvalidError struct {
	Tokens []string
}

// Error implements the error interface.
func (e *InvalidError) Error() string {
	return "Invalid permissions: " + strings.Join(e.Tokens, ", ")
}

// Unwrap makes errors.Is(err, apperror.ErrValidation) hold.
func (e *InvalidError) Unwrap() error {
	return apperror.ErrValidation
}

// ParseList parses a list of entries. Each entry may itself hold several
// comma or space separated tokens. Any unknown token fails the whole list
// with an *InvalidError and no partial set is returned.
func ParseList(entries []string) (Set, error) {
	var (
		set     Set
		invalid []string
		seen    int
	)

	for _, entry := range entries {
		for _, token := range split(entry) {
			seen++

			p, ok := Parse(token)
			if !ok {
				invalid = append(invalid, token)
				continue
			}

			set |= Set(p)
		}
	}

	if len(invalid) > 0 {
		return 0, &InvalidError{Tokens: invalid}
	}

	if seen == 0 {
		return 0, apperror.Validation("permission is required")
	}

	return set, nil
}

// ParseString parses the comma-joined form.
func ParseString(value string) (Set, error) {
	return ParseList([]string{value})
}

// MustParse parses value and panics on error. Intended for static defaults.
func MustParse(value string) Set {
	s, err := ParseString(value)
	if err != nil {
		panic(err)
	}

	return s
}

// split breaks an entry on commas and whitespace. Empty pieces are dropped,
// so "read, write" and "read,,write" both yield two tokens.
func split(entry string) []string {
	return strings.FieldsFunc(entry, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
