// Package fingerprint encodes the short attendee code printed in registration QR codes
// and splits scanned codes back into their field fragments.
//
// A code is five 3-character keys followed by the format tag:
//
//	name | company | dni | title | phone | "01"
//
// Each key is the first three characters of the field, case preserved. Empty fields are
// replaced by their pad literal ("NNN", "EEE", "DDD", "CCC", "000"); fields shorter than three
// characters are completed with the same pad character. Changing the field order, the pads or
// the key width invalidates every printed code and requires a new Version.
package fingerprint

import (
	"errors"
	"strings"
)

// Version is the trailing format tag of every code.
const Version = "01"

// Length is the number of characters in an encoded fingerprint.
const Length = keyWidth*5 + len(Version)

const keyWidth = 3

// Pad characters per field.
const (
	PadName    = 'N'
	PadCompany = 'E'
	PadDNI     = 'D'
	PadTitle   = 'C'
	PadPhone   = '0'
)

// ErrMalformed is returned by Decode for codes shorter than Length characters.
var ErrMalformed = errors.New("malformed fingerprint")

// Fields are the attendee values a fingerprint is derived from.
type Fields struct {
	Name    string
	Company string
	DNI     string
	Title   string
	Phone   string
}

// Fragments are the per-field keys recovered from a scanned code.
type Fragments struct {
	Name    string
	Company string
	DNI     string
	Title   string
	Phone   string
}

// Encode returns the Length-character fingerprint for f. It does not depend on any
// identifier assigned by storage.
func Encode(f Fields) string {
	var b strings.Builder
	b.Grow(Length)
	b.WriteString(Key(f.Name, PadName))
	b.WriteString(Key(f.Company, PadCompany))
	b.WriteString(Key(f.DNI, PadDNI))
	b.WriteString(Key(f.Title, PadTitle))
	b.WriteString(Key(f.Phone, PadPhone))
	b.WriteString(Version)
	return b.String()
}

// Key returns the 3-character key value contributes to a fingerprint.
func Key(value string, pad rune) string {
	r := []rune(value)
	if len(r) > keyWidth {
		r = r[:keyWidth]
	}
	for len(r) < keyWidth {
		r = append(r, pad)
	}
	return string(r)
}

// Matches reports whether value produces the key frag.
func Matches(value, frag string, pad rune) bool {
	return Key(value, pad) == frag
}

// Decode splits code into its field fragments. Anything after the phone key, including
// the version tag, is ignored. Codes shorter than Length characters fail with ErrMalformed.
func Decode(code string) (Fragments, error) {
	r := []rune(code)
	if len(r) < Length {
		return Fragments{}, ErrMalformed
	}
	frag := func(i int) string {
		return string(r[i*keyWidth : (i+1)*keyWidth])
	}
	return Fragments{
		Name:    frag(0),
		Company: frag(1),
		DNI:     frag(2),
		Title:   frag(3),
		Phone:   frag(4),
	}, nil
}
