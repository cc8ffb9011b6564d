package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a string and strips diacritics, so that "Técnico"
// and "tecnico" compare equal. Every role, login, name and status
// comparison in the client goes through this one function.
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// IsTechnicianRole matches both role naming schemes the backend emits:
// the legacy "technician" and the localized "tecnico" family.
func IsTechnicianRole(role Role) bool {
	r := Normalize(string(role))
	return strings.Contains(r, "technician") || strings.Contains(r, "tecnico")
}
