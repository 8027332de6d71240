package facematch

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidName is returned for names that cannot key an identity record.
var ErrInvalidName = errors.New("invalid identity name")

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizePersonName normalizes a name for comparison (lowercase, no diacritics, spaces for dashes).
func NormalizePersonName(name string) string {
	name = RemoveDiacritics(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")
	return name
}

// CleanIdentityName trims a name and converts it to NFC so that the same name
// typed on different systems keys the same record and ledger rows.
// Names that are empty or cannot be used as a file stem are rejected.
func CleanIdentityName(name string) (string, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	switch {
	case name == "", name == ".", name == "..":
		return "", ErrInvalidName
	case strings.ContainsAny(name, `/\`+"\x00\n\r"):
		return "", ErrInvalidName
	}
	return name, nil
}
