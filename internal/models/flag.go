package models

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// regionalIndicatorOffset maps 'A' (65) onto U+1F1E6 REGIONAL INDICATOR SYMBOL LETTER A.
const regionalIndicatorOffset = 127397

// ErrInvalidCountryCode is returned for anything that is not a two letter ISO 3166 code.
var ErrInvalidCountryCode = errors.New("invalid country code")

// FlagEmoji turns a two letter country code into its flag, e.g. "us" -> 🇺🇸.
func FlagEmoji(countryCode string) (string, error) {
	code := strings.ToUpper(countryCode)
	if len(code) != 2 || !isASCIILetter(code[0]) || !isASCIILetter(code[1]) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountryCode, countryCode)
	}
	if _, err := language.ParseRegion(code); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountryCode, countryCode)
	}

	var b strings.Builder
	for _, c := range code {
		b.WriteRune(regionalIndicatorOffset + c)
	}
	return b.String(), nil
}

func isASCIILetter(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
