// Package iban validates and formats International Bank Account Numbers.
package iban

import (
	"math/big"
	"strconv"
	"strings"
)

var ninetySeven = big.NewInt(97)

// Normalize strips spaces and uppercases an IBAN for storage and comparison.
func Normalize(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
}

// Format groups an IBAN into blocks of four for display.
func Format(iban string) string {
	cleaned := Normalize(iban)
	var b strings.Builder
	for i, r := range cleaned {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsValid performs the ISO 13616 mod-97 checksum on an IBAN.
func IsValid(iban string) bool {
	cleaned := Normalize(iban)
	if len(cleaned) < 15 || len(cleaned) > 34 {
		return false
	}

	// Move the country code and check digits to the end, then map letters
	// to numbers (A=10 ... Z=35).
	rearranged := cleaned[4:] + cleaned[:4]
	var digits strings.Builder
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			digits.WriteString(strconv.Itoa(int(r - 'A' + 10)))
		default:
			return false
		}
	}

	n, ok := new(big.Int).SetString(digits.String(), 10)
	if !ok {
		return false
	}
	return new(big.Int).Mod(n, ninetySeven).Int64() == 1
}
