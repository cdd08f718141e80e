package model

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Patterns from the SAT tdCFDI type definitions. Catalog membership is a
// separate concern (internal/catalog); these cover value shape only.
var (
	// rfcRE matches the t_RFC taxpayer identifier: 3 letters (moral) or
	// 4 (física), date of incorporation/birth, and the homoclave.
	rfcRE = regexp.MustCompile(`^[A-ZÑ&]{3,4}[0-9]{2}(0[1-9]|1[0-2])(0[1-9]|[12][0-9]|3[01])[A-Z0-9]{2}[0-9A]$`)

	confirmacionRE = regexp.MustCompile(`^[0-9a-zA-Z]{5}$`)

	// pedimentoRE: year, customs office, patent and progressive number,
	// each group separated by exactly two spaces (21 chars total).
	pedimentoRE = regexp.MustCompile(`^[0-9]{2}  [0-9]{2}  [0-9]{4}  [0-9]{7}$`)

	cuentaPredialRE = regexp.MustCompile(`^[0-9]{1,150}$`)
)

// IsRFC reports whether s matches the RFC taxpayer identifier pattern.
func IsRFC(s string) bool {
	return rfcRE.MatchString(s)
}

// IsConfirmacion reports whether s is a 5-char alphanumeric PAC
// confirmation key.
func IsConfirmacion(s string) bool {
	return confirmacionRE.MatchString(s)
}

// IsNumeroPedimento reports whether s matches the customs declaration
// number format.
func IsNumeroPedimento(s string) bool {
	return pedimentoRE.MatchString(s)
}

// IsCuentaPredial reports whether s is a valid property-registry account
// number.
func IsCuentaPredial(s string) bool {
	return cuentaPredialRE.MatchString(s)
}

// IsDigits reports whether s is exactly width decimal digits. Used for
// fixed-width codes (certificate serials, postal codes, SAT operation
// numbers).
func IsDigits(s string, width int) bool {
	if len(s) != width {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CheckText validates the generic bounded CFDI string type: rune length
// within [min, max] and no pipe character, since the pipe is the control
// character of the cadena original.
func CheckText(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	if n < min || n > max {
		return false
	}
	return !strings.ContainsRune(s, '|')
}
