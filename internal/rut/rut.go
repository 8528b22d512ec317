// Validación de RUT chileno (módulo 11).
package rut

import "strings"

// Normalize strips dots, hyphens and spaces and uppercases the result, so
// "12.345.678-5" and "123456785" compare equal.
func Normalize(raw string) string {
	r := strings.NewReplacer(".", "", "-", "", " ", "")
	return strings.ToUpper(r.Replace(raw))
}

// IsValid checks the RUT check digit. The trailing character is the check
// digit, the rest is the numeric body. Weighted sum over the body from least
// significant to most significant with cyclic weights 2,3,4,5,6,7; with
// r = sum mod 11 the expected digit is '0' when r == 0, 'K' when r == 1 and
// the digit 11-r otherwise.
func IsValid(raw string) bool {
	clean := Normalize(raw)
	if len(clean) < 2 {
		return false
	}

	body := clean[:len(clean)-1]
	check := clean[len(clean)-1]

	sum := 0
	weight := 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return false
		}
		sum += int(c-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}

	r := sum % 11
	var expected byte
	switch r {
	case 0:
		expected = '0'
	case 1:
		expected = 'K'
	default:
		expected = byte('0' + 11 - r)
	}

	return check == expected
}
