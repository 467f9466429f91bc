package utils

// CNPJLength is the number of digits in an unformatted CNPJ
const CNPJLength = 14

// IsValidIdentifier reports whether s is exactly 14 decimal digits.
// Only the format is checked; check digits are not verified and s is not
// trimmed, callers strip surrounding whitespace first.
func IsValidIdentifier(s string) bool {
	if len(s) != CNPJLength {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatCNPJ formats CNPJ with dots, slash and dash (XX.XXX.XXX/XXXX-XX)
func FormatCNPJ(cnpj string) string {
	if !IsValidIdentifier(cnpj) {
		return cnpj // Return original if invalid
	}

	return cnpj[:2] + "." + cnpj[2:5] + "." + cnpj[5:8] + "/" + cnpj[8:12] + "-" + cnpj[12:14]
}
