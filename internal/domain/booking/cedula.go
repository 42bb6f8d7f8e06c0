package booking

import "errors"

// Cédula validation failures. Callers need to distinguish these, so each
// rule violation gets its own sentinel.
var (
	ErrCedulaLength     = errors.New("cedula must be exactly 10 digits long")
	ErrCedulaNotDigits  = errors.New("cedula must contain only ASCII digits")
	ErrCedulaProvince   = errors.New("cedula province code must be between 01 and 24")
	ErrCedulaThirdDigit = errors.New("cedula third digit must be 6 or lower")
	ErrCedulaChecksum   = errors.New("cedula check digit does not match")
)

// cedulaWeights are the alternating weights applied to the first nine digits.
var cedulaWeights = [9]int{2, 1, 2, 1, 2, 1, 2, 1, 2}

// ValidateCedula checks an Ecuadorian national identity number (cédula)
// against its modulus-10 weighted checksum. It returns nil for a valid
// cédula and one of the ErrCedula sentinels otherwise. The function is pure
// and total over all input strings.
//
// Layout: digits 0-1 are the province code (01-24), digit 2 distinguishes
// natural persons (0-5) and residents (6) from juridical IDs, digit 9 is
// the check digit.
func ValidateCedula(cedula string) error {
	if len(cedula) != 10 {
		return ErrCedulaLength
	}

	var digits [10]int
	for i := 0; i < 10; i++ {
		c := cedula[i]
		if c < '0' || c > '9' {
			return ErrCedulaNotDigits
		}
		digits[i] = int(c - '0')
	}

	province := digits[0]*10 + digits[1]
	if province < 1 || province > 24 {
		return ErrCedulaProvince
	}

	if digits[2] > 6 {
		return ErrCedulaThirdDigit
	}

	sum := 0
	for i, w := range cedulaWeights {
		product := digits[i] * w
		if product > 9 {
			product -= 9
		}
		sum += product
	}

	expected := 0
	if rem := sum % 10; rem != 0 {
		expected = 10 - rem
	}

	if digits[9] != expected {
		return ErrCedulaChecksum
	}
	return nil
}
