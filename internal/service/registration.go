package service

import (
	"errors"
	"fmt"
	"strconv"
)

// suffixDigits is how many trailing characters of a registration number
// form the roll number inside a college batch.
const suffixDigits = 3

var ErrInvalidRegNo = errors.New("invalid registration number")

// ParseRegistration splits a registration number into everything but its
// last 3 characters and the numeric value of those 3 characters.
func ParseRegistration(regNo string) (prefix string, suffix int, err error) {
	digits := regNo
	if len(regNo) > suffixDigits {
		prefix = regNo[:len(regNo)-suffixDigits]
		digits = regNo[len(regNo)-suffixDigits:]
	}
	if digits == "" {
		return "", 0, fmt.Errorf("%w: %q is empty", ErrInvalidRegNo, regNo)
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return "", 0, fmt.Errorf("%w: %q does not end in digits", ErrInvalidRegNo, regNo)
		}
	}

	suffix, err = strconv.Atoi(digits)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrInvalidRegNo, err)
	}
	return prefix, suffix, nil
}

// RegistrationRange returns `size` consecutive registration numbers
// starting at `regNo`, the suffix is zero padded back to 3 digits.
func RegistrationRange(regNo string, size int) ([]string, error) {
	prefix, start, err := ParseRegistration(regNo)
	if err != nil {
		return nil, err
	}

	out := []string{}
	for i := start; i < start+size; i++ {
		out = append(out, fmt.Sprintf("%s%0*d", prefix, suffixDigits, i))
	}
	return out, nil
}
