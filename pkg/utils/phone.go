package utils

import (
	"errors"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// DefaultRegion is used for numbers written without a country code
const DefaultRegion = "IN"

// ErrInvalidPhone is returned for numbers libphonenumber cannot validate
var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone parses a phone number and returns it in E.164 form.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidPhone
	}
	num, err := libphonenumber.Parse(raw, DefaultRegion)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}
