package domain

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

const (
	NationalIDLength = 10
	MinAge           = 0
	MaxAge           = 150
	MaxPhotoSize     = 5 << 20
)

var (
	ErrNationalIDLength = errors.New("national id must be exactly 10 digits")
	ErrNationalIDFormat = errors.New("national id must contain digits only and start with 1, 2, 3 or 4")
	ErrMobileRequired   = errors.New("mobile is required")
	ErrInvalidMobile    = errors.New("mobile must be a valid saudi mobile number")
	ErrInvalidAge       = errors.New("age must be between 0 and 150")
	ErrInvalidGender    = errors.New("gender must be 0 (female) or 1 (male)")
	ErrPhotoType        = errors.New("photo must be a jpeg or png image")
	ErrPhotoTooLarge    = errors.New("photo must not exceed 5MB")
)

var saudiMobileExp = regexp.MustCompile(`^(?:\+966|00966|966|0)?5\d{8}$`)

// ValidateNationalID reports a length error before a format error so a
// short input is never described as malformed.
func ValidateNationalID(id string) error {
	if utf8.RuneCountInString(id) != NationalIDLength {
		return ErrNationalIDLength
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return ErrNationalIDFormat
		}
	}
	if id[0] < '1' || id[0] > '4' {
		return ErrNationalIDFormat
	}

	return nil
}

func ValidateSaudiMobile(mobile string) error {
	if !saudiMobileExp.MatchString(mobile) {
		return ErrInvalidMobile
	}

	return nil
}

func ValidatePhoto(contentType string, size int64) error {
	if contentType != "image/jpeg" && contentType != "image/png" {
		return ErrPhotoType
	}
	if size > MaxPhotoSize {
		return ErrPhotoTooLarge
	}

	return nil
}
