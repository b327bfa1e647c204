package models

import "errors"

// Error constants for phone and session validation
var (
	ErrInvalidPhoneFormat = errors.New("invalid phone number format")
	ErrInvalidAreaCode    = errors.New("invalid Brazilian area code")
	ErrInvalidPhoneLength = errors.New("invalid phone number length")
	ErrSessionTooShort    = errors.New("session ID too short")
	ErrInvalidUUID        = errors.New("session ID is not a valid UUID")
	ErrIllegalCharacters  = errors.New("invalid characters in session ID")
	ErrMalformedPayload   = errors.New("malformed webhook payload")
)
