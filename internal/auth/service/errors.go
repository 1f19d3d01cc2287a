package service

import "errors"

// Business outcomes surfaced to the transport layer. Anything not listed here
// is an unexpected internal failure and must be returned to callers opaquely.
var (
	// ErrInvalidEmail and ErrWeakPassword are validation failures on Register.
	ErrInvalidEmail = errors.New("invalid_email")
	ErrWeakPassword = errors.New("weak_password")

	// ErrEmailTaken reports a registration conflict.
	ErrEmailTaken = errors.New("email_taken")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two are deliberately indistinguishable to prevent account
	// enumeration.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrDeliveryFailed reports that the login code was issued but could not
	// be delivered.
	ErrDeliveryFailed = errors.New("delivery_failed")

	// Login code verification outcomes, in check order.
	ErrCodeNotFound    = errors.New("code_not_found")
	ErrCodeAlreadyUsed = errors.New("code_already_used")
	ErrCodeMismatch    = errors.New("code_mismatch")
	ErrCodeExpired     = errors.New("code_expired")
)
