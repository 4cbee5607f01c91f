package session

import (
	"errors"
	"strings"
)

var (
	ErrMissingCredentials = errors.New("enter your username or email and password")
	ErrInvalidSignup      = errors.New("enter a valid username, email and password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

// ValidateLogin checks a login form before it is submitted
func ValidateLogin(identifier, password string) error {
	if strings.TrimSpace(identifier) == "" || password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// ValidateSignup checks a signup form before it is submitted.
// An empty confirm skips the mismatch check.
func ValidateSignup(username, email, password, confirm string) error {
	if strings.TrimSpace(username) == "" || !LooksLikeEmail(strings.TrimSpace(email)) || password == "" {
		return ErrInvalidSignup
	}
	if confirm != "" && confirm != password {
		return ErrPasswordMismatch
	}
	return nil
}
