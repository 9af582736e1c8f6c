// Package auth handles accounts, password verification and login sessions.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeBcrypt    = "bcrypt"
	SchemePlaintext = "plaintext"
)

// CredentialVerifier hashes new passwords and checks submitted ones against
// stored hashes.
type CredentialVerifier interface {
	Scheme() string
	Hash(password string) (string, error)
	// Verify returns ErrInvalidCredentials when password does not match hash.
	Verify(hash, password string) error
}

// NewVerifier returns the verifier for scheme. cost applies to bcrypt only;
// zero selects bcrypt.DefaultCost.
func NewVerifier(scheme string, cost int) (CredentialVerifier, error) {
	switch scheme {
	case "", SchemeBcrypt:
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
		}
		return BcryptVerifier{Cost: cost}, nil
	case SchemePlaintext:
		slog.Warn("passwords are stored and compared in plaintext; use only for migrating legacy data")
		return PlaintextVerifier{}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

type BcryptVerifier struct {
	Cost int
}

func (BcryptVerifier) Scheme() string { return SchemeBcrypt }

func (b BcryptVerifier) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(h), nil
}

func (BcryptVerifier) Verify(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return nil
}

// PlaintextVerifier stores passwords as given. Insecure.
type PlaintextVerifier struct{}

func (PlaintextVerifier) Scheme() string { return SchemePlaintext }

func (PlaintextVerifier) Hash(password string) (string, error) { return password, nil }

func (PlaintextVerifier) Verify(hash, password string) error {
	if subtle.ConstantTimeCompare([]byte(hash), []byte(password)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}
