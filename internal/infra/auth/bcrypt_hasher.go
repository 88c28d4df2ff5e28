// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"sabor/config"
	domainerrors "sabor/internal/domain/errors"
	"sabor/internal/domain/service"
)

// Defaults used when the strength section is absent from configuration.
const (
	defaultMinPasswordLength = 6
	defaultMaxPasswordLength = 72 // bcrypt truncates input beyond 72 bytes
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost     int
	strength config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	strength := config.PasswordStrengthConfig{
		MinLength: defaultMinPasswordLength,
		MaxLength: defaultMaxPasswordLength,
	}
	if cfg.PasswordStrength != nil {
		strength = *cfg.PasswordStrength
		if strength.MinLength <= 0 {
			strength.MinLength = defaultMinPasswordLength
		}
		if strength.MaxLength <= 0 || strength.MaxLength > defaultMaxPasswordLength {
			strength.MaxLength = defaultMaxPasswordLength
		}
	}

	return &bcryptHasher{cost: cost, strength: strength}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength checks the password against the configured
// requirements. Hash does not call this; registration does, so existing
// accounts with passwords predating a policy change can still log in.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	runes := []rune(password)
	if len(runes) < h.strength.MinLength {
		return domainerrors.ErrPasswordStrength.WithDetails("password is too short")
	}
	if len(password) > h.strength.MaxLength {
		return domainerrors.ErrPasswordStrength.WithDetails("password is too long")
	}

	var hasUpper, hasLower, hasNumber bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}

	if h.strength.RequireUppercase && !hasUpper {
		return domainerrors.ErrPasswordStrength.WithDetails("password needs an uppercase letter")
	}
	if h.strength.RequireLowercase && !hasLower {
		return domainerrors.ErrPasswordStrength.WithDetails("password needs a lowercase letter")
	}
	if h.strength.RequireNumbers && !hasNumber {
		return domainerrors.ErrPasswordStrength.WithDetails("password needs a number")
	}

	return nil
}
