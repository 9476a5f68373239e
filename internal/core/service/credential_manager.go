package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/ports"
)

// CredentialManager owns password hashing, verification and rotation.
// Plaintexts and hashes are never logged.
type CredentialManager struct {
	users   ports.UserRepository
	persons ports.PersonRepository
	cost    int
	logger  zerolog.Logger
}

func NewCredentialManager(users ports.UserRepository, persons ports.PersonRepository, cost int, logger zerolog.Logger) *CredentialManager {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialManager{users: users, persons: persons, cost: cost, logger: logger}
}

func (c *CredentialManager) Hash(plain string) (string, error) {
	if plain == "" {
		return "", &domain.ValidationError{Fields: []string{"password is required"}}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), c.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &domain.ValidationError{Fields: []string{"password must be at most 72 bytes"}}
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (c *CredentialManager) Verify(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ChangePassword verifies the current password of the principal's user and,
// only on success, stores the hash of the new one. An unknown principal and a
// wrong password fail identically with domain.ErrIncorrectPassword.
func (c *CredentialManager) ChangePassword(ctx context.Context, principal string, in ports.UpdatePassword) error {
	if in.NewPassword == "" {
		return &domain.ValidationError{Fields: []string{"newpassword is required"}}
	}

	user, err := c.FindByPrincipal(ctx, principal)
	if errors.Is(err, domain.ErrNotFound) {
		c.logger.Info().Msg("password change rejected")
		return domain.ErrIncorrectPassword
	}
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	if !c.Verify(user.Password, in.CurrentPassword) {
		c.logger.Info().Str("user_id", user.ID).Msg("password change rejected")
		return domain.ErrIncorrectPassword
	}

	hash, err := c.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	if err := c.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	c.logger.Info().Str("user_id", user.ID).Msg("password changed")
	return nil
}

// FindByPrincipal resolves the authenticated identity to a user: first by
// the email of the user's person, then by username.
func (c *CredentialManager) FindByPrincipal(ctx context.Context, principal string) (*domain.User, error) {
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return nil, domain.NewNotFound(domain.KindUser, principal)
	}
	if strings.Contains(principal, "@") {
		person, err := c.persons.FindByEmail(ctx, principal)
		switch {
		case err == nil:
			u, err := c.users.FindByPersonID(ctx, person.ID)
			if err == nil || !errors.Is(err, domain.ErrNotFound) {
				return u, err
			}
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}
	return c.users.FindByUsername(ctx, principal)
}
