// Package auth implements the credential store: account registration and
// password authentication.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/fairyhunter13/inventory-reservation-service/internal/model"
	"github.com/fairyhunter13/inventory-reservation-service/internal/store"
)

// Service registers and authenticates accounts against the store.
type Service struct {
	st   *store.Store
	cost int
}

// New constructs a Service. A non-positive cost selects the bcrypt default.
func New(st *store.Store, bcryptCost int) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{st: st, cost: bcryptCost}
}

// Register creates an account keyed by email and returns its id. The secret
// is stored only as a bcrypt digest. No password policy is applied.
func (s *Service) Register(ctx context.Context, displayName, email, secret string) (int64, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return s.st.CreateAccount(ctx, displayName, email, string(digest))
}

// Authenticate verifies email and secret and returns the account id.
// An unknown email and a wrong secret produce the same ErrInvalidCredentials
// so the endpoint cannot be used to enumerate accounts.
func (s *Service) Authenticate(ctx context.Context, email, secret string) (int64, error) {
	acc, err := s.st.AccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return 0, model.ErrInvalidCredentials
		}
		return 0, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordDigest), []byte(secret)) != nil {
		return 0, model.ErrInvalidCredentials
	}
	return acc.ID, nil
}
