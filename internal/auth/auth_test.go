package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/fairyhunter13/inventory-reservation-service/internal/model"
	"github.com/fairyhunter13/inventory-reservation-service/internal/store"
)

// cost 4 (the bcrypt minimum) keeps hashing cheap in tests
func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return New(st, 4)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s := newTestService(t)
	id, err := s.Register(context.Background(), "alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	got, err := s.Authenticate(context.Background(), "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got != id {
		t.Fatalf("expected account %d, got %d", id, got)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Register(context.Background(), "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := s.Register(context.Background(), "alice again", "alice@example.com", "other")
	if !errors.Is(err, model.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Register(context.Background(), "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := s.Authenticate(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

// Unknown key and wrong secret must be indistinguishable to the caller.
func TestAuthenticateDoesNotEnumerateAccounts(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Register(context.Background(), "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, errUnknown := s.Authenticate(context.Background(), "nonexistent@example.com", "x")
	_, errWrong := s.Authenticate(context.Background(), "alice@example.com", "wrong-password")
	if !errors.Is(errUnknown, model.ErrInvalidCredentials) {
		t.Fatalf("unknown key: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrong, model.ErrInvalidCredentials) {
		t.Fatalf("wrong secret: expected ErrInvalidCredentials, got %v", errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("error messages differ: %q vs %q", errUnknown, errWrong)
	}
}

func TestDigestIsNotThePassword(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Register(context.Background(), "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	acc, err := s.st.AccountByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if acc.PasswordDigest == "secret1" || acc.PasswordDigest == "" {
		t.Fatalf("password stored without hashing")
	}
}
