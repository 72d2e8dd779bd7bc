package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anurag24-26/openup/internal/bucket/domain"
	"github.com/anurag24-26/openup/internal/bucket/store"
	"github.com/anurag24-26/openup/pkg/cryptox"
	"github.com/anurag24-26/openup/pkg/idx"
	"github.com/anurag24-26/openup/pkg/jwtx"
	"github.com/anurag24-26/openup/pkg/slogx"
)

var (
	ErrInvalidInput       = errors.New("invalid_input")
	ErrDuplicateName      = errors.New("duplicate_name")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// SessionService is the session gate: it owns registration, login and the
// resolution of session tokens back into identities. Tokens are stateless
// signed JWTs; logout is purely client-side (the cookie is cleared, nothing
// is revoked server-side).
type SessionService struct {
	Store      store.Store
	Signer     jwtx.Signer
	Verifier   jwtx.Verifier
	Issuer     string
	SessionTTL time.Duration
}

// Register creates a new user. The password is stored as a salted Argon2id
// hash; the plaintext never leaves this function.
func (s *SessionService) Register(ctx context.Context, name, password string) (domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return domain.User{}, ErrInvalidInput
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrDuplicateName
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login checks the credentials and issues a signed session token bound to
// the user ID with a fixed expiry window.
func (s *SessionService) Login(ctx context.Context, name, password string) (domain.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return domain.Session{}, ErrInvalidInput
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrUserNotFound
		}
		return domain.Session{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.Session{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	token, err := s.Signer.Sign(jwtx.NewSessionClaims(user.ID, user.Username, s.Issuer, ttl, now))
	if err != nil {
		return domain.Session{}, err
	}

	return domain.Session{
		Token:     token,
		User:      user,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Resolve validates a session token and returns the identity behind it.
// This is the sole predicate any protected operation passes before
// mutating state.
func (s *SessionService) Resolve(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrUnauthenticated
	}

	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return domain.User{}, ErrUnauthenticated
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		// The subject vanished from the store; the token no longer names
		// anyone.
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnauthenticated
		}
		return domain.User{}, err
	}

	return user, nil
}
