package users

import (
	"context"
	"time"

	"groovebox/internal/auth"
	"groovebox/internal/store"
)

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(username, password string) (store.User, error)
	Authenticate(username, password string) (store.User, error)
	BlockToken(tokenID string, expiresAt time.Time) error
	IsTokenBlocked(tokenID string) (bool, error)
}

// Service exposes account and session workflows.
type Service interface {
	Signup(ctx context.Context, username, password string) (store.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, rawToken string) error
	Identify(ctx context.Context, rawToken string) (string, error)
}

type service struct {
	store  Store
	tokens *auth.TokenManager
}

// New wires a Service backed by the provided Store and token manager.
func New(s Store, tokens *auth.TokenManager) Service {
	return &service{store: s, tokens: tokens}
}

func (s *service) Signup(ctx context.Context, username, password string) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.CreateUser(username, password)
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	user, err := s.store.Authenticate(username, password)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user.ID)
}

// Logout revokes the token by blocklisting its jti until the token would
// have expired on its own.
func (s *service) Logout(ctx context.Context, rawToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		return err
	}
	expires := time.Now().UTC()
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return s.store.BlockToken(claims.ID, expires)
}

// Identify validates the token and returns the authenticated user id,
// rejecting revoked tokens.
func (s *service) Identify(ctx context.Context, rawToken string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		return "", err
	}
	blocked, err := s.store.IsTokenBlocked(claims.ID)
	if err != nil {
		return "", err
	}
	if blocked {
		return "", auth.ErrInvalidToken
	}
	return claims.Subject, nil
}
