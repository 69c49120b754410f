package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/nivesh/brokerlink/internal/server/domain"
	"github.com/nivesh/brokerlink/internal/server/store"
	"github.com/nivesh/brokerlink/pkg/cryptox"
	"github.com/nivesh/brokerlink/pkg/idx"
	"github.com/nivesh/brokerlink/pkg/jwtx"
	"github.com/nivesh/brokerlink/pkg/slogx"
)

const minPasswordLength = 6

// AuthService handles registration, login and identity token lifecycle.
type AuthService struct {
	store    store.Store
	signer   jwtx.Signer
	verifier jwtx.Verifier
	pepper   cryptox.Pepper
	issuer   string
	tokenTTL time.Duration
}

func NewAuthService(s store.Store, signer jwtx.Signer, verifier jwtx.Verifier, pepper cryptox.Pepper, issuer string) *AuthService {
	return &AuthService{
		store:    s,
		signer:   signer,
		verifier: verifier,
		pepper:   pepper,
		issuer:   issuer,
		tokenTTL: jwtx.DefaultIdentityTokenTTL,
	}
}

// Register creates an account and signs its first identity token.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, "", fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if name == "" {
		return domain.User{}, "", fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return domain.User{}, "", fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hash, err := cryptox.HashPassword(password, s.pepper)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", ErrEmailTaken
		}
		return domain.User{}, "", fmt.Errorf("create user: %w", err)
	}

	slogx.FromContext(ctx).Info("user_registered", "user_id", user.ID.String())

	token, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Login checks credentials and mints a fresh identity token. Missing
// users and bad passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash, s.pepper); err != nil {
		if errors.Is(err, cryptox.ErrHashMismatch) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", fmt.Errorf("verify password: %w", err)
	}

	// Unverified accounts authenticate but may not log in. Distinct
	// from bad credentials so the client can prompt for verification.
	if !user.Verified {
		return domain.User{}, "", ErrUnverified
	}

	if err := s.store.Users().Touch(ctx, user.ID); err != nil {
		slogx.FromContext(ctx).Warn("touch_user_failed", "err", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// VerifyToken validates an identity token and returns the current user
// row. State is re-read from the store so revoked or updated accounts
// are reflected immediately, not at next token refresh.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (domain.User, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return domain.User{}, ErrTokenInvalid
	}

	id, err := idx.Parse(claims.Subject)
	if err != nil {
		return domain.User{}, ErrTokenInvalid
	}

	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// MarkVerified flags an account as verified, looked up by email.
func (s *AuthService) MarkVerified(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if user.Verified {
		return nil
	}

	if err := s.store.Users().MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	slogx.FromContext(ctx).Info("user_verified", "user_id", user.ID.String())
	return nil
}

// GetUser loads a user by ID for authenticated handlers.
func (s *AuthService) GetUser(ctx context.Context, id idx.ID) (domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueToken(user domain.User) (string, error) {
	claims := jwtx.NewClaims(s.issuer, user.ID.String(), user.Email, user.Name, user.Verified, s.tokenTTL)
	token, err := s.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
