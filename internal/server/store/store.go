package store

import (
	"context"
	"errors"

	"github.com/nivesh/brokerlink/internal/server/domain"
	"github.com/nivesh/brokerlink/pkg/idx"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// UserRepo is everything the services need from persistent user state.
type UserRepo interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id idx.ID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Touch bumps updated_at, used to record login activity.
	Touch(ctx context.Context, id idx.ID) error

	MarkVerified(ctx context.Context, id idx.ID) error
	SetProvider(ctx context.Context, id idx.ID, provider domain.Provider) error

	// PatchFyers merges non-nil fields into the stored credentials.
	PatchFyers(ctx context.Context, id idx.ID, patch domain.FyersPatch) error
	PatchZerodha(ctx context.Context, id idx.ID, patch domain.ZerodhaPatch) error

	// ClearBrokerTokens drops access/public tokens for both brokers,
	// keeping the app credentials in place.
	ClearBrokerTokens(ctx context.Context, id idx.ID) error

	UpdateRiskLimits(ctx context.Context, id idx.ID, limits domain.RiskLimits) error
}

// Store aggregates repositories behind a single handle.
type Store interface {
	Users() UserRepo

	// WithTx runs fn against a transactional view of the store.
	WithTx(ctx context.Context, fn func(Store) error) error

	Ping(ctx context.Context) error
	Close() error
}
