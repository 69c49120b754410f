package service

import (
	"context"
	"errors"
	"sync"

	"github.com/nivesh/brokerlink/internal/server/domain"
	"github.com/nivesh/brokerlink/pkg/cryptox"
	"github.com/nivesh/brokerlink/pkg/idx"
)

// VerificationService tracks broker link workflow state per user.
// Transient states (auth_started, auth_completed) live in memory while
// an exchange is in flight; settled states are derived from the store
// and a live token probe.
type VerificationService struct {
	broker *BrokerService

	// redirectURI is where the broker consent page sends the auth
	// code; empty disables authorize URL generation.
	redirectURI string

	mu       sync.Mutex
	inFlight map[idx.ID]domain.VerificationState
}

func NewVerificationService(broker *BrokerService, redirectURI string) *VerificationService {
	s := &VerificationService{
		broker:      broker,
		redirectURI: redirectURI,
		inFlight:    make(map[idx.ID]domain.VerificationState),
	}
	broker.onState = s.track
	broker.resetState = s.reset
	return s
}

// track records a workflow state. Success clears the entry so later
// reads fall through to derivation; failed stays put until the user
// explicitly retries (a new credentials save or token clear).
func (s *VerificationService) track(userID idx.ID, status domain.VerificationStatus, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status == domain.VerificationSuccess {
		delete(s.inFlight, userID)
		return
	}
	s.inFlight[userID] = domain.VerificationState{Status: status, Detail: detail}
}

// reset drops the tracked entry; the next Status derives fresh.
func (s *VerificationService) reset(userID idx.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, userID)
}

// Status reports where the user sits in the link workflow. If an
// exchange is mid-flight its transient state wins; otherwise the
// status is derived from stored credentials and a live probe.
func (s *VerificationService) Status(ctx context.Context, userID idx.ID) (domain.VerificationState, error) {
	s.mu.Lock()
	if state, ok := s.inFlight[userID]; ok {
		s.mu.Unlock()
		return state, nil
	}
	s.mu.Unlock()

	user, err := s.broker.user(ctx, userID)
	if err != nil {
		return domain.VerificationState{}, err
	}

	configured, authorized := linkState(user)
	switch {
	case !configured:
		return domain.VerificationState{
			Status: domain.VerificationRequiresCredentials,
			Detail: "broker app credentials not set",
		}, nil
	case !authorized:
		return domain.VerificationState{
			Status:       domain.VerificationRequiresAuth,
			Detail:       "broker authorization pending",
			AuthorizeURL: s.authorizeURL(user),
		}, nil
	}

	valid, err := s.broker.Validate(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrBrokerUnavailable) {
			return domain.VerificationState{
				Status: domain.VerificationChecking,
				Detail: "broker unreachable, retry later",
			}, nil
		}
		return domain.VerificationState{}, err
	}

	if !valid {
		return domain.VerificationState{
			Status: domain.VerificationFailed,
			Detail: "stored session rejected by broker",
		}, nil
	}
	return domain.VerificationState{Status: domain.VerificationSuccess}, nil
}

// authorizeURL builds the consent link for the next auth step. Only
// the Fyers flow is server-initiated; Kite logins start from the
// broker's own app listing.
func (s *VerificationService) authorizeURL(user domain.User) string {
	if s.redirectURI == "" || user.Provider == domain.ProviderZerodha || !user.Fyers.Configured() {
		return ""
	}

	state, err := cryptox.RandomToken(16)
	if err != nil {
		return ""
	}
	return s.broker.fyers.AuthorizeURL(user.Fyers.ClientID, s.redirectURI, state)
}

// linkState inspects whichever provider the account uses. An account
// with no provider chosen falls back to whichever credentials exist.
func linkState(user domain.User) (configured, authorized bool) {
	switch user.Provider {
	case domain.ProviderZerodha:
		return user.Zerodha.Configured(), user.Zerodha.Authorized()
	case domain.ProviderFyers:
		return user.Fyers.Configured(), user.Fyers.Authorized()
	default:
		if user.Zerodha.Configured() {
			return true, user.Zerodha.Authorized()
		}
		return user.Fyers.Configured(), user.Fyers.Authorized()
	}
}
