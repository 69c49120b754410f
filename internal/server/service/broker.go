package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nivesh/brokerlink/internal/server/domain"
	"github.com/nivesh/brokerlink/internal/server/fyers"
	"github.com/nivesh/brokerlink/internal/server/store"
	"github.com/nivesh/brokerlink/internal/server/zerodha"
	"github.com/nivesh/brokerlink/pkg/cryptox"
	"github.com/nivesh/brokerlink/pkg/idx"
	"github.com/nivesh/brokerlink/pkg/slogx"
)

// usedCodeTTL bounds how long consumed auth codes are remembered. The
// brokers themselves expire codes within minutes, so a short window is
// enough to make retries of the same code fail fast.
const usedCodeTTL = 15 * time.Minute

// BrokerService manages broker credential storage, auth code exchange
// and token invalidation.
type BrokerService struct {
	store   store.Store
	fyers   *fyers.Client
	zerodha *zerodha.Client

	// onState reports workflow transitions to the verification tracker;
	// resetState drops any lingering failed entry when the user retries.
	onState    func(idx.ID, domain.VerificationStatus, string)
	resetState func(idx.ID)

	mu        sync.Mutex
	usedCodes map[string]time.Time
}

func NewBrokerService(s store.Store, fc *fyers.Client, zc *zerodha.Client) *BrokerService {
	return &BrokerService{
		store:     s,
		fyers:     fc,
		zerodha:   zc,
		onState:    func(idx.ID, domain.VerificationStatus, string) {},
		resetState: func(idx.ID) {},
		usedCodes:  make(map[string]time.Time),
	}
}

func (s *BrokerService) user(ctx context.Context, id idx.ID) (domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// Credentials returns the current link state for the user.
func (s *BrokerService) Credentials(ctx context.Context, userID idx.ID) (domain.User, error) {
	return s.user(ctx, userID)
}

// SetFyersCredentials stores Fyers app credentials and, when an auth
// code is supplied, exchanges it for a token pair. Fields omitted from
// the update fall back to the stored group, so the consent-page return
// leg can deliver just the auth code. Stored tokens are always dropped
// first: new credentials invalidate old sessions.
func (s *BrokerService) SetFyersCredentials(ctx context.Context, userID idx.ID, clientID, secretKey, authCode string) (domain.User, error) {
	clientID = cryptox.RevealText(clientID)
	secretKey = cryptox.RevealText(secretKey)

	current, err := s.user(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if clientID == "" {
		clientID = current.Fyers.ClientID
	}
	if secretKey == "" {
		secretKey = current.Fyers.SecretKey
	}
	if clientID == "" || secretKey == "" {
		return domain.User{}, fmt.Errorf("%w: client id and secret key required", ErrInvalidInput)
	}

	if authCode != "" && !s.consumeCode(userID, authCode) {
		return domain.User{}, ErrAuthCodeUsed
	}

	s.resetState(userID)

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Users().ClearBrokerTokens(ctx, userID); err != nil {
			return err
		}
		if err := tx.Users().PatchFyers(ctx, userID, domain.FyersPatch{
			ClientID:  &clientID,
			SecretKey: &secretKey,
		}); err != nil {
			return err
		}
		return tx.Users().SetProvider(ctx, userID, domain.ProviderFyers)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("save credentials: %w", err)
	}

	if authCode == "" {
		return s.user(ctx, userID)
	}

	s.onState(userID, domain.VerificationAuthStarted, "exchanging auth code")

	tokens, err := s.fyers.ExchangeAuthCode(ctx, clientID, secretKey, authCode)
	if err != nil {
		mapped := mapFyersError(err)
		// A rejected code leaves the stored credentials usable, so the
		// workflow drops back to requires_auth. Only an unreachable
		// broker parks the account in failed until the user retries.
		if errors.Is(mapped, ErrBrokerUnavailable) {
			s.onState(userID, domain.VerificationFailed, "broker unreachable during exchange")
		} else {
			s.resetState(userID)
		}
		return domain.User{}, mapped
	}

	s.onState(userID, domain.VerificationAuthCompleted, "auth code accepted")

	if err := s.store.Users().PatchFyers(ctx, userID, domain.FyersPatch{
		AccessToken:  &tokens.AccessToken,
		RefreshToken: &tokens.RefreshToken,
	}); err != nil {
		s.resetState(userID)
		return domain.User{}, fmt.Errorf("store access token: %w", err)
	}

	s.onState(userID, domain.VerificationSuccess, "")
	slogx.FromContext(ctx).Info("fyers_linked", "user_id", userID.String())

	return s.user(ctx, userID)
}

// SetZerodhaCredentials mirrors SetFyersCredentials for Kite Connect.
func (s *BrokerService) SetZerodhaCredentials(ctx context.Context, userID idx.ID, apiKey, apiSecret, requestToken string) (domain.User, error) {
	apiKey = cryptox.RevealText(apiKey)
	apiSecret = cryptox.RevealText(apiSecret)

	current, err := s.user(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if apiKey == "" {
		apiKey = current.Zerodha.APIKey
	}
	if apiSecret == "" {
		apiSecret = current.Zerodha.APISecret
	}
	if apiKey == "" || apiSecret == "" {
		return domain.User{}, fmt.Errorf("%w: api key and secret required", ErrInvalidInput)
	}

	if requestToken != "" && !s.consumeCode(userID, requestToken) {
		return domain.User{}, ErrAuthCodeUsed
	}

	s.resetState(userID)

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Users().ClearBrokerTokens(ctx, userID); err != nil {
			return err
		}
		if err := tx.Users().PatchZerodha(ctx, userID, domain.ZerodhaPatch{
			APIKey:    &apiKey,
			APISecret: &apiSecret,
		}); err != nil {
			return err
		}
		return tx.Users().SetProvider(ctx, userID, domain.ProviderZerodha)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("save credentials: %w", err)
	}

	if requestToken == "" {
		return s.user(ctx, userID)
	}

	s.onState(userID, domain.VerificationAuthStarted, "exchanging request token")

	sess, err := s.zerodha.ExchangeRequestToken(ctx, apiKey, apiSecret, requestToken)
	if err != nil {
		mapped := mapZerodhaError(err)
		if errors.Is(mapped, ErrBrokerUnavailable) {
			s.onState(userID, domain.VerificationFailed, "broker unreachable during exchange")
		} else {
			s.resetState(userID)
		}
		return domain.User{}, mapped
	}

	s.onState(userID, domain.VerificationAuthCompleted, "request token accepted")

	if err := s.store.Users().PatchZerodha(ctx, userID, domain.ZerodhaPatch{
		AccessToken: &sess.AccessToken,
		PublicToken: &sess.PublicToken,
	}); err != nil {
		s.resetState(userID)
		return domain.User{}, fmt.Errorf("store session: %w", err)
	}

	s.onState(userID, domain.VerificationSuccess, "")
	slogx.FromContext(ctx).Info("zerodha_linked", "user_id", userID.String())

	return s.user(ctx, userID)
}

// Validate probes the broker with the stored session. An in-band
// rejection clears the stored tokens so the account drops back to
// requires_auth; the call itself succeeds with valid=false. Calling
// with no stored session is a no-op returning valid=false.
func (s *BrokerService) Validate(ctx context.Context, userID idx.ID) (bool, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return false, err
	}

	var probeErr error
	switch {
	case user.Provider == domain.ProviderZerodha && user.Zerodha.Authorized():
		_, probeErr = s.zerodha.Margins(ctx, user.Zerodha.APIKey, user.Zerodha.AccessToken)
	case user.Fyers.Authorized():
		_, probeErr = s.fyers.Funds(ctx, user.Fyers.ClientID, user.Fyers.AccessToken)
	default:
		return false, nil
	}

	switch {
	case probeErr == nil:
		return true, nil
	case errors.Is(probeErr, fyers.ErrUnauthorized), errors.Is(probeErr, zerodha.ErrUnauthorized):
		if err := s.store.Users().ClearBrokerTokens(ctx, userID); err != nil {
			return false, fmt.Errorf("clear rejected tokens: %w", err)
		}
		slogx.FromContext(ctx).Info("broker_tokens_invalidated", "user_id", userID.String())
		return false, nil
	case errors.Is(probeErr, fyers.ErrUnreachable), errors.Is(probeErr, zerodha.ErrUnreachable):
		return false, ErrBrokerUnavailable
	default:
		return false, ErrBrokerRejected
	}
}

// ClearTokens drops stored broker sessions, keeping app credentials.
func (s *BrokerService) ClearTokens(ctx context.Context, userID idx.ID) error {
	if err := s.store.Users().ClearBrokerTokens(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("clear tokens: %w", err)
	}
	s.resetState(userID)
	return nil
}

// UpdateRiskLimits stores per-account trading caps.
func (s *BrokerService) UpdateRiskLimits(ctx context.Context, userID idx.ID, limits domain.RiskLimits) error {
	if limits.MaxOrderValue.IsNegative() || limits.MaxDailyLoss.IsNegative() || limits.MaxOpenLots < 0 {
		return fmt.Errorf("%w: risk limits must be non-negative", ErrInvalidInput)
	}

	if err := s.store.Users().UpdateRiskLimits(ctx, userID, limits); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update risk limits: %w", err)
	}
	return nil
}

// consumeCode returns false when the code was already used for this
// user. Expired entries are pruned on the way through.
func (s *BrokerService) consumeCode(userID idx.ID, code string) bool {
	key := userID.String() + ":" + cryptox.SHA256Hex(code)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, seen := range s.usedCodes {
		if now.Sub(seen) > usedCodeTTL {
			delete(s.usedCodes, k)
		}
	}

	if _, used := s.usedCodes[key]; used {
		return false
	}
	s.usedCodes[key] = now
	return true
}

func mapFyersError(err error) error {
	switch {
	case errors.Is(err, fyers.ErrUnreachable):
		return ErrBrokerUnavailable
	default:
		return fmt.Errorf("%w: %v", ErrBrokerRejected, err)
	}
}

func mapZerodhaError(err error) error {
	switch {
	case errors.Is(err, zerodha.ErrUnreachable):
		return ErrBrokerUnavailable
	default:
		return fmt.Errorf("%w: %v", ErrBrokerRejected, err)
	}
}
