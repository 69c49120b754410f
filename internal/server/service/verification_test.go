package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nivesh/brokerlink/internal/server/domain"
	"github.com/nivesh/brokerlink/internal/server/service"
)

func TestStatusRequiresCredentials(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	state, err := fx.verif.Status(ctx, fx.userID)
	require.NoError(t, err)
	require.Equal(t, domain.VerificationRequiresCredentials, state.Status)
}

func TestStatusRequiresAuth(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	_, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "")
	require.NoError(t, err)

	state, err := fx.verif.Status(ctx, fx.userID)
	require.NoError(t, err)
	require.Equal(t, domain.VerificationRequiresAuth, state.Status)

	// With a redirect URI configured the response carries a consent
	// link pointing at the broker, parameterised by the stored app ID.
	require.Contains(t, state.AuthorizeURL, "generate-authcode")
	require.Contains(t, state.AuthorizeURL, "APP-100")
	require.Contains(t, state.AuthorizeURL, "redirect_uri=")
}

func TestStatusSuccessAfterExchange(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	_, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "code-1")
	require.NoError(t, err)

	state, err := fx.verif.Status(ctx, fx.userID)
	require.NoError(t, err)
	require.Equal(t, domain.VerificationSuccess, state.Status)
}

func TestStatusFailsOnRejectedToken(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	_, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "code-1")
	require.NoError(t, err)

	fx.fyers.rejectToken = true

	// The rejected probe clears stored tokens, so the workflow reports
	// the failure once and then settles back to requires_auth.
	state, err := fx.verif.Status(ctx, fx.userID)
	require.NoError(t, err)
	require.Equal(t, domain.VerificationFailed, state.Status)

	state, err = fx.verif.Status(ctx, fx.userID)
	require.NoError(t, err)
	require.Equal(t, domain.VerificationRequiresAuth, state.Status)
}

func TestRejectedCodeDropsBackToRequiresAuth(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)
	fx.fyers.rejectCode = true

	_, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "stale")
	require.Error(t, err)

	// A rejected code means only the code was bad; the stored
	// credentials survive and the workflow asks for fresh consent.
	state, err := fx.verif.Status(ctx, fx.userID)
	require.NoError(t, err)
	require.Equal(t, domain.VerificationRequiresAuth, state.Status)
}

func TestNetworkFailureStaysFailedUntilRetry(t *testing.T) {
	ctx := context.Background()
	fx := newBrokerFixture(t)

	// Broker goes dark before the exchange.
	fx.fyers.srv.Close()

	_, err := fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "net-code")
	require.ErrorIs(t, err, service.ErrBrokerUnavailable)

	// failed holds across reads until the user acts.
	state, err := fx.verif.Status(ctx, fx.userID)
	require.NoError(t, err)
	require.Equal(t, domain.VerificationFailed, state.Status)

	state, err = fx.verif.Status(ctx, fx.userID)
	require.NoError(t, err)
	require.Equal(t, domain.VerificationFailed, state.Status)

	// A fresh credentials save is the explicit retry.
	_, err = fx.broker.SetFyersCredentials(ctx, fx.userID, obscured("APP-100"), obscured("secret"), "")
	require.NoError(t, err)

	state, err = fx.verif.Status(ctx, fx.userID)
	require.NoError(t, err)
	require.Equal(t, domain.VerificationRequiresAuth, state.Status)
}
