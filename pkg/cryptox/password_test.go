package cryptox_test

import (
	"strings"
	"testing"

	"github.com/nivesh/brokerlink/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func testPepper(t *testing.T) cryptox.Pepper {
	t.Helper()

	p, err := cryptox.ParsePepper("c3VwZXItc2VjcmV0LXBlcHBlci12YWx1ZQ==")
	require.NoError(t, err)
	return p
}

func TestHashAndVerify(t *testing.T) {
	pepper := testPepper(t)

	hash, err := cryptox.HashPassword("hunter2hunter2", pepper)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	require.NoError(t, cryptox.VerifyPassword("hunter2hunter2", hash, pepper))
	require.ErrorIs(t, cryptox.VerifyPassword("wrong-password", hash, pepper), cryptox.ErrHashMismatch)
}

func TestVerifyRequiresSamePepper(t *testing.T) {
	pepper := testPepper(t)

	hash, err := cryptox.HashPassword("hunter2hunter2", pepper)
	require.NoError(t, err)

	other, err := cryptox.ParsePepper("YW5vdGhlci1zZWNyZXQtcGVwcGVyLXZhbHVl")
	require.NoError(t, err)

	require.ErrorIs(t, cryptox.VerifyPassword("hunter2hunter2", hash, other), cryptox.ErrHashMismatch)
}

func TestHashesAreSalted(t *testing.T) {
	pepper := testPepper(t)

	h1, err := cryptox.HashPassword("same-password", pepper)
	require.NoError(t, err)
	h2, err := cryptox.HashPassword("same-password", pepper)
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	pepper := testPepper(t)

	err := cryptox.VerifyPassword("whatever", "$bcrypt$nope", pepper)
	require.ErrorIs(t, err, cryptox.ErrMalformedHash)
}

func TestParsePepperValidation(t *testing.T) {
	_, err := cryptox.ParsePepper("!!not-base64!!")
	require.Error(t, err)

	_, err = cryptox.ParsePepper("c2hvcnQ=") // "short"
	require.ErrorIs(t, err, cryptox.ErrPepperTooShort)
}
