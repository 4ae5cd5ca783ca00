package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testTokens() TokenService {
	return TokenService{
		Secret:     []byte("test-secret"),
		Issuer:     "eventhubble",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
}

func TestPasswordHashing(t *testing.T) {
	tokens := testTokens()
	hash, err := tokens.HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, tokens.VerifyPassword("s3cret!", hash))
	assert.False(t, tokens.VerifyPassword("wrong", hash))

	legacy, err := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, tokens.VerifyPassword("old-pass", string(legacy)))
}

func TestAccessTokenCarriesCSRF(t *testing.T) {
	tokens := testTokens()
	signed, session, exp, err := tokens.CreateAccessToken(Session{AdminID: "a1", Email: "admin@eventhubble.com", Role: "ADMIN"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.CSRF)
	assert.Greater(t, exp, time.Now().Unix())

	parsed, err := tokens.ParseAccess(signed)
	require.NoError(t, err)
	assert.Equal(t, session, parsed)
}

func TestRefreshTokenIsNotAccess(t *testing.T) {
	tokens := testTokens()
	refresh, err := tokens.CreateRefreshToken("a1")
	require.NoError(t, err)

	_, err = tokens.ParseAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	adminID, err := tokens.ParseRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, "a1", adminID)
}

func TestTokenFromOtherIssuerRejected(t *testing.T) {
	other := testTokens()
	other.Issuer = "someone-else"
	signed, _, _, err := other.CreateAccessToken(Session{AdminID: "a1"})
	require.NoError(t, err)

	_, err = testTokens().ParseAccess(signed)
	assert.Error(t, err)
}

func TestNeedsRehash(t *testing.T) {
	tokens := testTokens()
	current, err := tokens.HashPassword("s3cret!")
	require.NoError(t, err)
	assert.False(t, tokens.NeedsRehash(current))

	weak, err := PasswordParams{Memory: 16 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}.hash("s3cret!")
	require.NoError(t, err)
	assert.True(t, tokens.VerifyPassword("s3cret!", weak))
	assert.True(t, tokens.NeedsRehash(weak))

	legacy, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, tokens.NeedsRehash(string(legacy)))
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	tokens := testTokens()
	assert.False(t, tokens.VerifyPassword("x", "$argon2id$v=19$m=65536,t=3,p=1$!!$!!"))
	assert.False(t, tokens.VerifyPassword("x", "$argon2id$v=18$m=65536,t=3,p=1$c2FsdA$a2V5"))
}
