package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"inventory-system/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestIssuer(t *testing.T, mutate func(*config.AuthConfig)) *TokenIssuer {
	t.Helper()
	cfg := config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    "inventory-system",
		Audience:  "inventory-clients",
		TokenTTL:  7 * 24 * time.Hour,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	issuer, err := NewTokenIssuer(cfg)
	require.NoError(t, err)
	return issuer
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t, nil)
	userID := uuid.New()

	token, exp, err := issuer.GenerateToken(userID, "alice", "Customer")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp, time.Minute)

	claims, err := issuer.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Name)
	require.Equal(t, "Customer", claims.Role)

	got, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, userID, got)
}

func TestParseTokenRejects(t *testing.T) {
	issuer := newTestIssuer(t, nil)
	token, _, err := issuer.GenerateToken(uuid.New(), "bob", "Admin")
	require.NoError(t, err)

	cases := map[string]*TokenIssuer{
		"wrong secret": newTestIssuer(t, func(c *config.AuthConfig) {
			c.JWTSecret = "ffffffffffffffffffffffffffffffff"
		}),
		"wrong issuer": newTestIssuer(t, func(c *config.AuthConfig) {
			c.Issuer = "someone-else"
		}),
		"wrong audience": newTestIssuer(t, func(c *config.AuthConfig) {
			c.Audience = "other-clients"
		}),
	}
	for name, verifier := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.ParseToken(token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	t.Run("expired", func(t *testing.T) {
		expired := newTestIssuer(t, func(c *config.AuthConfig) {
			c.TokenTTL = -time.Hour
		})
		stale, _, err := expired.GenerateToken(uuid.New(), "carol", "Supplier")
		require.NoError(t, err)
		_, err = issuer.ParseToken(stale)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.ParseToken("not-a-token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer(config.AuthConfig{})
	require.Error(t, err)

	_, err = NewTokenIssuer(config.AuthConfig{JWTSecret: "short"})
	require.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	h := &BcryptHasher{Cost: 4}

	hash, err := h.Hash("s3cret!")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret!", hash)
	require.True(t, h.Verify("s3cret!", hash))
	require.False(t, h.Verify("wrong", hash))
}
