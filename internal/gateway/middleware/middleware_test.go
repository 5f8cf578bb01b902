package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"inventory-system/config"
	"inventory-system/internal/policy"
	"inventory-system/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newIssuer(t *testing.T) *utils.TokenIssuer {
	t.Helper()
	issuer, err := utils.NewTokenIssuer(config.AuthConfig{
		JWTSecret: "0123456789abcdef0123456789abcdef",
		Issuer:    "inventory-system",
		Audience:  "inventory-clients",
		TokenTTL:  time.Hour,
	})
	require.NoError(t, err)
	return issuer
}

// newRouter mounts an admin-only endpoint that records whether it ran.
func newRouter(t *testing.T, issuer *utils.TokenIssuer, reached *bool) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.GET("/admin", JWTAuth(issuer), RequirePolicy(policy.RequireAdminRole), func(c *gin.Context) {
		*reached = true
		id, ok := CurrentUserID(c)
		require.True(t, ok)
		c.String(http.StatusOK, id.String())
	})
	return r
}

func TestJWTAuthRejectsMissingOrBadTokens(t *testing.T) {
	issuer := newIssuer(t)

	for name, header := range map[string]string{
		"missing":   "",
		"no bearer": "Token abc",
		"garbage":   "Bearer not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			var reached bool
			r := newRouter(t, issuer, &reached)

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
			require.False(t, reached)
		})
	}
}

func TestRequirePolicyBlocksBeforeHandler(t *testing.T) {
	issuer := newIssuer(t)
	var reached bool
	r := newRouter(t, issuer, &reached)

	token, _, err := issuer.GenerateToken(uuid.New(), "buyer", "Customer")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.False(t, reached)
}

func TestAdminPassesPolicy(t *testing.T) {
	issuer := newIssuer(t)
	var reached bool
	r := newRouter(t, issuer, &reached)

	id := uuid.New()
	token, _, err := issuer.GenerateToken(id, "admin", "Admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, reached)
	require.Equal(t, id.String(), w.Body.String())
}

func TestRateLimit(t *testing.T) {
	_, err := RateLimit("lots")
	require.Error(t, err)

	limit, err := RateLimit("2-M")
	require.NoError(t, err)

	r := gin.New()
	r.Use(limit)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
