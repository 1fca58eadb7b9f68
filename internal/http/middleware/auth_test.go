package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/prospectly/leadtrack/internal/http/middleware"
	"github.com/prospectly/leadtrack/internal/token"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newGuardedRouter(signer *token.Signer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := &middleware.Auth{Signer: signer}
	r := gin.New()
	r.GET("/protected", auth.RequireSession, func(c *gin.Context) {
		identity, ok := middleware.GetIdentity(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "missing identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID})
	})
	return r
}

func TestRequireSessionAcceptsBearerToken(t *testing.T) {
	signer := token.NewSigner(testSecret, time.Hour)
	router := newGuardedRouter(signer)

	signed, err := signer.Sign(token.Identity{UserID: 42, Email: "a@b.test"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "42")
}

func TestRequireSessionAcceptsCookie(t *testing.T) {
	signer := token.NewSigner(testSecret, time.Hour)
	router := newGuardedRouter(signer)

	signed, err := signer.Sign(token.Identity{UserID: 7, Email: "a@b.test"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: signed})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSessionRejections(t *testing.T) {
	signer := token.NewSigner(testSecret, time.Hour)
	router := newGuardedRouter(signer)

	cases := []struct {
		name    string
		request func() *http.Request
	}{
		{
			name: "no credentials",
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/protected", nil)
			},
		},
		{
			name: "malformed header",
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/protected", nil)
				req.Header.Set("Authorization", "Token abc")
				return req
			},
		},
		{
			name: "garbage token",
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/protected", nil)
				req.Header.Set("Authorization", "Bearer not.a.jwt")
				return req
			},
		},
		{
			name: "token signed with another secret",
			request: func() *http.Request {
				other := token.NewSigner("ffffffffffffffffffffffffffffffff", time.Hour)
				signed, _ := other.Sign(token.Identity{UserID: 9, Email: "x@y.test"})
				req := httptest.NewRequest(http.MethodGet, "/protected", nil)
				req.Header.Set("Authorization", "Bearer "+signed)
				return req
			},
		},
		{
			name: "expired token",
			request: func() *http.Request {
				expired := token.NewSigner(testSecret, -time.Minute)
				signed, _ := expired.Sign(token.Identity{UserID: 9, Email: "x@y.test"})
				req := httptest.NewRequest(http.MethodGet, "/protected", nil)
				req.Header.Set("Authorization", "Bearer "+signed)
				return req
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, tc.request())
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Body.String(), "unauthorized")
		})
	}
}
