package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/service"
	"github.com/prospectly/leadtrack/internal/token"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthService(t *testing.T) (*service.AuthService, *token.Signer, *memoryUserRepo) {
	t.Helper()
	users := newMemoryUserRepo()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	signer := token.NewSigner(testSecret, time.Hour)
	return service.NewAuthService(users, node, signer, zap.NewNop()), signer, users
}

func TestSignupAndSigninFlow(t *testing.T) {
	ctx := context.Background()
	svc, signer, _ := newAuthService(t)

	session, err := svc.Signup(ctx, "Jordan Reyes", "Jordan@Example.com ", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.Equal(t, "jordan@example.com", session.User.Email)
	require.Equal(t, "Jordan Reyes", session.User.Name)
	require.NotZero(t, session.User.ID)

	identity, ok := signer.Verify(session.Token)
	require.True(t, ok)
	require.Equal(t, session.User.ID, identity.UserID)

	signin, err := svc.Signin(ctx, "jordan@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, session.User.ID, signin.User.ID)

	me, err := svc.Me(ctx, session.User.ID)
	require.NoError(t, err)
	require.Equal(t, "jordan@example.com", me.Email)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService(t)

	_, err := svc.Signup(ctx, "First", "taken@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Second", "TAKEN@example.com", "hunter22")
	requireAPIError(t, err, "conflict", 400)
	require.Contains(t, err.Error(), "already exists")
}

func TestSigninFailuresAreIndistinct(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService(t)

	_, err := svc.Signup(ctx, "Jordan", "jordan@example.com", "hunter22")
	require.NoError(t, err)

	_, unknownErr := svc.Signin(ctx, "nobody@example.com", "hunter22")
	_, wrongPassErr := svc.Signin(ctx, "jordan@example.com", "wrong")

	requireAPIError(t, unknownErr, "unauthorized", 401)
	requireAPIError(t, wrongPassErr, "unauthorized", 401)
	require.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}

func TestMeUnknownUser(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Me(context.Background(), 404404)
	requireAPIError(t, err, "not_found", 404)
}

func requireAPIError(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*service.APIError)
	require.True(t, ok, "expected APIError, got %T: %v", err, err)
	require.Equal(t, code, apiErr.Code)
	require.Equal(t, status, apiErr.Status)
}
