package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/prospectly/leadtrack/internal/domain"
	"github.com/prospectly/leadtrack/internal/password"
	"github.com/prospectly/leadtrack/internal/repository"
	"github.com/prospectly/leadtrack/internal/token"
)

// AuthService handles account creation and session issuance.
type AuthService struct {
	users     repository.UserRepository
	snowflake *snowflake.Node
	signer    *token.Signer
	logger    *zap.Logger
}

// NewAuthService wires dependencies.
func NewAuthService(users repository.UserRepository, node *snowflake.Node, signer *token.Signer, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, snowflake: node, signer: signer, logger: logger}
}

// Signup registers a new account and issues a session for it.
func (s *AuthService) Signup(ctx context.Context, name, email, pass string) (AuthSession, error) {
	ctx, span := startSpan(ctx, "AuthService.Signup")
	defer span.End()

	normalized := normalizeEmail(email)

	if _, err := s.users.GetByEmail(ctx, normalized); err == nil {
		return AuthSession{}, conflict("User with this email already exists.")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		span.RecordError(err)
		return AuthSession{}, fmt.Errorf("check existing user: %w", err)
	}

	hashed, err := password.Hash(pass)
	if err != nil {
		span.RecordError(err)
		return AuthSession{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, domain.User{
		ID:           s.snowflake.Generate().Int64(),
		Name:         strings.TrimSpace(name),
		Email:        normalized,
		PasswordHash: hashed,
	})
	if err != nil {
		span.RecordError(err)
		return AuthSession{}, fmt.Errorf("create user: %w", err)
	}

	session, err := s.issueSession(created)
	if err != nil {
		span.RecordError(err)
		return AuthSession{}, err
	}

	s.logger.Info("user signed up", zap.Int64("user_id", created.ID))
	return session, nil
}

// Signin verifies credentials and issues a session. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Signin(ctx context.Context, email, pass string) (AuthSession, error) {
	ctx, span := startSpan(ctx, "AuthService.Signin")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(err)
		}
		return AuthSession{}, unauthorized("Invalid email or password.")
	}

	if !password.Verify(pass, user.PasswordHash) {
		return AuthSession{}, unauthorized("Invalid email or password.")
	}

	session, err := s.issueSession(user)
	if err != nil {
		span.RecordError(err)
		return AuthSession{}, err
	}

	s.logger.Info("user signed in", zap.Int64("user_id", user.ID))
	return session, nil
}

// Me loads the account behind a verified session.
func (s *AuthService) Me(ctx context.Context, userID int64) (UserViewModel, error) {
	ctx, span := startSpan(ctx, "AuthService.Me")
	defer span.End()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserViewModel{}, notFound("User not found.")
		}
		span.RecordError(err)
		return UserViewModel{}, fmt.Errorf("load user: %w", err)
	}
	return newUserViewModel(user), nil
}

func (s *AuthService) issueSession(user domain.User) (AuthSession, error) {
	signed, err := s.signer.Sign(token.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return AuthSession{}, fmt.Errorf("sign session token: %w", err)
	}
	return AuthSession{User: newUserViewModel(user), Token: signed}, nil
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
