// Package service contains the business logic layer.
//
// Services sit between the HTTP handlers and the repositories: handlers
// parse requests and write responses, services enforce the rules, and
// repositories talk to the database. Services depend only on the
// repository interfaces, so tests swap in hand-written fakes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/sakif/fantasy-forward/internal/apperror"
	"github.com/sakif/fantasy-forward/internal/auth"
	"github.com/sakif/fantasy-forward/internal/model"
	"github.com/sakif/fantasy-forward/internal/repository"
)

// MinPasswordLength applies to the legacy register path.
const MinPasswordLength = 8

// AuthService owns every way a request becomes an authenticated user:
//
//   - the legacy email/password path (Register, Login), which issues
//     locally signed tokens;
//   - the provider path, where a bearer token is verified remotely and the
//     identity is mirrored into the users table (ReconcileIdentity);
//   - the unified gate (Authenticate), which routes a bearer token through
//     whichever of the two mechanisms can resolve it.
//
// tokens and verifier may each be nil when the corresponding mechanism is
// not configured; Authenticate skips what is absent.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	verifier  auth.Verifier
	logger    *slog.Logger
}

// compile-time check that AuthService satisfies the middleware's contract
var _ auth.Authenticator = (*AuthService)(nil)

// NewAuthService wires an AuthService. tokens and verifier are optional
// (nil disables that mechanism); users, passwords and logger are required.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	verifier auth.Verifier,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		verifier:  verifier,
		logger:    logger,
	}
}

// AuthResult bundles the user and the issued access token, so the handler
// can respond with both in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a local account and issues an access token.
//
// Fails with ErrValidation for a malformed email or short password, and
// with ErrConflict when the email is already registered (whoever owns the
// existing row — local or mirrored — the email is taken).
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	if s.tokens == nil {
		return nil, apperror.Unauthorized("local registration is not enabled")
	}

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}

	// The repository's UNIQUE constraint is the duplicate check; it
	// returns ErrConflict for a taken email regardless of the password.
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies email/password credentials and issues an access token.
//
// An unknown email and a wrong password produce the same ErrUnauthorized
// with the same message, so the response never reveals which half failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if s.tokens == nil {
		return nil, apperror.Unauthorized("local login is not enabled")
	}

	badCredentials := apperror.Unauthorized("incorrect email or password")

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, badCredentials
	}

	// Mirrored accounts have no local hash; they can only sign in at the
	// provider. bcrypt rejects the empty hash, so they fall through to the
	// same uniform error.
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, badCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// ReconcileIdentity maps a verified external identity to a local user row,
// creating the row on first sight.
//
// The local primary key IS the provider's subject ID, so calling this
// repeatedly for the same identity always lands on the same row — the
// upsert inserts once and afterwards only refreshes the mirrored email.
// The returned user is the stored record.
func (s *AuthService) ReconcileIdentity(ctx context.Context, externalID, email string) (*model.User, error) {
	if externalID == "" {
		return nil, fmt.Errorf("service/auth: external ID must not be empty")
	}

	user := &model.User{
		ID:    externalID,
		Email: strings.ToLower(strings.TrimSpace(email)),
		// PasswordHash stays empty — the provider owns the credentials.
	}

	if err := s.users.UpsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: reconciling identity %s: %w", externalID, err)
	}

	return user, nil
}

// Authenticate resolves a bearer token to a local user. This is the single
// entry point the RequireAuth middleware uses for every protected route.
//
// Strategy order: the local token check runs first because it is an
// in-process signature check — no I/O. If the token isn't one we signed
// (or local auth is disabled), it goes to the identity provider, and a
// verified identity is reconciled into the users table on the way back.
//
// Whatever fails inside — bad signature, expired token, provider outage,
// provider rejection — the caller sees one uniform ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, apperror.Unauthorized("could not validate credentials")
	}

	if s.tokens != nil {
		if userID, err := s.tokens.Validate(token); err == nil {
			user, err := s.users.GetUserByID(ctx, userID)
			if err != nil {
				return nil, apperror.Unauthorized("could not validate credentials")
			}
			return user, nil
		}
	}

	if s.verifier != nil {
		identity, err := s.verifier.Verify(ctx, token)
		if err != nil {
			s.logger.Debug("provider verification failed", slog.String("error", err.Error()))
			return nil, apperror.Unauthorized("could not validate credentials")
		}

		user, err := s.ReconcileIdentity(ctx, identity.ID, identity.Email)
		if err != nil {
			s.logger.Error("identity reconciliation failed",
				slog.String("externalID", identity.ID),
				slog.String("error", err.Error()),
			)
			return nil, apperror.Unauthorized("could not validate credentials")
		}
		return user, nil
	}

	return nil, apperror.Unauthorized("could not validate credentials")
}

// GetUserByID returns the user for the given ID. Used by /auth/me after
// the middleware has already resolved the principal.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}
	return s.users.GetUserByID(ctx, id)
}

// normalizeEmail lower-cases, trims, and syntax-checks an email address.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperror.ValidationFailed("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperror.ValidationFailed("email", "email address is not valid")
	}
	return email, nil
}
