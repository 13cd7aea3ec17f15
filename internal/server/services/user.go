// Package services contains server-side business logic. UserService covers
// accounts: registration, login, token refresh and the profile.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/cryptox"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
)

const (
	MinPasswordLength = 6
	MinUsernameLength = 3
	MaxUsernameLength = 100
)

// ErrEmailTaken is returned by Register for an already registered email.
var ErrEmailTaken = fmt.Errorf("email already registered: %w", common.ErrorAlreadyExists)

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// normalizeEmail trims and lower-cases an address; ok is false when it does
// not parse as a bare address.
func normalizeEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return email, false
	}
	return email, true
}

func validateUsername(v *common.ValidationError, username string) {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		v.Add("username", fmt.Sprintf("Username must be %d-%d characters long", MinUsernameLength, MaxUsernameLength))
	}
}

// Register creates an account and signs the new user in.
func (s *UserService) Register(ctx context.Context, email, username, password string) (*models.AuthResult, error) {
	v := &common.ValidationError{}

	email, ok := normalizeEmail(email)
	if !ok {
		v.Add("email", "Please provide a valid email")
	}
	username = strings.TrimSpace(username)
	validateUsername(v, username)
	switch {
	case len(password) < MinPasswordLength:
		v.Add("password", fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	case cryptox.IsPasswordTooLong([]byte(password)):
		v.Add("password", "Password is too long")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		return nil, common.ErrorInternal
	}

	var result *models.AuthResult
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{Email: email, Username: username, PasswordHash: hash})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return ErrEmailTaken
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		pair, err := s.generateTokenPair(ctx, u.ID, tx)
		if err != nil {
			return err
		}
		result = &models.AuthResult{User: u, TokenPair: *pair}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Login checks credentials. Unknown email and wrong password are both
// reported as common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	email, _ = normalizeEmail(email)
	if email == "" || password == "" {
		v := &common.ValidationError{}
		if email == "" {
			v.Add("email", "Email is required")
		}
		if password == "" {
			v.Add("password", "Password is required")
		}
		return nil, v
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	if !cryptox.CheckPassword(user.PasswordHash, []byte(password)) {
		return nil, common.ErrorUnauthorized
	}
	if !user.IsActive {
		return nil, common.ErrorForbidden
	}

	user, err = repo.TouchLastLogin(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error updating last login: %w", err)
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{User: user, TokenPair: *pair}, nil
}

// RefreshToken rotates a refresh token and returns a fresh pair. Unknown
// tokens yield common.ErrorUnauthorized, stale ones
// common.ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrorUnauthorized
	}

	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *models.TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout forgets refreshToken. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		v := &common.ValidationError{}
		v.Add("refreshToken", "Refresh token is required")
		return v
	}
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.repomanager.Notes(s.db).Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.Profile{User: u, Stats: stats}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	v := &common.ValidationError{}
	validateUsername(v, username)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return s.repomanager.Users(s.db).UpdateUsername(ctx, userID, username)
}

// UserID verifies an access token; it backs the HTTP auth middleware.
func (s *UserService) UserID(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*models.TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	expires := time.Now().Add(s.refreshTokenValidityDuration)
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, expires); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
