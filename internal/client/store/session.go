package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
)

const (
	SessionKey   = "session"
	AuthStateKey = "auth_state"
)

// SessionStore persists the identity gate's state and the session tokens.
// It is the HTTP client's token source.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

// Load returns the persisted state and session. With nothing stored the
// state is unauthenticated. An authenticated state without a session is
// downgraded to unauthenticated.
func (s *SessionStore) Load(ctx context.Context) (models.AuthState, *models.Session, error) {
	r := s.repo()

	state := models.AuthUnauthenticated
	raw, err := r.Get(ctx, AuthStateKey)
	switch {
	case errors.Is(err, common.ErrorNotFound):
	case err != nil:
		return "", nil, err
	case models.AuthState(raw).Valid():
		state = models.AuthState(raw)
	}

	sess, err := s.session(ctx, r)
	if err != nil {
		return "", nil, err
	}
	if state == models.AuthAuthenticated && (sess == nil || sess.AccessToken == "") {
		return models.AuthUnauthenticated, nil, nil
	}
	return state, sess, nil
}

func (s *SessionStore) session(ctx context.Context, r metadata.Repository) (*models.Session, error) {
	raw, err := r.Get(ctx, SessionKey)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, nil
	}
	return &sess, nil
}

// SaveSession stores sess and marks the state authenticated in one
// transaction.
func (s *SessionStore) SaveSession(ctx context.Context, sess *models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := metadata.NewSQLiteRepository(tx)
		if err := r.Set(ctx, SessionKey, raw); err != nil {
			return err
		}
		return r.Set(ctx, AuthStateKey, []byte(models.AuthAuthenticated))
	})
}

// SetState records state and drops any stored session.
func (s *SessionStore) SetState(ctx context.Context, state models.AuthState) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := metadata.NewSQLiteRepository(tx)
		if err := r.Delete(ctx, SessionKey); err != nil {
			return err
		}
		return r.Set(ctx, AuthStateKey, []byte(state))
	})
}

// Tokens returns the stored pair, or a zero pair when not authenticated.
func (s *SessionStore) Tokens(ctx context.Context) (models.TokenPair, error) {
	state, sess, err := s.Load(ctx)
	if err != nil {
		return models.TokenPair{}, err
	}
	if state != models.AuthAuthenticated || sess == nil {
		return models.TokenPair{}, nil
	}
	return models.TokenPair{AccessToken: sess.AccessToken, RefreshToken: sess.RefreshToken}, nil
}

// SetTokens replaces the tokens of the stored session.
func (s *SessionStore) SetTokens(ctx context.Context, pair models.TokenPair) error {
	sess, err := s.session(ctx, s.repo())
	if err != nil {
		return err
	}
	if sess == nil {
		return common.ErrorNotFound
	}
	sess.AccessToken = pair.AccessToken
	sess.RefreshToken = pair.RefreshToken
	return s.SaveSession(ctx, sess)
}
