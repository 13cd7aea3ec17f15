// Package services holds the client's application logic: the identity gate
// that owns the session and the orchestrator that sends each note operation
// to the cloud first and falls back to the device.
package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

// SessionPersister stores the gate's state between runs.
type SessionPersister interface {
	Load(ctx context.Context) (models.AuthState, *models.Session, error)
	SaveSession(ctx context.Context, sess *models.Session) error
	SetState(ctx context.Context, state models.AuthState) error
}

// SessionGate owns the authentication state. The orchestrator asks it
// whether a session exists before touching the cloud.
type SessionGate struct {
	remote client.Remote
	store  SessionPersister
	logger logging.Logger

	mu      sync.RWMutex
	state   models.AuthState
	session *models.Session
}

func NewSessionGate(remote client.Remote, store SessionPersister, l logging.Logger) *SessionGate {
	return &SessionGate{
		remote: remote,
		store:  store,
		logger: l.With("module", "session_gate"),
		state:  models.AuthUnauthenticated,
	}
}

// Restore loads the persisted state. It is called once at startup.
func (g *SessionGate) Restore(ctx context.Context) error {
	state, sess, err := g.store.Load(ctx)
	if err != nil {
		return err
	}
	g.set(state, sess)
	return nil
}

func (g *SessionGate) set(state models.AuthState, sess *models.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = state
	g.session = sess
}

func (g *SessionGate) State() models.AuthState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// HasSession is true only when authenticated with a token.
func (g *SessionGate) HasSession() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state == models.AuthAuthenticated && g.session != nil && g.session.AccessToken != ""
}

// User returns the profile snapshot of the current session, or nil.
func (g *SessionGate) User() *models.User {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil || g.session.User == nil {
		return nil
	}
	u := *g.session.User
	return &u
}

func (g *SessionGate) Login(ctx context.Context, email, password string) (*models.User, error) {
	res, err := g.remote.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return g.open(ctx, res)
}

// Register creates the account and signs in with it.
func (g *SessionGate) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	res, err := g.remote.Register(ctx, email, username, password)
	if err != nil {
		return nil, err
	}
	return g.open(ctx, res)
}

func (g *SessionGate) open(ctx context.Context, res *models.AuthResult) (*models.User, error) {
	sess := &models.Session{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         res.User,
	}
	if err := g.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	g.set(models.AuthAuthenticated, sess)
	g.logger.Info(ctx, "signed in", "user_id", res.User.ID)
	return g.User(), nil
}

// Logout revokes the refresh token on the server when it can and always
// clears the local session.
func (g *SessionGate) Logout(ctx context.Context) error {
	// tokens may have been rotated by the HTTP client since login
	if _, sess, err := g.store.Load(ctx); err == nil && sess != nil && sess.RefreshToken != "" {
		if err := g.remote.Logout(ctx, sess.RefreshToken); err != nil {
			g.logger.Warn(ctx, "server logout failed", "error", err)
		}
	}

	if err := g.store.SetState(ctx, models.AuthUnauthenticated); err != nil {
		return err
	}
	g.set(models.AuthUnauthenticated, nil)
	return nil
}

// Skip continues without an account. No credentials are exchanged.
func (g *SessionGate) Skip(ctx context.Context) error {
	if err := g.store.SetState(ctx, models.AuthSkipped); err != nil {
		return err
	}
	g.set(models.AuthSkipped, nil)
	return nil
}

func (g *SessionGate) Profile(ctx context.Context) (*models.Profile, error) {
	if !g.HasSession() {
		return nil, client.ErrNoSession
	}
	return g.remote.Profile(ctx)
}

// UpdateProfile renames the account and refreshes the stored snapshot.
func (g *SessionGate) UpdateProfile(ctx context.Context, username string) (*models.User, error) {
	if !g.HasSession() {
		return nil, client.ErrNoSession
	}
	u, err := g.remote.UpdateProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	_, sess, err := g.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		sess.User = u
		if err := g.store.SaveSession(ctx, sess); err != nil {
			return nil, err
		}
		g.set(models.AuthAuthenticated, sess)
	}
	return u, nil
}
