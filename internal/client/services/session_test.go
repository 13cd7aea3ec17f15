package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/store"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGate(t *testing.T) (*SessionGate, *fakeRemote, *store.SessionStore) {
	t.Helper()
	remote := newFakeRemote()
	remote.authRes = &models.AuthResult{
		User:      &models.User{ID: "u1", Email: "a@example.com", Username: "alice"},
		TokenPair: models.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
	}
	ss := store.NewSessionStore(openDB(t))
	return NewSessionGate(remote, ss, logging.Nop{}), remote, ss
}

func TestSessionGate_StartsUnauthenticated(t *testing.T) {
	g, _, _ := newGate(t)
	require.NoError(t, g.Restore(context.Background()))
	assert.Equal(t, models.AuthUnauthenticated, g.State())
	assert.False(t, g.HasSession())
	assert.Nil(t, g.User())
}

func TestSessionGate_LoginPersists(t *testing.T) {
	g, _, ss := newGate(t)
	ctx := context.Background()

	u, err := g.Login(ctx, "a@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, models.AuthAuthenticated, g.State())
	assert.True(t, g.HasSession())

	pair, err := ss.Tokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TokenPair{AccessToken: "acc", RefreshToken: "ref"}, pair)

	// a fresh gate over the same store picks the session up
	again := NewSessionGate(newFakeRemote(), ss, logging.Nop{})
	require.NoError(t, again.Restore(ctx))
	assert.True(t, again.HasSession())
	assert.Equal(t, "u1", again.User().ID)
}

func TestSessionGate_LoginFailureKeepsState(t *testing.T) {
	g, remote, _ := newGate(t)
	remote.authErr = &client.APIError{Status: 401, Message: "Invalid credentials"}

	_, err := g.Login(context.Background(), "a@example.com", "wrong1")
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, models.AuthUnauthenticated, g.State())
	assert.False(t, g.HasSession())
}

func TestSessionGate_Register(t *testing.T) {
	g, remote, _ := newGate(t)

	_, err := g.Register(context.Background(), "a@example.com", "alice", "secret1")
	require.NoError(t, err)
	assert.True(t, g.HasSession())
	assert.Equal(t, []string{"register"}, remote.calls)
}

func TestSessionGate_LogoutUsesRotatedToken(t *testing.T) {
	g, remote, ss := newGate(t)
	ctx := context.Background()

	_, err := g.Login(ctx, "a@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, ss.SetTokens(ctx, models.TokenPair{AccessToken: "acc2", RefreshToken: "ref2"}))

	remote.logoutErr = errors.New("offline")
	require.NoError(t, g.Logout(ctx))

	assert.Equal(t, "ref2", remote.lastToken)
	assert.Equal(t, models.AuthUnauthenticated, g.State())
	assert.False(t, g.HasSession())

	state, sess, err := ss.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AuthUnauthenticated, state)
	assert.Nil(t, sess)
}

func TestSessionGate_SkipNeverCallsCloud(t *testing.T) {
	g, remote, ss := newGate(t)
	ctx := context.Background()

	require.NoError(t, g.Skip(ctx))
	assert.Equal(t, models.AuthSkipped, g.State())
	assert.False(t, g.HasSession())
	assert.Empty(t, remote.calls)

	_, err := g.Profile(ctx)
	require.ErrorIs(t, err, client.ErrNoSession)
	_, err = g.UpdateProfile(ctx, "bob")
	require.ErrorIs(t, err, client.ErrNoSession)
	assert.Empty(t, remote.calls)

	state, _, err := ss.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AuthSkipped, state)
}

func TestSessionGate_Profile(t *testing.T) {
	g, remote, ss := newGate(t)
	ctx := context.Background()
	remote.profile = &models.Profile{User: &models.User{ID: "u1"}, Stats: &models.ProfileStats{TotalNotes: 2}}

	_, err := g.Login(ctx, "a@example.com", "secret1")
	require.NoError(t, err)

	p, err := g.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stats.TotalNotes)

	u, err := g.UpdateProfile(ctx, "Alice W")
	require.NoError(t, err)
	assert.Equal(t, "Alice W", u.Username)
	assert.Equal(t, "Alice W", g.User().Username)

	_, sess, err := ss.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice W", sess.User.Username)
	assert.Equal(t, "acc", sess.AccessToken)
}
