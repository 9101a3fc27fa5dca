// internal/session/bridge_test.go
package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	sessions []*Session
	err      error
}

func (f *fakeSink) SyncProfile(_ context.Context, sess *Session) error {
	f.sessions = append(f.sessions, sess)
	return f.err
}

func drain(ch <-chan Snapshot) []Snapshot {
	var snaps []Snapshot
	for {
		select {
		case snap := <-ch:
			snaps = append(snaps, snap)
		default:
			return snaps
		}
	}
}

func testSession(userID string) *Session {
	return &Session{UserID: userID, Email: userID + "@example.com"}
}

func TestStartWithoutProviderIsAnonymousAndReady(t *testing.T) {
	b := NewBridge(nil, nil)

	require.False(t, b.Snapshot().Ready)

	b.Start(context.Background(), nil)

	snap := b.Snapshot()
	assert.Equal(t, StateAnonymous, snap.State)
	assert.True(t, snap.Ready)
	assert.Nil(t, snap.Session)
}

func TestStartWithSessionSignsIn(t *testing.T) {
	sink := &fakeSink{}
	b := NewBridge(sink, nil)

	provider := ProviderFunc(func(context.Context) (*Session, error) {
		return testSession("u1"), nil
	})
	b.Start(context.Background(), provider)

	snap := b.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.True(t, snap.Ready)
	require.NotNil(t, snap.Session)
	assert.Equal(t, "u1", snap.Session.UserID)
	require.Len(t, sink.sessions, 1)
}

func TestStartProviderErrorCountsAsAnonymous(t *testing.T) {
	b := NewBridge(nil, nil)

	provider := ProviderFunc(func(context.Context) (*Session, error) {
		return nil, errors.New("provider down")
	})
	b.Start(context.Background(), provider)

	snap := b.Snapshot()
	assert.Equal(t, StateAnonymous, snap.State)
	assert.True(t, snap.Ready)
}

func TestSignInThenSignOut(t *testing.T) {
	sink := &fakeSink{}
	b := NewBridge(sink, nil)
	b.Start(context.Background(), nil)

	b.HandleEvent(context.Background(), Event{Kind: EventSignedIn, Session: testSession("u1")})
	assert.Equal(t, StateAuthenticated, b.Snapshot().State)
	require.Len(t, sink.sessions, 1)

	b.HandleEvent(context.Background(), Event{Kind: EventSignedOut})
	snap := b.Snapshot()
	assert.Equal(t, StateAnonymous, snap.State)
	assert.Nil(t, snap.Session)
}

func TestIdentitySwitchPassesThroughAnonymous(t *testing.T) {
	b := NewBridge(nil, nil)
	b.Start(context.Background(), nil)
	b.HandleEvent(context.Background(), Event{Kind: EventSignedIn, Session: testSession("alice")})

	ch, cancel := b.Subscribe()
	defer cancel()
	drain(ch) // discard the initial snapshot

	b.HandleEvent(context.Background(), Event{Kind: EventSignedIn, Session: testSession("bob")})

	snaps := drain(ch)
	require.Len(t, snaps, 2)
	assert.Equal(t, StateAnonymous, snaps[0].State)
	assert.Nil(t, snaps[0].Session)
	assert.Equal(t, StateAuthenticated, snaps[1].State)
	assert.Equal(t, "bob", snaps[1].Session.UserID)
}

func TestSameUserSignInDoesNotPassThroughAnonymous(t *testing.T) {
	b := NewBridge(nil, nil)
	b.Start(context.Background(), nil)
	b.HandleEvent(context.Background(), Event{Kind: EventSignedIn, Session: testSession("alice")})

	ch, cancel := b.Subscribe()
	defer cancel()
	drain(ch)

	b.HandleEvent(context.Background(), Event{Kind: EventSignedIn, Session: testSession("alice")})

	snaps := drain(ch)
	require.Len(t, snaps, 1)
	assert.Equal(t, StateAuthenticated, snaps[0].State)
}

func TestProfileSyncFailureDoesNotBlockSignIn(t *testing.T) {
	sink := &fakeSink{err: errors.New("db down")}
	b := NewBridge(sink, nil)
	b.Start(context.Background(), nil)

	b.HandleEvent(context.Background(), Event{Kind: EventSignedIn, Session: testSession("u1")})

	snap := b.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	require.NotNil(t, snap.Session)
	assert.Equal(t, "u1", snap.Session.UserID)
}

func TestSignInWithoutSessionIsIgnored(t *testing.T) {
	b := NewBridge(nil, nil)
	b.Start(context.Background(), nil)

	b.HandleEvent(context.Background(), Event{Kind: EventSignedIn})
	b.HandleEvent(context.Background(), Event{Kind: EventSignedIn, Session: &Session{}})

	assert.Equal(t, StateAnonymous, b.Snapshot().State)
}

func TestRefreshUpdatesSameUserOnly(t *testing.T) {
	b := NewBridge(nil, nil)
	b.Start(context.Background(), nil)
	b.HandleEvent(context.Background(), Event{Kind: EventSignedIn, Session: testSession("u1")})

	refreshed := testSession("u1")
	refreshed.Email = "new@example.com"
	b.HandleEvent(context.Background(), Event{Kind: EventTokenRefreshed, Session: refreshed})
	assert.Equal(t, "new@example.com", b.Snapshot().Session.Email)

	// A refresh for someone else never swaps the identity.
	b.HandleEvent(context.Background(), Event{Kind: EventTokenRefreshed, Session: testSession("u2")})
	assert.Equal(t, "u1", b.Snapshot().Session.UserID)
}

func TestSubscribeDeliversCurrentStateImmediately(t *testing.T) {
	b := NewBridge(nil, nil)
	b.Start(context.Background(), nil)

	ch, cancel := b.Subscribe()
	defer cancel()

	snaps := drain(ch)
	require.Len(t, snaps, 1)
	assert.Equal(t, StateAnonymous, snaps[0].State)
	assert.True(t, snaps[0].Ready)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBridge(nil, nil)
	b.Start(context.Background(), nil)

	ch, cancel := b.Subscribe()
	drain(ch)
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Transitions after cancel must not reach (or panic on) the closed
	// channel.
	b.HandleEvent(context.Background(), Event{Kind: EventSignedIn, Session: testSession("u1")})
}

func TestUnknownEventKindIsIgnored(t *testing.T) {
	b := NewBridge(nil, nil)
	b.Start(context.Background(), nil)

	b.HandleEvent(context.Background(), Event{Kind: EventKind("PASSWORD_RECOVERY")})

	assert.Equal(t, StateAnonymous, b.Snapshot().State)
}
