// internal/session/bridge.go
package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Bridge reconciles the external provider's session with the local profile
// record. It runs an explicit state machine:
//
//	Unknown       -> Authenticated | Anonymous   (first session check)
//	Anonymous     -> Authenticated               (sign-in, profile upsert)
//	Authenticated -> Anonymous                   (sign-out, profile persists)
//
// A direct Authenticated(A) -> Authenticated(B) transition is illegal and is
// forced through Anonymous. Profile sync failures are logged but never block
// the auth transition: authentication state and profile state are decoupled.
type Bridge struct {
	mu       sync.Mutex
	state    State
	session  *Session
	ready    bool
	profiles ProfileSink
	log      *logrus.Entry

	subs    map[int]chan Snapshot
	nextSub int
}

func NewBridge(profiles ProfileSink, logger *logrus.Logger) *Bridge {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Bridge{
		state:    StateUnknown,
		profiles: profiles,
		log:      logger.WithField("component", "session_bridge"),
		subs:     make(map[int]chan Snapshot),
	}
}

// Start performs the initial session check against the provider and leaves
// the bridge Ready regardless of the outcome. A provider error counts as
// anonymous.
func (b *Bridge) Start(ctx context.Context, provider Provider) {
	var sess *Session
	if provider != nil {
		current, err := provider.CurrentSession(ctx)
		if err != nil {
			b.log.WithError(err).Warn("Initial session check failed, treating as anonymous")
		} else {
			sess = current
		}
	}

	if sess != nil {
		b.HandleEvent(ctx, Event{Kind: EventSignedIn, Session: sess})
		return
	}

	b.mu.Lock()
	b.state = StateAnonymous
	b.session = nil
	b.ready = true
	b.notifyLocked()
	b.mu.Unlock()
}

// HandleEvent applies one provider notification.
func (b *Bridge) HandleEvent(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventSignedIn:
		b.signIn(ctx, ev.Session)
	case EventSignedOut:
		b.signOut()
	case EventTokenRefreshed:
		b.refresh(ev.Session)
	default:
		b.log.WithField("kind", string(ev.Kind)).Warn("Ignoring unknown session event")
	}
}

func (b *Bridge) signIn(ctx context.Context, sess *Session) {
	if sess == nil || sess.UserID == "" {
		b.log.Warn("Ignoring sign-in event without a session")
		return
	}

	b.mu.Lock()
	if b.state == StateAuthenticated && b.session != nil && b.session.UserID != sess.UserID {
		// Identity switch: pass through Anonymous rather than jumping
		// user-to-user.
		b.state = StateAnonymous
		b.session = nil
		b.notifyLocked()
	}
	b.state = StateAuthenticated
	b.session = sess
	b.ready = true
	b.notifyLocked()
	b.mu.Unlock()

	if b.profiles != nil {
		if err := b.profiles.SyncProfile(ctx, sess); err != nil {
			// The user stays signed in either way.
			b.log.WithError(err).WithField("user_id", sess.UserID).
				Error("Profile sync failed on sign-in")
		}
	}
}

func (b *Bridge) signOut() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = StateAnonymous
	b.session = nil
	b.ready = true
	b.notifyLocked()
}

func (b *Bridge) refresh(sess *Session) {
	if sess == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// A refresh only updates an existing session for the same user.
	if b.state != StateAuthenticated || b.session == nil || b.session.UserID != sess.UserID {
		return
	}
	b.session = sess
	b.notifyLocked()
}

// Snapshot returns the current state.
func (b *Bridge) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Subscribe registers for transition snapshots. The returned cancel func
// must be called on teardown; it closes the channel.
func (b *Bridge) Subscribe() (<-chan Snapshot, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextSub
	b.nextSub++
	ch := make(chan Snapshot, 8)
	b.subs[id] = ch

	// Late subscribers immediately see the current state.
	ch <- b.snapshotLocked()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (b *Bridge) snapshotLocked() Snapshot {
	snap := Snapshot{State: b.state, Ready: b.ready}
	if b.session != nil {
		copied := *b.session
		snap.Session = &copied
	}
	return snap
}

// notifyLocked fans the current snapshot out to subscribers. Slow consumers
// drop transitions rather than blocking the bridge.
func (b *Bridge) notifyLocked() {
	snap := b.snapshotLocked()
	for _, ch := range b.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
