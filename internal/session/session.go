// internal/session/session.go
package session

import (
	"context"
	"time"
)

// State is the bridge's view of "who is signed in".
type State int

const (
	// StateUnknown holds until the first session check completes. Initial
	// render gates on leaving it.
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// EventKind tags a session-change notification from the identity provider.
type EventKind string

const (
	EventSignedIn       EventKind = "SIGNED_IN"
	EventSignedOut      EventKind = "SIGNED_OUT"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
)

// Session is the provider's notion of the current identity, as carried in
// its tokens. Metadata fields are provider defaults and never overwrite
// richer local profile data.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Event is one provider notification: the kind plus the new session (nil on
// sign-out).
type Event struct {
	Kind    EventKind `json:"kind"`
	Session *Session  `json:"session,omitempty"`
}

// Snapshot is what subscribers receive on every transition. Ready is false
// until the first session check has completed.
type Snapshot struct {
	State   State    `json:"state"`
	Session *Session `json:"session,omitempty"`
	Ready   bool     `json:"ready"`
}

// Provider retrieves the current session from the external identity
// service. May return (nil, nil) when nobody is signed in.
type Provider interface {
	CurrentSession(ctx context.Context) (*Session, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (*Session, error)

func (f ProviderFunc) CurrentSession(ctx context.Context) (*Session, error) {
	return f(ctx)
}

// ProfileSink receives the local-profile side effect of a sign-in. The
// implementation must be idempotent and must not clobber existing data.
type ProfileSink interface {
	SyncProfile(ctx context.Context, sess *Session) error
}
