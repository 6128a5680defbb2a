// file: client/session.go

package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrLoggedOut signals that the session holds no usable tokens and the
// surrounding application must redirect to re-authentication.
var ErrLoggedOut = errors.New("session logged out, re-authentication required")

// DefaultRefreshTimeout bounds a refresh round-trip. It is deliberately
// distinct from normal call timeouts: a hung refresh would otherwise stall
// every call joined on it.
const DefaultRefreshTimeout = 10 * time.Second

// Session is the client-side token state shared by all calls going through
// one Client. The token pair and the single in-flight refresh are the only
// mutable state; both are owned here, never by module-level globals.
type Session struct {
	mu             sync.Mutex
	accessToken    string
	refreshToken   string
	loggedOut      bool
	refreshTimeout time.Duration

	// group guarantees at most one refresh call in flight. Calls failing
	// while a refresh is outstanding join it and await the same result.
	group singleflight.Group
}

func NewSession() *Session {
	return &Session{refreshTimeout: DefaultRefreshTimeout}
}

// SetTokens installs a fresh token pair, e.g. after login.
func (s *Session) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.loggedOut = false
}

func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

// LoggedOut reports whether the session was destroyed by an irrecoverable
// refresh failure or an explicit logout.
func (s *Session) LoggedOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedOut
}

// Clear discards the stored tokens and marks the session logged out.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
	s.loggedOut = true
}

func (s *Session) setAccessToken(accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
}

// refreshOnce drives the refresh protocol. The first caller becomes the
// leader and issues exactly one call to fn; callers arriving while that call
// is outstanding join it and receive the same outcome. On success the stored
// access token is swapped; on failure the session transitions to logged out
// and every joined caller gets the error.
//
// A joiner whose ctx is canceled abandons the wait without affecting the
// leader or the other joiners. The leader itself runs detached from any
// caller's deadline, under the session's own bounded refresh timeout.
func (s *Session) refreshOnce(ctx context.Context, fn func(ctx context.Context, refreshToken string) (string, error)) error {
	s.mu.Lock()
	if s.loggedOut || s.refreshToken == "" {
		s.mu.Unlock()
		return ErrLoggedOut
	}
	refreshToken := s.refreshToken
	s.mu.Unlock()

	ch := s.group.DoChan("refresh", func() (interface{}, error) {
		leaderCtx, cancel := context.WithTimeout(context.Background(), s.refreshTimeout)
		defer cancel()

		accessToken, err := fn(leaderCtx, refreshToken)
		if err != nil {
			s.Clear()
			return nil, err
		}
		s.setAccessToken(accessToken)
		return accessToken, nil
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}
