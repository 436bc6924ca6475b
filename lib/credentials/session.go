package credentials

import (
	"context"
	"sync"

	"github.com/gravitational/account-registration/lib/logger"
	"github.com/gravitational/trace"
)

// Session holds the credentials of the current user. It is created
// explicitly at process start and invalidated with Clear on logout.
//
// Setters always update the in-memory value; a returned error only means
// the backing Store failed to persist it.
type Session struct {
	store Store

	writeMu sync.Mutex // serializes persistence

	mu    sync.RWMutex // protects the below fields
	creds Credentials
}

// NewSession creates a session seeded from store. A nil store keeps the
// credentials in memory only.
func NewSession(ctx context.Context, store Store) (*Session, error) {
	if store == nil {
		store = NewMemoryStore()
	}

	s := &Session{store: store}

	creds, err := store.GetCredentials(ctx)
	switch {
	case trace.IsNotFound(err):
		logger.Get(ctx).Debug("No stored credentials found, starting with an empty session")
	case err != nil:
		return nil, trace.Wrap(err)
	default:
		s.creds = *creds
		logger.Get(ctx).Debug("Loaded stored credentials")
	}

	return s, nil
}

// AccessToken returns the current access token, if any.
func (s *Session) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.AccessToken, s.creds.AccessToken != ""
}

// RefreshToken returns the current refresh token, if any.
func (s *Session) RefreshToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.RefreshToken, s.creds.RefreshToken != ""
}

// Credentials returns a copy of both tokens.
func (s *Session) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// GetAccessToken implements AccessTokenProvider.
func (s *Session) GetAccessToken() (string, error) {
	token, _ := s.AccessToken()
	return token, nil
}

func (s *Session) SetAccessToken(ctx context.Context, token string) error {
	return trace.Wrap(s.update(ctx, func(creds *Credentials) {
		creds.AccessToken = token
	}))
}

func (s *Session) SetRefreshToken(ctx context.Context, token string) error {
	return trace.Wrap(s.update(ctx, func(creds *Credentials) {
		creds.RefreshToken = token
	}))
}

// SetCredentials replaces both tokens with a single write to the store.
func (s *Session) SetCredentials(ctx context.Context, creds Credentials) error {
	return trace.Wrap(s.update(ctx, func(current *Credentials) {
		*current = creds
	}))
}

// Clear drops both tokens and erases the persisted copy.
func (s *Session) Clear(ctx context.Context) error {
	return trace.Wrap(s.update(ctx, func(creds *Credentials) {
		*creds = Credentials{}
	}))
}

func (s *Session) update(ctx context.Context, fn func(*Credentials)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	fn(&s.creds)
	snapshot := s.creds
	s.mu.Unlock()

	if snapshot.IsEmpty() {
		if err := s.store.DeleteCredentials(ctx); err != nil {
			logger.Get(ctx).WithError(err).Warn("Failed to erase stored credentials")
			return trace.Wrap(err)
		}
		return nil
	}

	if err := s.store.PutCredentials(ctx, &snapshot); err != nil {
		logger.Get(ctx).WithError(err).Warn("Failed to persist credentials")
		return trace.Wrap(err)
	}
	return nil
}
