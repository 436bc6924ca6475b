package credentials

import (
	"context"
	"sync"

	"github.com/gravitational/trace"
)

// MemoryStore keeps credentials for the lifetime of the process only.
type MemoryStore struct {
	mu    sync.Mutex
	creds *Credentials
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) GetCredentials(_ context.Context) (*Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds == nil {
		return nil, trace.NotFound("no credentials stored")
	}
	creds := *m.creds
	return &creds, nil
}

func (m *MemoryStore) PutCredentials(_ context.Context, creds *Credentials) error {
	if creds == nil {
		return trace.BadParameter("missing credentials")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *creds
	m.creds = &stored
	return nil
}

func (m *MemoryStore) DeleteCredentials(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = nil
	return nil
}
