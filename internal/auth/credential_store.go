package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// TokenManager supplies the bearer token for each request.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
}

// Persister is the durable copy of the credential. It holds a single value.
type Persister interface {
	// Load returns the persisted token and whether one was present.
	Load(ctx context.Context) (string, bool, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// CredentialStore holds the single bearer token of a session in memory and,
// optionally, in a Persister. There is no expiry or refresh: a bad token is
// only discovered when a call fails.
type CredentialStore struct {
	mutex     sync.RWMutex
	token     string
	persister Persister
}

// NewCredentialStore creates a store backed by persister. A nil persister
// keeps the credential in memory only.
func NewCredentialStore(persister Persister) *CredentialStore {
	if persister == nil {
		persister = NewMemoryPersister()
	}

	return &CredentialStore{persister: persister}
}

// SetCredential trims raw and adopts it as the in-memory token, even when it
// is blank. The durable copy is written when remember is set and the token is
// non-empty, and erased otherwise.
func (s *CredentialStore) SetCredential(ctx context.Context, raw string, remember bool) error {
	token := strings.TrimSpace(raw)

	s.mutex.Lock()
	s.token = token
	s.mutex.Unlock()

	if remember && token != "" {
		err := s.persister.Save(ctx, token)
		if err != nil {
			return fmt.Errorf("persisting credential: %w", err)
		}

		return nil
	}

	err := s.persister.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clearing persisted credential: %w", err)
	}

	return nil
}

// Credential returns the in-memory token or ErrMissingCredential.
func (s *CredentialStore) Credential() (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.token == "" {
		return "", doapi.ErrMissingCredential
	}

	return s.token, nil
}

// GetToken implements TokenManager.
func (s *CredentialStore) GetToken(ctx context.Context) (string, error) {
	return s.Credential()
}

// LoadPersisted adopts the durable copy, if any, as the in-memory token and
// reports whether one was found.
func (s *CredentialStore) LoadPersisted(ctx context.Context) (bool, error) {
	token, found, err := s.persister.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("loading persisted credential: %w", err)
	}

	if !found || token == "" {
		return false, nil
	}

	s.mutex.Lock()
	s.token = token
	s.mutex.Unlock()

	return true, nil
}

// MemoryPersister keeps the "durable" copy in memory. Two stores sharing one
// MemoryPersister behave like two page loads sharing local storage.
type MemoryPersister struct {
	mutex sync.Mutex
	token string
	set   bool
}

// NewMemoryPersister creates an empty MemoryPersister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

// Load implements Persister.
func (p *MemoryPersister) Load(ctx context.Context) (string, bool, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.token, p.set, nil
}

// Save implements Persister.
func (p *MemoryPersister) Save(ctx context.Context, token string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.token = token
	p.set = true

	return nil
}

// Clear implements Persister.
func (p *MemoryPersister) Clear(ctx context.Context) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.token = ""
	p.set = false

	return nil
}
