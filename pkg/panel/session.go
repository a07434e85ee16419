package panel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/dopanel/pkg/doapi"
)

// Session holds all mutable panel state for one credential.
type Session struct {
	client   doapi.Client
	logger   doapi.Logger
	now      func() time.Time
	droplets *ResourceCache
	metadata *MetadataCache

	mutex      sync.RWMutex
	selectedID string
	picker     *ImagePicker
	sshKeys    []doapi.SSHKey
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for non-fatal follow-up failures.
func WithLogger(logger doapi.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for generated names.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetadataTTL expires committed metadata after ttl. Zero keeps it for the
// session lifetime.
func WithMetadataTTL(ttl time.Duration) Option {
	return func(s *Session) {
		s.metadata = NewMetadataCache(ttl)
	}
}

// NewSession creates a session over client.
func NewSession(client doapi.Client, opts ...Option) *Session {
	session := &Session{
		client:   client,
		logger:   nopLogger{},
		now:      time.Now,
		droplets: NewResourceCache(client.Droplets()),
		metadata: NewMetadataCache(0),
		picker:   NewImagePicker(nil),
	}

	for _, opt := range opts {
		opt(session)
	}

	return session
}

// Client returns the underlying API client.
func (s *Session) Client() doapi.Client {
	return s.client
}

// Droplets returns the droplet cache.
func (s *Session) Droplets() *ResourceCache {
	return s.droplets
}

// Metadata returns the committed-metadata cache.
func (s *Session) Metadata() *MetadataCache {
	return s.metadata
}

// RefreshDroplets refreshes the droplet cache and returns the cached count.
func (s *Session) RefreshDroplets(ctx context.Context) (int, error) {
	return s.droplets.RefreshDroplets(ctx)
}

// LookupDroplet finds a cached droplet by id.
func (s *Session) LookupDroplet(id string) (doapi.Droplet, bool) {
	return s.droplets.LookupDroplet(id)
}

// ImagePicker returns the current OS/version picker.
func (s *Session) ImagePicker() *ImagePicker {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.picker
}

func (s *Session) setPicker(picker *ImagePicker) {
	s.mutex.Lock()
	s.picker = picker
	s.mutex.Unlock()
}

// SSHKeys returns the keys from the last successful LoadSSHKeys.
func (s *Session) SSHKeys() []doapi.SSHKey {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return append([]doapi.SSHKey(nil), s.sshKeys...)
}

// LoadSSHKeys fetches the account's SSH keys and keeps them on success.
func (s *Session) LoadSSHKeys(ctx context.Context) ([]doapi.SSHKey, error) {
	keys, err := s.client.SSHKeys().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ssh keys: %w", err)
	}

	s.mutex.Lock()
	s.sshKeys = keys
	s.mutex.Unlock()

	return keys, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
