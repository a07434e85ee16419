package commands

import (
	"context"
	"sync"
)

// tokenKey is the config file key holding the remembered API token.
const tokenKey = "token"

// ConfigPersister implements auth.Persister on top of the CLI config file.
type ConfigPersister struct {
	mutex sync.Mutex
	path  string
}

// NewConfigPersister creates a persister writing the token key of the config
// file at path.
func NewConfigPersister(path string) *ConfigPersister {
	return &ConfigPersister{path: path}
}

// Load implements auth.Persister.
func (p *ConfigPersister) Load(ctx context.Context) (string, bool, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	values, err := readConfigFile(p.path)
	if err != nil {
		return "", false, err
	}

	token, ok := values[tokenKey].(string)
	if !ok || token == "" {
		return "", false, nil
	}

	return token, true, nil
}

// Save implements auth.Persister.
func (p *ConfigPersister) Save(ctx context.Context, token string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	values, err := readConfigFile(p.path)
	if err != nil {
		return err
	}

	values[tokenKey] = token

	return writeConfigFile(p.path, values)
}

// Clear implements auth.Persister.
func (p *ConfigPersister) Clear(ctx context.Context) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	values, err := readConfigFile(p.path)
	if err != nil {
		return err
	}

	if _, ok := values[tokenKey]; !ok {
		return nil
	}

	delete(values, tokenKey)

	return writeConfigFile(p.path, values)
}
