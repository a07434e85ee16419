package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/dopanel/internal/constants"
)

// keyValue is the subset of nats.KeyValue the persister needs.
type keyValue interface {
	Get(key string) (nats.KeyValueEntry, error)
	Put(key string, value []byte) (uint64, error)
	Delete(key string, opts ...nats.DeleteOpt) error
}

// NATSKVPersister keeps the credential in a NATS JetStream key-value bucket.
type NATSKVPersister struct {
	kv   keyValue
	key  string
	conn *nats.Conn
}

// NewNATSKVPersister wraps an existing bucket.
func NewNATSKVPersister(kv keyValue, key string) *NATSKVPersister {
	if key == "" {
		key = constants.CredentialKey
	}

	return &NATSKVPersister{kv: kv, key: key}
}

// DialNATSKVPersister connects to url and opens (or creates) bucket.
func DialNATSKVPersister(url, bucket string) (*NATSKVPersister, error) {
	if url == "" {
		return nil, constants.ErrNATSURLRequired
	}

	if bucket == "" {
		bucket = constants.DefaultNATSBucket
	}

	conn, err := nats.Connect(url,
		nats.Name(constants.DefaultUserAgent),
		nats.Timeout(constants.NATSConnectTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("opening JetStream context: %w", err)
	}

	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      bucket,
			Description: "dopanel credentials",
			History:     1,
		})
	}

	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("opening key-value bucket %q: %w", bucket, err)
	}

	persister := NewNATSKVPersister(kv, constants.CredentialKey)
	persister.conn = conn

	return persister, nil
}

// Load implements Persister.
func (p *NATSKVPersister) Load(ctx context.Context) (string, bool, error) {
	entry, err := p.kv.Get(p.key)
	if errors.Is(err, nats.ErrKeyNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", p.key, err)
	}

	return string(entry.Value()), true, nil
}

// Save implements Persister.
func (p *NATSKVPersister) Save(ctx context.Context, token string) error {
	_, err := p.kv.Put(p.key, []byte(token))
	if err != nil {
		return fmt.Errorf("writing %s: %w", p.key, err)
	}

	return nil
}

// Clear implements Persister.
func (p *NATSKVPersister) Clear(ctx context.Context) error {
	err := p.kv.Delete(p.key)
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("deleting %s: %w", p.key, err)
	}

	return nil
}

// Close releases the NATS connection opened by DialNATSKVPersister.
func (p *NATSKVPersister) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
