// Package memory provides in-process adapters for the AirNote ports.
// They back guest sessions without a cache directory and drive the tests.
package memory

import (
	"context"
	"sync"

	"github.com/yesilw0rks/airnote/pkg/core"
)

// KV implements core.KeyValue in memory.
type KV struct {
	mu       sync.RWMutex
	data     map[string][]byte
	writeErr error
}

// NewKV creates an empty store.
func NewKV() *KV {
	return &KV{data: make(map[string][]byte)}
}

// Get implements core.KeyValue.
func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	v, ok := k.data[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set implements core.KeyValue.
func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.writeErr != nil {
		return k.writeErr
	}
	k.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements core.KeyValue.
func (k *KV) Delete(ctx context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.writeErr != nil {
		return k.writeErr
	}
	delete(k.data, key)
	return nil
}

// FailWrites makes every Set and Delete return err until called with nil.
func (k *KV) FailWrites(err error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.writeErr = err
}

// Len returns the number of stored keys.
func (k *KV) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.data)
}
