// Package typed provides type-safe access to values kept in a core.KeyValue store.
package typed

import (
	"context"
	"fmt"

	"github.com/yesilw0rks/airnote/pkg/core"
)

// Value is a typed view of a single key.
type Value[T any] struct {
	store core.KeyValue
	key   string
	codec Codec
}

// NewValue creates a typed wrapper around key. A nil codec means JSON.
func NewValue[T any](store core.KeyValue, key string, codec Codec) *Value[T] {
	if codec == nil {
		codec = JSON
	}
	return &Value[T]{store: store, key: key, codec: codec}
}

// Key returns the wrapped key.
func (v *Value[T]) Key() string {
	return v.key
}

// Load reads and decodes the value. A missing key returns core.ErrNotFound.
func (v *Value[T]) Load(ctx context.Context) (T, error) {
	var out T
	data, err := v.store.Get(ctx, v.key)
	if err != nil {
		return out, err
	}
	if err := v.codec.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s as %s: %w", v.key, v.codec.Name(), err)
	}
	return out, nil
}

// Store encodes and writes the value.
func (v *Value[T]) Store(ctx context.Context, val T) error {
	data, err := v.codec.Marshal(val)
	if err != nil {
		return fmt.Errorf("failed to encode %s as %s: %w", v.key, v.codec.Name(), err)
	}
	return v.store.Set(ctx, v.key, data)
}

// Delete removes the key.
func (v *Value[T]) Delete(ctx context.Context) error {
	return v.store.Delete(ctx, v.key)
}
