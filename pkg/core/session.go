package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// IdentityKey is the key/value entry that persists the established identity.
const IdentityKey = "airnote_user_id"

// IdentityStore persists the established identity between processes.
// typed.Value[string] implements it.
type IdentityStore interface {
	Load(ctx context.Context) (string, error)
	Store(ctx context.Context, identity string) error
	Delete(ctx context.Context) error
}

// Session holds the identity notes are read and written as.
// Every change of identity bumps the epoch so work started under an
// older identity can be recognised and discarded.
type Session struct {
	mu       sync.RWMutex
	identity string
	epoch    uint64
	store    IdentityStore
}

// NewSession creates an empty session. store may be nil, in which case the
// identity is not persisted across processes.
func NewSession(store IdentityStore) *Session {
	return &Session{store: store}
}

// Restore loads a previously persisted identity. It returns false when none exists.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	stored, err := s.store.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to restore identity: %w", err)
	}
	id := strings.TrimSpace(stored)
	if id == "" {
		return false, nil
	}
	s.set(id)
	return true, nil
}

// Establish sets the identity and persists it when a store is attached.
func (s *Session) Establish(ctx context.Context, identity string) error {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return errors.New("identity cannot be empty")
	}
	if s.store != nil {
		if err := s.store.Store(ctx, identity); err != nil {
			return fmt.Errorf("failed to persist identity: %w", err)
		}
	}
	s.set(identity)
	return nil
}

// EstablishGuest sets the shared guest identity.
func (s *Session) EstablishGuest(ctx context.Context) error {
	return s.Establish(ctx, GuestUserID)
}

// Clear drops the identity and its persisted copy. The in-memory identity
// is dropped even when the persisted copy cannot be removed.
func (s *Session) Clear(ctx context.Context) error {
	s.set("")
	if s.store != nil {
		if err := s.store.Delete(ctx); err != nil {
			return fmt.Errorf("failed to clear identity: %w", err)
		}
	}
	return nil
}

// Identity returns the current identity and whether one is established.
func (s *Session) Identity() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.identity != ""
}

// IsGuest reports whether the shared guest identity is active.
func (s *Session) IsGuest() bool {
	id, _ := s.Identity()
	return id == GuestUserID
}

// Epoch returns a counter that changes every time the identity changes.
func (s *Session) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Snapshot returns identity and epoch under one lock.
func (s *Session) Snapshot() (identity string, epoch uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.epoch
}

func (s *Session) set(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != identity {
		s.epoch++
	}
	s.identity = identity
}
