package core

import "errors"

// Common errors.
var (
	ErrReadOnly   = errors.New("store is in read-only mode")
	ErrNotFound   = errors.New("key not found")
	ErrNoIdentity = errors.New("no identity established")

	// ErrRemoteUnavailable covers network failures, auth rejections, missing
	// tables and policy rejections on reads. Callers recover by using the local cache.
	ErrRemoteUnavailable = errors.New("remote note service unavailable")

	// ErrRemoteWriteFailed is returned when an upsert is rejected.
	// The optimistic local state is kept.
	ErrRemoteWriteFailed = errors.New("remote write failed")

	ErrUnauthorized     = errors.New("remote rejected credentials")
	ErrPermissionDenied = errors.New("remote policy rejected the request")
	ErrTableMissing     = errors.New("remote notes table missing")
)
