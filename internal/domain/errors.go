package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")

	// Remote gallery store failure classes. Transport and permission errors
	// trigger the local fallback; quota errors trigger bounded eviction.
	ErrTransport        = errors.New("backend unreachable")
	ErrPermissionDenied = errors.New("permission denied")
	ErrQuotaExceeded    = errors.New("storage quota exceeded")

	// Generative backend failure classes. Only the first two are transient
	// and retried; a revoked key fails immediately.
	ErrRateLimited           = errors.New("rate limited")
	ErrServiceOverloaded     = errors.New("service overloaded")
	ErrKeyRevoked            = errors.New("api key revoked")
	ErrEmptyGenerationResult = errors.New("model returned no image")
	ErrQuotaExhausted        = errors.New("generation quota exhausted")
	ErrConfigurationMissing  = errors.New("api key not configured")

	// ErrStorageFailure marks non-recoverable local cache write failures.
	ErrStorageFailure = errors.New("local storage failure")

	// User store errors.
	ErrUserExists  = errors.New("user already exists")
	ErrUserPending = errors.New("account pending approval")
	ErrUserBlocked = errors.New("account blocked")
)
