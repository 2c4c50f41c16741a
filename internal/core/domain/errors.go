package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrNotConfigured indicates required settings are missing.
	// Run 'vizier settings wizard' to provide them.
	ErrNotConfigured = errors.New("not configured")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Vector/semantic search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStoreUnavailable indicates the metadata store cannot serve queries
	// at all, as opposed to a partial per-batch failure.
	ErrStoreUnavailable = errors.New("metadata store unavailable")

	// Authentication Errors.

	// ErrNotAuthenticated indicates a platform call was attempted before
	// a successful sign-in.
	ErrNotAuthenticated = errors.New("not authenticated, sign in first")

	// ErrAuthFailed indicates the platform rejected the credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// Platform Errors.

	// ErrRateLimited indicates the API rate limit was exceeded and
	// retries were exhausted.
	ErrRateLimited = errors.New("rate limited")

	// ErrPlatformUnavailable indicates the platform could not be reached.
	ErrPlatformUnavailable = errors.New("platform unavailable")

	// Pipeline Errors.

	// ErrQualityGate indicates the blocking quality checks failed and
	// the batch was not written.
	ErrQualityGate = errors.New("quality gate failed")
)
