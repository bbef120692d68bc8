package types

import "errors"

// Sentinel errors for common error conditions.
var (
	// ErrProviderAuth is returned when the provider rejects the credential
	// (HTTP 401).
	ErrProviderAuth = errors.New("provider rejected credential")

	// ErrProviderRateLimited is returned when the provider throttles the
	// request (HTTP 429).
	ErrProviderRateLimited = errors.New("provider rate limit exceeded")

	// ErrProviderUnavailable is returned on provider-side failures (HTTP 5xx).
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderUnknown is returned for any other provider failure.
	ErrProviderUnknown = errors.New("provider request failed")

	// ErrNotFound is returned when a requested record does not exist or is
	// not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when no valid session accompanies a
	// request.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrEmailTaken is returned when signing up with an email that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")
)
