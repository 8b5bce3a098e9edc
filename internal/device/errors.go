package device

import "errors"

var (
	// ErrNoBackend is returned when no backend was given and no default is registered.
	ErrNoBackend = errors.New("device: no backend registered")

	// ErrBackendUnavailable is returned when a backend cannot run on this system
	// (no adapter, driver missing, unsupported platform).
	ErrBackendUnavailable = errors.New("device: backend unavailable")

	// ErrUnknownBackend is returned by Open for an unrecognized backend kind.
	ErrUnknownBackend = errors.New("device: unknown backend")

	// ErrOutOfMemory is returned when a backend cannot satisfy an allocation.
	ErrOutOfMemory = errors.New("device: out of memory")

	// ErrInvalidHandle is returned when a handle does not refer to a live allocation.
	ErrInvalidHandle = errors.New("device: invalid handle")
)
