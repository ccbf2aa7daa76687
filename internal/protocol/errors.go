package protocol

import "errors"

// Sentinel errors spec.md §7 names explicitly. A successful connect
// returns nil, matching Go convention rather than a "Success" value.
var (
	// ErrAlreadyConnected is returned by Connect when the engine is
	// already past the Disconnected state; connecting twice is a
	// no-op error, not a reset.
	ErrAlreadyConnected = errors.New("protocol: already connected")

	// ErrDeviceNotResponding wraps a serial port open failure during
	// Connect.
	ErrDeviceNotResponding = errors.New("protocol: device not responding")

	// ErrInvalidAuthentication is returned when the device's session
	// key or handshake acknowledgement does not match what the
	// engine computed locally.
	ErrInvalidAuthentication = errors.New("protocol: invalid authentication")
)
