// Package protocol implements the serial wire protocol spec.md §4.7
// describes: 7-byte framed requests, the SHA-256 mutual-authentication
// connect sequence, and the opcode set a connected device understands.
//
// Engine owns exactly one serial.Port and is not safe for concurrent
// use — spec.md §5 requires the caller to serialise access itself.
package protocol

import "time"

// timing is the named-constants table design note "Hidden global
// timing" calls for: every Sleep the connect/start/debug sequences
// perform, gathered in one place so a test can inject a faster clock
// instead of diffing magic numbers scattered through engine.go.
// DefaultConnectWait is not a sleep and is not read by Connect: the
// connect sequence has no overall deadline.
var timing = struct {
	ConnectFlushDelay  time.Duration
	HandshakeSleep     time.Duration
	AuthenticatedGap   time.Duration
	StartSettleDelay   time.Duration
	DebugResponseWait  time.Duration
	DefaultConnectWait time.Duration
}{
	ConnectFlushDelay:  100 * time.Millisecond,
	HandshakeSleep:     5 * time.Millisecond,
	AuthenticatedGap:   100 * time.Millisecond,
	StartSettleDelay:   100 * time.Millisecond,
	DebugResponseWait:  100 * time.Millisecond,
	DefaultConnectWait: 2 * time.Second,
}
