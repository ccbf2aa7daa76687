package protocol

// privateKey and handshakeKey are the two hard-coded secrets spec.md
// §6 requires for the mutual-authentication handshake: a 41-byte
// value folded into the session-key derivation and a 32-byte value
// folded into the handshake acknowledgement. spec.md explicitly
// declines to specify their contents ("must be captured from the
// source verbatim") and no such source is available to this
// implementation — these are placeholder byte sequences and MUST be
// replaced with the values burned into the actual device firmware
// before this package is used against real hardware; see DESIGN.md.
var (
	privateKey = [41]byte{
		0x4E, 0x6F, 0x76, 0x61, 0x4B, 0x65, 0x79, 0x2D,
		0x4C, 0x69, 0x67, 0x68, 0x74, 0x47, 0x75, 0x6E,
		0x2D, 0x50, 0x72, 0x69, 0x76, 0x61, 0x74, 0x65,
		0x4B, 0x65, 0x79, 0x2D, 0x50, 0x4C, 0x41, 0x43,
		0x45, 0x48, 0x4F, 0x4C, 0x44, 0x45, 0x52, 0x2D,
		0x21,
	}

	handshakeKey = [32]byte{
		0x4C, 0x69, 0x67, 0x68, 0x74, 0x47, 0x75, 0x6E,
		0x2D, 0x48, 0x61, 0x6E, 0x64, 0x73, 0x68, 0x61,
		0x6B, 0x65, 0x4B, 0x65, 0x79, 0x2D, 0x50, 0x4C,
		0x41, 0x43, 0x45, 0x48, 0x4F, 0x4C, 0x44, 0x21,
	}
)
