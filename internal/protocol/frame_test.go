package protocol

import "testing"

func TestFrameEncodeBracketBytes(t *testing.T) {
	f := newFrame(OpCursorOffset, 1, 2, 3, 4)
	got := f.Encode()
	want := [7]byte{0xAA, byte(OpCursorOffset), 1, 2, 3, 4, 0xBB}
	if got != want {
		t.Fatalf("Encode() = %v, want %v", got, want)
	}
}

func TestFrameEncodeZeroPayload(t *testing.T) {
	f := newFrame(OpConnect, 0, 0, 0, 0)
	got := f.Encode()
	if got[0] != 0xAA || got[6] != 0xBB {
		t.Fatalf("bracket bytes = %#x %#x, want 0xAA 0xBB", got[0], got[6])
	}
	if Opcode(got[1]) != OpConnect {
		t.Fatalf("opcode byte = %d, want %d", got[1], OpConnect)
	}
}
