package protocol

import (
	"bytes"
	"crypto/sha256"
	"strings"
	"testing"
	"time"

	"github.com/barrelcam/lightgun-driver/internal/buttons"
	"github.com/barrelcam/lightgun-driver/internal/serial"
)

// fakeDevice is a scripted serial.Port double that plays the device
// side of the connect sequence: it watches outgoing writes and queues
// the matching reply bytes, the same way a real device would respond
// to each frame in order.
type fakeDevice struct {
	writes         [][]byte
	incoming       bytes.Buffer
	handshakeValue [32]byte
}

func (f *fakeDevice) Write(p []byte) error {
	cp := append([]byte{}, p...)
	f.writes = append(f.writes, cp)
	switch len(f.writes) {
	case 2: // nonce
		key := sha256.Sum256(append(append([]byte{}, cp...), privateKey[:]...))
		f.incoming.Write(key[:])
	case 3: // Handshake frame
		f.incoming.Write(f.handshakeValue[:])
	case 4: // ack
		f.incoming.WriteString("true\n")
	}
	return nil
}

func (f *fakeDevice) ReadByte() (byte, error) { return f.incoming.ReadByte() }

func (f *fakeDevice) ReadLine() (string, error) {
	line, err := f.incoming.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (f *fakeDevice) ReadAll() ([]byte, error) {
	n := f.incoming.Len()
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	_, err := f.incoming.Read(buf)
	return buf, err
}

func (f *fakeDevice) Read(n int) ([]byte, error) {
	buf := make([]byte, n)
	_, err := f.incoming.Read(buf)
	return buf, err
}

func (f *fakeDevice) Available() (int, error) { return f.incoming.Len(), nil }

func (f *fakeDevice) WriteByte(b byte) error {
	return f.Write([]byte{b})
}

func (f *fakeDevice) Close() error { return nil }

func assertFrame(t *testing.T, got []byte, op Opcode) {
	t.Helper()
	if len(got) != 7 {
		t.Fatalf("frame length = %d, want 7", len(got))
	}
	if got[0] != frameStart || got[6] != frameEnd {
		t.Fatalf("frame bracket bytes = %#x %#x, want 0xAA 0xBB", got[0], got[6])
	}
	if Opcode(got[1]) != op {
		t.Fatalf("frame opcode = %d, want %d", got[1], op)
	}
}

func TestConnectGoldenTrace(t *testing.T) {
	device := &fakeDevice{}
	for i := range device.handshakeValue {
		device.handshakeValue[i] = byte(i)
	}

	e := NewEngine(func() (serial.Port, error) { return device, nil }, nil)

	start := time.Now()
	done := make(chan error, 1)
	go func() { done <- e.Connect() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Connect failed: %v", err)
		}
	case <-time.After(300 * time.Millisecond):
		t.Fatal("Connect did not complete within 300ms")
	}

	if elapsed := time.Since(start); elapsed > 300*time.Millisecond {
		t.Fatalf("Connect took %s, want < 300ms", elapsed)
	}

	if e.State() != Authenticated {
		t.Fatalf("state = %d, want Authenticated", e.State())
	}

	if len(device.writes) != 6 {
		t.Fatalf("device saw %d writes, want 6", len(device.writes))
	}
	assertFrame(t, device.writes[0], OpConnect)
	if len(device.writes[1]) != 32 {
		t.Fatalf("nonce write length = %d, want 32", len(device.writes[1]))
	}
	assertFrame(t, device.writes[2], OpHandshake)
	if len(device.writes[3]) != 32 {
		t.Fatalf("ack write length = %d, want 32", len(device.writes[3]))
	}
	assertFrame(t, device.writes[4], OpAuthenticated)
	assertFrame(t, device.writes[5], OpAuthenticated)
}

func TestConnectInvalidSessionKey(t *testing.T) {
	device := &fakeDevice{}
	// Corrupt the reply by overriding Write's queued key: simplest way
	// is to swap in a device with a deliberately wrong private key
	// expectation — simulate by pre-seeding a bogus 32-byte reply
	// instead of the derived one.
	device2 := &wrongKeyDevice{fakeDevice: device}
	e := NewEngine(func() (serial.Port, error) { return device2, nil }, nil)

	err := e.Connect()
	if err != ErrInvalidAuthentication {
		t.Fatalf("err = %v, want ErrInvalidAuthentication", err)
	}
	if e.State() != Disconnected {
		t.Fatalf("state = %d, want Disconnected after failed auth", e.State())
	}
}

// wrongKeyDevice behaves like fakeDevice but replies to the nonce with
// an all-zero key instead of the correctly derived one, exercising the
// session-key mismatch path.
type wrongKeyDevice struct {
	*fakeDevice
}

func (w *wrongKeyDevice) Write(p []byte) error {
	cp := append([]byte{}, p...)
	w.writes = append(w.writes, cp)
	if len(w.writes) == 2 {
		w.incoming.Write(make([]byte, 32))
	}
	return nil
}

func TestAlreadyConnected(t *testing.T) {
	device := &fakeDevice{}
	e := NewEngine(func() (serial.Port, error) { return device, nil }, nil)
	e.state = Authenticated

	if err := e.Connect(); err != ErrAlreadyConnected {
		t.Fatalf("err = %v, want ErrAlreadyConnected", err)
	}
}

func TestCursorOffsetStatus200UnassignsTriggerAndPump(t *testing.T) {
	device := &fakeDevice{}
	device.incoming.WriteByte(200)
	e := NewEngine(func() (serial.Port, error) { return device, nil }, nil)
	e.port = device
	e.state = Authenticated

	if err := e.CursorOffset([4]byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("CursorOffset: %v", err)
	}
	if e.Buttons.Get(buttons.Trigger) != buttons.NoKey {
		t.Fatalf("Trigger = %v, want NoKey", e.Buttons.Get(buttons.Trigger))
	}
	if e.Buttons.Get(buttons.PumpAction) != buttons.NoKey {
		t.Fatalf("PumpAction = %v, want NoKey", e.Buttons.Get(buttons.PumpAction))
	}
}

func TestDebugJoinsResponseBytesWithDash(t *testing.T) {
	device := &fakeDevice{}
	device.incoming.Write([]byte{1, 2, 250})
	e := NewEngine(func() (serial.Port, error) { return device, nil }, nil)
	e.port = device
	e.state = Authenticated

	got, err := e.Debug(OpRequestFirmware, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("Debug: %v", err)
	}
	if got != "1-2-250" {
		t.Fatalf("Debug = %q, want %q", got, "1-2-250")
	}
}
