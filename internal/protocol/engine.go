package protocol

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/barrelcam/lightgun-driver/internal/buttons"
	"github.com/barrelcam/lightgun-driver/internal/serial"
)

// ConnectState is the engine's position in the connect sequence
// spec.md §4.7 defines: Disconnected → Opening → AwaitingDeviceKey →
// AwaitingHandshakeAck → Authenticated.
type ConnectState int

const (
	Disconnected ConnectState = iota
	Opening
	AwaitingDeviceKey
	AwaitingHandshakeAck
	Authenticated
)

func (s ConnectState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Opening:
		return "opening"
	case AwaitingDeviceKey:
		return "awaiting_device_key"
	case AwaitingHandshakeAck:
		return "awaiting_handshake_ack"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Engine owns one serial.Port and the session state that hangs off
// it: the derived session key, the device info the connect/request
// opcodes populate, and the button map the AssignButton opcode keeps
// in sync. It is not safe for concurrent use — spec.md §5 leaves
// serialising calls to the caller.
type Engine struct {
	open func() (serial.Port, error)
	port serial.Port

	logger *logrus.Entry

	state      ConnectState
	sessionKey [32]byte
	info       DeviceInfo
	Buttons    *buttons.ButtonMap
}

// NewEngine returns a disconnected Engine. open is called once by
// Connect to obtain the serial.Port; a failure there is reported as
// ErrDeviceNotResponding, matching spec.md §7's "the connect path
// converts port-open failures to DeviceNotResponding."
func NewEngine(open func() (serial.Port, error), logger *logrus.Entry) *Engine {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger()).WithField("component", "protocol")
	}
	return &Engine{
		open:    open,
		logger:  logger,
		state:   Disconnected,
		info:    newDeviceInfo(),
		Buttons: buttons.DefaultButtonMap(),
	}
}

// State returns the engine's current position in the connect
// sequence.
func (e *Engine) State() ConnectState { return e.state }

// Info returns a copy of the device info accumulated so far.
func (e *Engine) Info() DeviceInfo { return e.info }

// Connect runs the full open → nonce → session-key → handshake →
// authenticated sequence (spec.md §4.7). It returns nil on success,
// ErrAlreadyConnected if already past Disconnected, ErrDeviceNotResponding
// if the port cannot be opened, and ErrInvalidAuthentication if the
// device's session key or handshake ack does not match.
func (e *Engine) Connect() error {
	if e.state != Disconnected {
		return ErrAlreadyConnected
	}
	start := time.Now()
	e.state = Opening

	port, err := e.open()
	if err != nil {
		e.state = Disconnected
		return fmt.Errorf("%w: %v", ErrDeviceNotResponding, err)
	}
	e.port = port

	if err := e.writeFrame(newFrame(OpConnect, 0, 0, 0, 0)); err != nil {
		return e.abortConnect(err)
	}
	if err := serial.Flush(e.port, timing.ConnectFlushDelay); err != nil {
		return e.abortConnect(err)
	}

	nonce := sha256.Sum256(uuidBytes())
	if err := e.port.Write(nonce[:]); err != nil {
		return e.abortConnect(err)
	}

	e.state = AwaitingDeviceKey
	expectedKey := sha256.Sum256(append(append([]byte{}, nonce[:]...), privateKey[:]...))
	if err := serial.Poll(e.port, 32); err != nil {
		return e.abortConnect(err)
	}
	deviceKey, err := e.port.Read(32)
	if err != nil {
		return e.abortConnect(err)
	}
	if !bytes.Equal(deviceKey, expectedKey[:]) {
		e.state = Disconnected
		return ErrInvalidAuthentication
	}
	e.sessionKey = expectedKey

	if err := e.writeFrame(newFrame(OpHandshake, 0, 0, 0, 0)); err != nil {
		return e.abortConnect(err)
	}
	time.Sleep(timing.HandshakeSleep)

	e.state = AwaitingHandshakeAck
	if err := serial.Poll(e.port, 32); err != nil {
		return e.abortConnect(err)
	}
	handshake, err := e.port.Read(32)
	if err != nil {
		return e.abortConnect(err)
	}
	ackInput := append(append([]byte{}, handshake...), handshakeKey[:]...)
	ack := sha256.Sum256(ackInput)
	if err := e.port.Write(ack[:]); err != nil {
		return e.abortConnect(err)
	}

	if err := serial.Poll(e.port, 5); err != nil {
		return e.abortConnect(err)
	}
	line, err := e.port.ReadLine()
	if err != nil {
		return e.abortConnect(err)
	}
	if line != "true" {
		e.state = Disconnected
		return ErrInvalidAuthentication
	}

	if err := e.writeFrame(newFrame(OpAuthenticated, 0, 0, 0, 0)); err != nil {
		return e.abortConnect(err)
	}
	time.Sleep(timing.AuthenticatedGap)
	if err := e.writeFrame(newFrame(OpAuthenticated, 0, 0, 0, 0)); err != nil {
		return e.abortConnect(err)
	}

	e.state = Authenticated
	e.logger.Infof("connect completed, started %s", humanize.Time(start))
	return nil
}

// abortConnect resets the engine to Disconnected and passes err
// through unchanged, the shared tail every connect step's error path
// takes.
func (e *Engine) abortConnect(err error) error {
	e.state = Disconnected
	return err
}

func uuidBytes() []byte {
	id := uuid.New()
	return id[:]
}

// Disconnect closes the underlying port and resets the engine to
// Disconnected. Calling it while already disconnected is a no-op.
func (e *Engine) Disconnect() error {
	if e.state == Disconnected {
		return nil
	}
	err := e.port.Close()
	e.port = nil
	e.state = Disconnected
	return err
}

// Start runs the post-connect setup procedure spec.md §4.7 describes:
// enable sleep mode, edge-click reload and calibration, resync every
// button mapping, enable recoil, then settle and drain.
func (e *Engine) Start() error {
	if e.state != Authenticated {
		return fmt.Errorf("protocol: Start called in state %d, want Authenticated", e.state)
	}
	if err := e.EnableSleepMode(true); err != nil {
		return err
	}
	if err := e.EnableEdgeClickReload(true); err != nil {
		return err
	}
	if err := e.EnableCalibration(true); err != nil {
		return err
	}
	if err := e.resyncButtons(); err != nil {
		return err
	}
	if err := e.EnableRecoil(true); err != nil {
		return err
	}
	time.Sleep(timing.StartSettleDelay)
	return serial.Flush(e.port, 0)
}

func (e *Engine) resyncButtons() error {
	for _, b := range e.Buttons.Keys() {
		if err := e.AssignButton(b, e.Buttons.Get(b)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) writeFrame(f Frame) error {
	b := f.Encode()
	e.logger.Debugf("-> %s", f)
	return e.port.Write(b[:])
}

func (e *Engine) send(op Opcode, p0, p1, p2, p3 byte) error {
	return e.writeFrame(newFrame(op, p0, p1, p2, p3))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// CursorOffset writes a cursor-offset frame and handles any status
// byte the device sends back immediately afterward (spec.md §4.7's
// "CursorOffset handling" table). Devices at or below firmware v1.5
// additionally get the payload re-sent as EnableSleepMode, per
// spec.md's version-compatibility note.
func (e *Engine) CursorOffset(payload [4]byte) error {
	if err := e.send(OpCursorOffset, payload[0], payload[1], payload[2], payload[3]); err != nil {
		return err
	}
	if err := e.handleCursorStatus(); err != nil {
		return err
	}
	if e.info.Firmware.AtMost(1, 5) {
		if err := e.enableSleepMode(true, payload); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) handleCursorStatus() error {
	n, err := e.port.Available()
	if err != nil {
		return err
	}
	if n < 1 {
		return nil
	}
	status, err := e.port.ReadByte()
	if err != nil {
		return err
	}
	switch status {
	case 200:
		e.Buttons.Unassign(buttons.Trigger)
		e.Buttons.Unassign(buttons.PumpAction)
	case 201:
		e.info.RequiresCalibrationPush = true
		return e.resyncTriggerAndPump()
	case 202:
		return e.resyncTriggerAndPump()
	case 254:
		return e.handleStatus254()
	default:
		// unrecognised status byte: ignore, spec.md §7's "loose
		// device contract".
	}
	return nil
}

func (e *Engine) resyncTriggerAndPump() error {
	if err := e.AssignButton(buttons.Trigger, e.Buttons.Get(buttons.Trigger)); err != nil {
		return err
	}
	return e.AssignButton(buttons.PumpAction, e.Buttons.Get(buttons.PumpAction))
}

func (e *Engine) handleStatus254() error {
	n, err := e.port.Available()
	if err != nil {
		return err
	}
	if e.info.Firmware.AtMost(1, 5) {
		if n < 11 {
			return nil
		}
		body, err := e.port.Read(10)
		if err != nil {
			return err
		}
		if _, err := e.port.ReadByte(); err != nil {
			return err
		}
		for _, v := range body {
			if v != 0 {
				e.info.LastButtonPush = time.Now()
				break
			}
		}
		return nil
	}
	if n < 3 {
		return nil
	}
	if _, err := e.port.Read(3); err != nil {
		return err
	}
	e.info.LastButtonPush = time.Now()
	return nil
}

// EnableSleepMode enables or disables the device's sleep mode.
func (e *Engine) EnableSleepMode(enable bool) error {
	return e.enableSleepMode(enable, [4]byte{})
}

func (e *Engine) enableSleepMode(enable bool, payload [4]byte) error {
	op := OpDisableSleepMode
	if enable {
		op = OpEnableSleepMode
	}
	return e.send(op, payload[0], payload[1], payload[2], payload[3])
}

// EnableEdgeReload enables or disables edge-reload.
func (e *Engine) EnableEdgeReload(enable bool) error {
	op := OpDisableEdgeReload
	if enable {
		op = OpEnableEdgeReload
	}
	return e.send(op, 0, 0, 0, 0)
}

// EnableEdgeClickReload enables or disables edge-click-reload.
func (e *Engine) EnableEdgeClickReload(enable bool) error {
	op := OpDisableEdgeClickReload
	if enable {
		op = OpEnableEdgeClickReload
	}
	return e.send(op, 0, 0, 0, 0)
}

// AssignButton updates the in-memory button map and sends the
// corresponding AssignButton frame (button id in p1, key code in p3,
// spec.md §4.7).
func (e *Engine) AssignButton(b buttons.Button, key buttons.HostKey) error {
	e.Buttons.SetKey(b, key)
	return e.send(OpAssignButton, 0, byte(b), 0, byte(key))
}

// RequestFirmware queries and caches the device's firmware version.
func (e *Engine) RequestFirmware() (FirmwareVersion, error) {
	if err := e.send(OpRequestFirmware, 0, 0, 0, 0); err != nil {
		return FirmwareVersion{}, err
	}
	if err := serial.Poll(e.port, 2); err != nil {
		return FirmwareVersion{}, err
	}
	b, err := e.port.Read(2)
	if err != nil {
		return FirmwareVersion{}, err
	}
	v := FirmwareVersion{Major: b[0], Minor: b[1]}
	e.info.Firmware = v
	return v, nil
}

// RequestCamera queries and caches the device's 15-byte camera name.
func (e *Engine) RequestCamera() (string, error) {
	if err := e.send(OpRequestCamera, 0, 0, 0, 0); err != nil {
		return "", err
	}
	if err := serial.Poll(e.port, 15); err != nil {
		return "", err
	}
	b, err := e.port.Read(15)
	if err != nil {
		return "", err
	}
	e.info.Camera = string(b)
	return e.info.Camera, nil
}

// UpdateCamera writes name to the device one character per frame (15
// frames, padding with zero bytes), per spec.md §4.7.
func (e *Engine) UpdateCamera(name string) error {
	var padded [15]byte
	copy(padded[:], name)
	for i := 0; i < len(padded); i++ {
		if err := e.send(OpUpdateCamera, 0, byte(i), 0, padded[i]); err != nil {
			return fmt.Errorf("protocol: update camera frame %d: %w", i, err)
		}
	}
	e.info.Camera = string(padded[:])
	return nil
}

func (e *Engine) requestCalibration(op Opcode) (float64, error) {
	if err := e.send(op, 0, 0, 0, 0); err != nil {
		return 0, err
	}
	if err := serial.Poll(e.port, 2); err != nil {
		return 0, err
	}
	b, err := e.port.Read(2)
	if err != nil {
		return 0, err
	}
	return DecodeCalibration(b[0], b[1]), nil
}

// RequestCalibrationX queries and caches the device's X calibration.
func (e *Engine) RequestCalibrationX() (float64, error) {
	v, err := e.requestCalibration(OpRequestCalibrationX)
	if err == nil {
		e.info.CalibrationX = v
	}
	return v, err
}

// RequestCalibrationY queries and caches the device's Y calibration.
func (e *Engine) RequestCalibrationY() (float64, error) {
	v, err := e.requestCalibration(OpRequestCalibrationY)
	if err == nil {
		e.info.CalibrationY = v
	}
	return v, err
}

func (e *Engine) updateCalibration(op Opcode, v float64) error {
	p0, p1 := EncodeCalibration(v)
	return e.send(op, p0, p1, 0, 0)
}

// UpdateCalibrationX pushes a new X calibration value.
func (e *Engine) UpdateCalibrationX(v float64) error {
	if err := e.updateCalibration(OpUpdateCalibrationX, v); err != nil {
		return err
	}
	e.info.CalibrationX = v
	e.info.RequiresCalibrationPush = false
	return nil
}

// UpdateCalibrationY pushes a new Y calibration value.
func (e *Engine) UpdateCalibrationY(v float64) error {
	if err := e.updateCalibration(OpUpdateCalibrationY, v); err != nil {
		return err
	}
	e.info.CalibrationY = v
	e.info.RequiresCalibrationPush = false
	return nil
}

// RequestColour queries the device's border colour, a variable-length
// ASCII line.
func (e *Engine) RequestColour() (string, error) {
	if err := e.send(OpRequestColour, 0, 0, 0, 0); err != nil {
		return "", err
	}
	line, err := e.port.ReadLine()
	if err != nil {
		return "", err
	}
	e.info.Colour = line
	return line, nil
}

// RequestManufactureDate queries the device's manufacture date,
// returned as a stream of bytes each formatted as two-digit decimal
// and concatenated. Unlike the source this is distilled from (design
// note: "RequestManufactureDate returns DeviceInfo.UniqueId instead of
// the manufacture date it just parsed"), this returns the parsed date.
func (e *Engine) RequestManufactureDate() (string, error) {
	if err := e.send(OpRequestManufactureDate, 0, 0, 0, 0); err != nil {
		return "", err
	}
	if err := serial.Poll(e.port, 3); err != nil {
		return "", err
	}
	b, err := e.port.Read(3)
	if err != nil {
		return "", err
	}
	date := fmt.Sprintf("%02d%02d%02d", b[0], b[1], b[2])
	e.info.ManufactureDate = date
	return date, nil
}

// RequestUniqueId queries the device's unique id. spec.md §9 flags
// this opcode (RequestColour, reused) as probably wrong in the source
// it was distilled from; kept as-is pending firmware verification.
func (e *Engine) RequestUniqueId() (string, error) {
	if err := e.send(opRequestUniqueId, 0, 0, 0, 0); err != nil {
		return "", err
	}
	line, err := e.port.ReadLine()
	if err != nil {
		return "", err
	}
	e.info.UniqueId = line
	return line, nil
}

// EnableRecoil enables or disables the recoil subsystem.
func (e *Engine) EnableRecoil(enable bool) error {
	return e.send(OpEnableRecoil, boolByte(enable), 0, 0, 0)
}

// RecoilPulseValues sets the two-pulse recoil waveform. Design note:
// the source this is distilled from assigns all four values to a
// single buffer slot so only delay survives; this places them at
// p0..p3 as the documentation intends.
func (e *Engine) RecoilPulseValues(strength1, startDelay, strength2, delay byte) error {
	return e.send(OpRecoilPulseValues, strength1, startDelay, strength2, delay)
}

// RecoilStyle is the recoil waveform style (0 = Normal, per spec.md
// §4.7).
type RecoilStyle byte

const RecoilStyleNormal RecoilStyle = 0

// SetRecoilStyle sends the recoil style opcode.
func (e *Engine) SetRecoilStyle(style RecoilStyle) error {
	p0 := byte(0)
	if style != RecoilStyleNormal {
		p0 = 1
	}
	return e.send(OpRecoilStyle, p0, 0, 0, 0)
}

// RecoilEvents expands a 4-bit event flag mask into the four payload
// bytes RecoilEvents expects, one flag per byte.
func (e *Engine) RecoilEvents(flags byte) error {
	var p [4]byte
	for i := range p {
		if flags&(1<<uint(i)) != 0 {
			p[i] = 1
		}
	}
	return e.send(OpRecoilEvents, p[0], p[1], p[2], p[3])
}

// RecoilPositions enables recoil per-actuator.
func (e *Engine) RecoilPositions(frontLeft, backLeft, frontRight, backRight byte) error {
	return e.send(OpRecoilPositions, frontLeft, backLeft, frontRight, backRight)
}

// RecoilStrength sets the recoil actuator voltage.
func (e *Engine) RecoilStrength(voltage byte) error {
	return e.send(OpRecoilStrength, voltage, 0, 0, 0)
}

// RecoilTest fires a single recoil pulse.
func (e *Engine) RecoilTest() error {
	return e.send(OpRecoilTest, 0, 0, 0, 0)
}

// RecoilTestRepeatStart begins repeated recoil test pulses.
func (e *Engine) RecoilTestRepeatStart() error {
	return e.send(OpRecoilTestRepeatStart, 0, 0, 0, 0)
}

// RecoilTestRepeatStop stops repeated recoil test pulses.
func (e *Engine) RecoilTestRepeatStop() error {
	return e.send(OpRecoilTestRepeatStop, 0, 0, 0, 0)
}

// PulseStrength sets a single recoil pulse strength applied uniformly
// across p0..p2, per spec.md §4.7.
func (e *Engine) PulseStrength(strength byte) error {
	return e.send(OpPulseStrength, strength, strength, strength, 0)
}

// CustomPulseStrength sets a recoil pulse amount that need not match
// PulseStrength's uniform value.
func (e *Engine) CustomPulseStrength(amount byte) error {
	return e.send(OpCustomPulseStrength, amount, 0, 0, 0)
}

// EnableCalibration enables or disables the device's on-board
// calibration mode.
func (e *Engine) EnableCalibration(enable bool) error {
	return e.send(OpEnableCalibration, boolByte(enable), 0, 0, 0)
}

// Debug transmits an arbitrary opcode frame, waits for the device's
// timing.DebugResponseWait settle delay, then returns every response
// byte read so far formatted as decimal and joined with "-" (spec.md
// §4.7).
func (e *Engine) Debug(op Opcode, p0, p1, p2, p3 byte) (string, error) {
	if err := e.send(op, p0, p1, p2, p3); err != nil {
		return "", err
	}
	time.Sleep(timing.DebugResponseWait)
	resp, err := e.port.ReadAll()
	if err != nil {
		return "", err
	}
	parts := make([]string, len(resp))
	for i, b := range resp {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, "-"), nil
}
