// Package buttons implements the fixed device-button-to-host-key
// mapping spec.md §3 describes: a set of keys that is fixed at
// construction and never grows or shrinks, only reassigned.
package buttons

import "github.com/vcaesar/keycode"

// Button identifies one physical (or offscreen-variant) control on the
// device.
type Button int

const (
	Trigger Button = iota
	PumpAction
	FrontLeft
	RearLeft
	FrontRight
	RearRight
	DPadUp
	DPadDown
	DPadLeft
	DPadRight
	TriggerOffscreen
	PumpActionOffscreen
	FrontLeftOffscreen
	RearLeftOffscreen
	FrontRightOffscreen
	RearRightOffscreen
)

// allButtons is the fixed enumeration backing ButtonMap's key set.
var allButtons = []Button{
	Trigger, PumpAction, FrontLeft, RearLeft, FrontRight, RearRight,
	DPadUp, DPadDown, DPadLeft, DPadRight,
	TriggerOffscreen, PumpActionOffscreen, FrontLeftOffscreen,
	RearLeftOffscreen, FrontRightOffscreen, RearRightOffscreen,
}

// HostKey is an ASCII-range host key code, with NoKey as the "unset"
// sentinel (spec.md §3: "a fixed enumeration of host key codes
// (ASCII-range, with a sentinel None)"). Concrete named codes come from
// github.com/vcaesar/keycode's per-OS keycode.Keycode name table.
type HostKey int

// NoKey is the sentinel meaning the button is unassigned.
const NoKey HostKey = -1

// KeyByName resolves a human-readable key name (e.g. "a", "enter",
// "space") to a HostKey via keycode.Keycode, the same lookup table
// robotgo itself uses for key-name resolution.
func KeyByName(name string) (HostKey, bool) {
	code, ok := keycode.Keycode[name]
	if !ok {
		return NoKey, false
	}
	return HostKey(code), true
}

// ButtonMap is a mapping from every Button to a HostKey. The key set is
// fixed at construction (NewButtonMap) and never grows or shrinks —
// only SetKey reassigns values, matching the teacher's keys.go pattern
// of a fixed constant table with a lookup map.
type ButtonMap struct {
	keys map[Button]HostKey
}

// NewButtonMap returns a ButtonMap with every Button in allButtons
// mapped to NoKey.
func NewButtonMap() *ButtonMap {
	m := &ButtonMap{keys: make(map[Button]HostKey, len(allButtons))}
	for _, b := range allButtons {
		m.keys[b] = NoKey
	}
	return m
}

// DefaultButtonMap returns the factory default button map: Trigger and
// PumpAction on the left and right mouse buttons (keycode.MouseMap),
// every other button NoKey.
func DefaultButtonMap() *ButtonMap {
	m := NewButtonMap()
	m.SetKey(Trigger, HostKey(keycode.MouseMap["left"]))
	m.SetKey(PumpAction, HostKey(keycode.MouseMap["right"]))
	return m
}

// Get returns the HostKey currently assigned to b.
func (m *ButtonMap) Get(b Button) HostKey {
	return m.keys[b]
}

// SetKey reassigns the HostKey for an existing Button. It never adds or
// removes a key from the map's key set.
func (m *ButtonMap) SetKey(b Button, key HostKey) {
	if _, ok := m.keys[b]; !ok {
		return
	}
	m.keys[b] = key
}

// Unassign is shorthand for SetKey(b, NoKey).
func (m *ButtonMap) Unassign(b Button) {
	m.SetKey(b, NoKey)
}

// Keys returns the fixed set of buttons this map covers — always equal
// to the Button enumeration (spec.md §8: "ButtonMap key set equals the
// Buttons enumeration at all times").
func (m *ButtonMap) Keys() []Button {
	out := make([]Button, len(allButtons))
	copy(out, allButtons)
	return out
}
