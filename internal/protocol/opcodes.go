package protocol

// Opcode identifies the operation a 7-byte request frame carries.
// Numeric values are part of the wire format (spec.md §4.7) and must
// not be renumbered.
type Opcode byte

const (
	OpCursorOffset Opcode = 40

	OpEnableSleepMode  Opcode = 50
	OpDisableSleepMode Opcode = 51

	OpEnableEdgeReload  Opcode = 52
	OpDisableEdgeReload Opcode = 53

	OpEnableEdgeClickReload  Opcode = 54
	OpDisableEdgeClickReload Opcode = 55

	OpAssignButton Opcode = 60

	OpRequestFirmware Opcode = 101
	OpRequestCamera    Opcode = 102
	OpUpdateCamera     Opcode = 103

	OpRequestCalibrationX Opcode = 104
	OpRequestCalibrationY Opcode = 105
	OpUpdateCalibrationX  Opcode = 106
	OpUpdateCalibrationY  Opcode = 107

	OpHandshake Opcode = 109
	OpConnect   Opcode = 110

	OpRequestColour Opcode = 111

	OpRequestManufactureDate Opcode = 115

	OpAuthenticated Opcode = 121

	OpEnableRecoil Opcode = 161

	OpRecoilPulseValues Opcode = 162
	OpRecoilStyle       Opcode = 163
	OpRecoilEvents      Opcode = 164
	OpRecoilPositions   Opcode = 165
	OpRecoilStrength    Opcode = 167
	OpRecoilTest        Opcode = 168

	OpRecoilTestRepeatStart Opcode = 169
	OpRecoilTestRepeatStop  Opcode = 170

	OpPulseStrength       Opcode = 171
	OpCustomPulseStrength Opcode = 172

	OpEnableCalibration Opcode = 180

	// opRequestUniqueId is flagged in spec.md §9 design notes as
	// probably wrong in the source (it reuses OpRequestColour); kept
	// distinct so a firmware-verified value can replace it without
	// touching call sites.
	opRequestUniqueId = OpRequestColour
)
