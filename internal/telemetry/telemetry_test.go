package telemetry

import (
	"testing"
	"time"

	"github.com/barrelcam/lightgun-driver/internal/protocol"
	"github.com/barrelcam/lightgun-driver/internal/vision"
)

func TestNilPublisherMethodsAreNoOps(t *testing.T) {
	var p *Publisher

	if err := p.PublishDeviceInfo(protocol.DeviceInfo{}); err != nil {
		t.Fatalf("nil Publisher.PublishDeviceInfo returned %v, want nil", err)
	}
	if err := p.PublishAimPoint(vision.AimPoint{X: 1, Y: 2}); err != nil {
		t.Fatalf("nil Publisher.PublishAimPoint returned %v, want nil", err)
	}
	p.Close() // must not panic
}

func TestDeviceInfoMessageFlattensFirmware(t *testing.T) {
	info := protocol.DeviceInfo{
		Firmware:        protocol.FirmwareVersion{Major: 2, Minor: 1},
		Camera:          "cam-01",
		CalibrationX:    3.5,
		CalibrationY:    -1.25,
		ManufactureDate: "2024-01-02",
		UniqueId:        "abc123",
		LastButtonPush:  time.Unix(0, 0).UTC(),
	}
	msg := deviceInfoMessage{
		FirmwareMajor: info.Firmware.Major,
		FirmwareMinor: info.Firmware.Minor,
		Camera:        info.Camera,
		CalibrationX:  info.CalibrationX,
		CalibrationY:  info.CalibrationY,
	}
	if msg.FirmwareMajor != 2 || msg.FirmwareMinor != 1 {
		t.Fatalf("firmware fields not flattened correctly: %+v", msg)
	}
	if msg.CalibrationX != 3.5 || msg.CalibrationY != -1.25 {
		t.Fatalf("calibration fields not carried through: %+v", msg)
	}
}
