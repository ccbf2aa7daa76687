// Package telemetry publishes DeviceInfo mutations and accepted
// aim-point frames over MQTT so external consumers can observe the
// driver without polling (spec.md §6: "Consumers of the core observe
// DeviceInfo mutations and the last-button-push timestamp"). Grounded
// on the camera driver's own publishJsonMsg helper
// (ngineera-sensors-go-seone-camera-driver/fspdriver/mqtt_client.go).
package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/barrelcam/lightgun-driver/internal/protocol"
	"github.com/barrelcam/lightgun-driver/internal/vision"
)

// Publisher is an optional, best-effort telemetry sink. A nil
// *Publisher is valid and every method on it is a no-op, so callers
// can wire it in unconditionally and skip it only when telemetry is
// disabled in config.
type Publisher struct {
	client mqtt.Client
	topic  string
	logger *logrus.Entry
}

// NewPublisher connects to brokerURL and returns a Publisher that
// publishes under topic. clientID should be unique per daemon instance
// sharing a broker.
func NewPublisher(brokerURL, clientID, topic string, logger *logrus.Entry) (*Publisher, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	logger = logger.WithField("component", "telemetry")

	opts := mqtt.NewClientOptions().AddBroker(brokerURL).SetClientID(clientID)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(5 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.WithError(err).Warn("mqtt connection lost")
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("telemetry: connecting to %s: %w", brokerURL, token.Error())
	}

	return &Publisher{client: client, topic: topic, logger: logger}, nil
}

// Close disconnects from the broker, waiting up to 250ms for
// in-flight publishes to drain.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.client.Disconnect(250)
}

// deviceInfoMessage is the wire shape published under
// <topic>/device_info — a flattened, JSON-friendly view of
// protocol.DeviceInfo.
type deviceInfoMessage struct {
	FirmwareMajor           byte      `json:"firmware_major"`
	FirmwareMinor           byte      `json:"firmware_minor"`
	Camera                  string    `json:"camera"`
	Colour                  string    `json:"colour"`
	CalibrationX            float64   `json:"calibration_x"`
	CalibrationY            float64   `json:"calibration_y"`
	RequiresCalibrationPush bool      `json:"requires_calibration_push"`
	ManufactureDate         string    `json:"manufacture_date"`
	UniqueId                string    `json:"unique_id"`
	LastButtonPush          time.Time `json:"last_button_push"`
}

// PublishDeviceInfo publishes a snapshot of info under
// <topic>/device_info at QoS 0 — telemetry is observational, a
// dropped sample is superseded by the next mutation.
func (p *Publisher) PublishDeviceInfo(info protocol.DeviceInfo) error {
	if p == nil {
		return nil
	}
	msg := deviceInfoMessage{
		FirmwareMajor:           info.Firmware.Major,
		FirmwareMinor:           info.Firmware.Minor,
		Camera:                  info.Camera,
		Colour:                  info.Colour,
		CalibrationX:            info.CalibrationX,
		CalibrationY:            info.CalibrationY,
		RequiresCalibrationPush: info.RequiresCalibrationPush,
		ManufactureDate:         info.ManufactureDate,
		UniqueId:                info.UniqueId,
		LastButtonPush:          info.LastButtonPush,
	}
	return p.publishJSON(p.topic+"/device_info", msg)
}

// aimPointMessage is the wire shape published under
// <topic>/aim_point for each accepted frame.
type aimPointMessage struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PublishAimPoint publishes an accepted aim point under
// <topic>/aim_point.
func (p *Publisher) PublishAimPoint(point vision.AimPoint) error {
	if p == nil {
		return nil
	}
	return p.publishJSON(p.topic+"/aim_point", aimPointMessage{X: point.X, Y: point.Y})
}

func (p *Publisher) publishJSON(topic string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("telemetry: marshalling %s: %w", topic, err)
	}
	token := p.client.Publish(topic, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		p.logger.WithError(err).WithField("topic", topic).Warn("publish failed")
		return err
	}
	return nil
}
