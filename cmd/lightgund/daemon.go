package main

import (
	"fmt"
	"time"

	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"

	"github.com/barrelcam/lightgun-driver/internal/config"
	"github.com/barrelcam/lightgun-driver/internal/protocol"
	"github.com/barrelcam/lightgun-driver/internal/serial"
	"github.com/barrelcam/lightgun-driver/internal/statusapi"
	"github.com/barrelcam/lightgun-driver/internal/telemetry"
	"github.com/barrelcam/lightgun-driver/internal/vision"
)

// reconnectBackoff is how long run waits before retrying a failed
// Connect, matching the teacher's advertiseInterval retry shape in
// passlink_peripheral_service.go.
const reconnectBackoff = 5 * time.Second

// program is the kardianos/service.Service implementation, grounded on
// the teacher's program{quit chan struct{}} in
// passlink_peripheral_service.go. Unlike the teacher's BLE/Kyber/
// robotgo session, Start here wires the serial port, the protocol
// engine, the frame processor, telemetry and the status API — the
// concerns SPEC_FULL.md's "Dropped teacher dependencies" section
// keeps out of scope (BLE peripheral role, post-quantum pairing,
// OS-input injection, keyring secret storage) never appear here.
type program struct {
	quit chan struct{}

	cfg    *config.Config
	logger *logrus.Entry

	engine    *protocol.Engine
	processor *vision.Processor
	publisher *telemetry.Publisher
	api       *statusapi.Server
}

func (p *program) Start(s service.Service) error {
	p.quit = make(chan struct{})
	go p.run()
	return nil
}

func (p *program) Stop(s service.Service) error {
	close(p.quit)
	if p.engine != nil {
		_ = p.engine.Disconnect()
	}
	if p.publisher != nil {
		p.publisher.Close()
	}
	return nil
}

// run wires every ambient and domain component per SPEC_FULL.md and
// then blocks until Stop closes p.quit. Connect is retried on failure
// rather than giving up, since the device is a USB peripheral that may
// not be plugged in yet when the service starts.
func (p *program) run() {
	cfg, err := config.Load("")
	if err != nil {
		p.logger.WithError(err).Fatal("loading config")
	}
	p.cfg = cfg

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	videoSettings, err := cfg.VideoSettings()
	if err != nil {
		p.logger.WithError(err).Fatal("parsing video settings")
	}
	buttonMap, err := cfg.ButtonMap()
	if err != nil {
		p.logger.WithError(err).Fatal("parsing button map")
	}

	p.engine = protocol.NewEngine(func() (serial.Port, error) {
		return serial.Open(cfg.SerialPort)
	}, p.logger)
	p.engine.Buttons = buttonMap

	for {
		select {
		case <-p.quit:
			return
		default:
		}
		if err := p.engine.Connect(); err != nil {
			p.logger.WithError(err).Warnf("connect failed, retrying in %s", reconnectBackoff)
			select {
			case <-p.quit:
				return
			case <-time.After(reconnectBackoff):
				continue
			}
		}
		break
	}
	if err := p.engine.Start(); err != nil {
		p.logger.WithError(err).Fatal("starting device session")
	}
	p.logger.WithField("camera", p.engine.Info().Camera).Info("device authenticated and running")

	p.processor = vision.NewProcessor(p.engine, &videoSettings, p.logger)

	if cfg.Telemetry.Enabled {
		pub, err := telemetry.NewPublisher(cfg.Telemetry.BrokerURL, cfg.Telemetry.ClientID, cfg.Telemetry.Topic, p.logger)
		if err != nil {
			p.logger.WithError(err).Warn("telemetry publisher disabled: connect failed")
		} else {
			p.publisher = pub
			if err := pub.PublishDeviceInfo(p.engine.Info()); err != nil {
				p.logger.WithError(err).Warn("publishing initial device info")
			}
		}
	}

	if cfg.StatusAPI.Enabled {
		api, err := statusapi.New(cfg.StatusAPI.ListenAddr, cfg.StatusAPI.TokenFile, p.engine, p.processor, p.logger)
		if err != nil {
			p.logger.WithError(err).Warn("status API disabled")
		} else {
			p.api = api
			p.api.Start()
		}
	}

	<-p.quit
	p.logger.Info("lightgund stopped cleanly")
}

// ProcessFrame forwards one captured camera frame to the vision
// pipeline and fans the result out to telemetry and the status API's
// /stream subscribers. Camera capture itself is outside this
// package's scope (spec.md's Non-goals exclude video encoding and
// display) — whatever process owns the camera calls this method
// synchronously per frame, the same "invoked by an external camera
// callback" shape spec.md §5 describes for the vision pipeline.
func (p *program) ProcessFrame(frame vision.Frame) error {
	if p.processor == nil {
		return fmt.Errorf("lightgund: ProcessFrame called before the device session started")
	}
	err := p.processor.ProcessFrame(frame)

	snap := p.processor.Snapshot()
	if p.api != nil {
		p.api.Broadcast(statusapi.Event{Type: "aim_point", AimPoint: snap.LastAccepted})
	}
	if p.publisher != nil && snap.LastAccepted != nil {
		if pubErr := p.publisher.PublishAimPoint(*snap.LastAccepted); pubErr != nil {
			p.logger.WithError(pubErr).Debug("publishing aim point")
		}
	}
	return err
}
