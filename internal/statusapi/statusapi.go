// Package statusapi implements a loopback-only, token-gated HTTP and
// WebSocket debug surface for the driver: GET /status for the current
// DeviceInfo and frame-processor state, POST /debug to issue a raw
// Debug opcode against the connected device, and GET /stream for a
// live feed of accepted aim points. Grounded on the teacher's
// cmd/novakey/arm_api.go token-gated loopback HTTP server.
package statusapi

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/barrelcam/lightgun-driver/internal/protocol"
	"github.com/barrelcam/lightgun-driver/internal/vision"
)

// DeviceController is the narrow view of *protocol.Engine the status
// API needs — avoids the package depending on the engine's full
// surface (connect/handshake, button assignment, recoil, ...).
type DeviceController interface {
	Info() protocol.DeviceInfo
	State() protocol.ConnectState
	Debug(op protocol.Opcode, p0, p1, p2, p3 byte) (string, error)
}

// FrameState is the narrow view of *vision.Processor the status API
// needs.
type FrameState interface {
	Snapshot() vision.Snapshot
}

// Event is one message pushed to /stream subscribers.
type Event struct {
	Type      string           `json:"type"`
	AimPoint  *vision.AimPoint `json:"aim_point,omitempty"`
	DeviceInfo *deviceInfoView `json:"device_info,omitempty"`
}

// Server is the status API's HTTP server. It refuses to start on a
// non-loopback listen address (teacher: isLoopbackListenAddr).
type Server struct {
	device     DeviceController
	frames     FrameState
	token      string
	listenAddr string
	logger     *logrus.Entry
	upgrader   websocket.Upgrader
	hub        *hub
}

// New returns a Server. tokenPath is created with a fresh random
// token if it does not already exist (teacher: initArmTokenFile).
func New(listenAddr, tokenPath string, device DeviceController, frames FrameState, logger *logrus.Entry) (*Server, error) {
	if !isLoopbackListenAddr(listenAddr) {
		return nil, fmt.Errorf("statusapi: listen_addr must be loopback, got %q", listenAddr)
	}
	if err := initTokenFile(tokenPath); err != nil {
		return nil, err
	}
	token, err := readToken(tokenPath)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Server{
		device:     device,
		frames:     frames,
		token:      token,
		listenAddr: listenAddr,
		logger:     logger.WithField("component", "statusapi"),
		upgrader:   websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		hub:        newHub(),
	}, nil
}

// Broadcast pushes event to every connected /stream client. Safe to
// call from the camera-frame goroutine.
func (s *Server) Broadcast(event Event) {
	s.hub.broadcast(event)
}

// Start launches the HTTP server in a background goroutine, the same
// fire-and-forget shape the teacher's startArmAPI uses.
func (s *Server) Start() {
	mux := s.buildMux()
	s.logger.WithField("addr", s.listenAddr).Info("status API listening")
	go func() {
		if err := http.ListenAndServe(s.listenAddr, mux); err != nil {
			s.logger.WithError(err).Warn("status API server stopped")
		}
	}()
}

func isLoopbackListenAddr(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	ips, err := net.LookupIP(host)
	if err != nil || len(ips) == 0 {
		return false
	}
	for _, ip := range ips {
		if !ip.IsLoopback() {
			return false
		}
	}
	return true
}

func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(TokenHeader); got == "" || got != s.token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// deviceInfoView is the JSON-friendly status projection of
// protocol.DeviceInfo.
type deviceInfoView struct {
	State           string    `json:"state"`
	FirmwareMajor   byte      `json:"firmware_major"`
	FirmwareMinor   byte      `json:"firmware_minor"`
	Camera          string    `json:"camera"`
	Colour          string    `json:"colour"`
	CalibrationX    float64   `json:"calibration_x"`
	CalibrationY    float64   `json:"calibration_y"`
	ManufactureDate string    `json:"manufacture_date"`
	UniqueId        string    `json:"unique_id"`
	LastButtonPush  time.Time `json:"last_button_push"`
}

func (s *Server) deviceInfoView() *deviceInfoView {
	info := s.device.Info()
	return &deviceInfoView{
		State:           s.device.State().String(),
		FirmwareMajor:   info.Firmware.Major,
		FirmwareMinor:   info.Firmware.Minor,
		Camera:          info.Camera,
		Colour:          info.Colour,
		CalibrationX:    info.CalibrationX,
		CalibrationY:    info.CalibrationY,
		ManufactureDate: info.ManufactureDate,
		UniqueId:        info.UniqueId,
		LastButtonPush:  info.LastButtonPush,
	}
}
