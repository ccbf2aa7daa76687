// Package config loads the daemon's startup configuration: which
// serial port to open, how to log, and whether the optional telemetry
// and status-API surfaces are enabled. This is distinct from the
// in-memory session state (DeviceInfo, calibration, ring buffer)
// spec.md §3/§6 say is never persisted — this file configures how the
// daemon starts, not device session data.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/barrelcam/lightgun-driver/internal/buttons"
	"github.com/barrelcam/lightgun-driver/internal/settings"
)

// Config is the daemon's startup configuration, loaded once at process
// start (spec.md §5: "invoked... as a long-running process").
type Config struct {
	SerialPort string `json:"serial_port" yaml:"serial_port"`

	LogLevel string `json:"log_level" yaml:"log_level"`
	LogFile  string `json:"log_file" yaml:"log_file"`

	Video    VideoConfig    `json:"video" yaml:"video"`
	Buttons  map[string]string `json:"buttons" yaml:"buttons"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`
	StatusAPI StatusAPIConfig `json:"status_api" yaml:"status_api"`
}

// VideoConfig mirrors settings.VideoSettings with YAML/JSON-friendly
// field types (a hex border colour string rather than an RGB struct,
// a handedness name rather than the Handedness enum).
type VideoConfig struct {
	BorderColour        string  `json:"border_colour" yaml:"border_colour"`
	FilterRadius        float64 `json:"filter_radius" yaml:"filter_radius"`
	Handedness          string  `json:"handedness" yaml:"handedness"`
	OnlyMatchWherePointing bool `json:"only_match_where_pointing" yaml:"only_match_where_pointing"`
	UseAntiJitter       *bool   `json:"use_anti_jitter" yaml:"use_anti_jitter"`
	JitterMoveThreshold float64 `json:"jitter_move_threshold" yaml:"jitter_move_threshold"`
	YSightOffset        float64 `json:"y_sight_offset" yaml:"y_sight_offset"`
}

// TelemetryConfig configures the optional MQTT publisher
// (internal/telemetry).
type TelemetryConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	BrokerURL string `json:"broker_url" yaml:"broker_url"`
	ClientID  string `json:"client_id" yaml:"client_id"`
	Topic     string `json:"topic" yaml:"topic"`
}

// StatusAPIConfig configures the optional loopback debug/status API
// (internal/statusapi).
type StatusAPIConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
	TokenFile  string `json:"token_file" yaml:"token_file"`
}

const (
	defaultYAML = "lightgund.yaml"
	defaultYML  = "lightgund.yml"
	defaultJSON = "lightgund.json"
)

// Load reads path, or the first of the default config file names that
// exists, parsing by extension and applying defaults for zero values
// — the teacher's loadConfig/applyDefaults pattern
// (cmd/novakey/config.go), generalized to accept an explicit path.
func Load(path string) (*Config, error) {
	if path == "" {
		path = pickConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported extension %q (use .json/.yaml/.yml)", ext)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func pickConfigPath() string {
	for _, p := range []string{defaultYAML, defaultYML, defaultJSON} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return defaultYAML
}

func (c *Config) applyDefaults() {
	if c.SerialPort == "" {
		c.SerialPort = "/dev/ttyUSB0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.Video.BorderColour == "" {
		c.Video.BorderColour = "#FFFFFF"
	}
	if c.Video.FilterRadius == 0 {
		c.Video.FilterRadius = 50
	}
	if c.Video.Handedness == "" {
		c.Video.Handedness = "auto"
	}
	if c.Video.UseAntiJitter == nil {
		v := true
		c.Video.UseAntiJitter = &v
	}
	if c.Video.JitterMoveThreshold == 0 {
		c.Video.JitterMoveThreshold = 0.5
	}

	if c.StatusAPI.ListenAddr == "" {
		c.StatusAPI.ListenAddr = "127.0.0.1:8787"
	}
	if c.StatusAPI.TokenFile == "" {
		c.StatusAPI.TokenFile = "status_api_token.txt"
	}

	if c.Telemetry.Topic == "" {
		c.Telemetry.Topic = "lightgun/telemetry"
	}
	if c.Telemetry.ClientID == "" {
		c.Telemetry.ClientID = "lightgund"
	}
}

// VideoSettings builds a settings.VideoSettings from the loaded
// config, resolving the hex border colour and handedness name.
func (c *Config) VideoSettings() (settings.VideoSettings, error) {
	rgb, err := parseHexColour(c.Video.BorderColour)
	if err != nil {
		return settings.VideoSettings{}, err
	}
	hand, err := parseHandedness(c.Video.Handedness)
	if err != nil {
		return settings.VideoSettings{}, err
	}
	return settings.VideoSettings{
		BorderColour:           rgb,
		FilterRadius:           c.Video.FilterRadius,
		Handedness:             hand,
		OnlyMatchWherePointing: c.Video.OnlyMatchWherePointing,
		UseAntiJitter:          c.Video.UseAntiJitter == nil || *c.Video.UseAntiJitter,
		JitterMoveThreshold:    c.Video.JitterMoveThreshold,
		YSightOffset:           c.Video.YSightOffset,
	}, nil
}

func parseHexColour(s string) (settings.RGB, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return settings.RGB{}, fmt.Errorf("config: border_colour %q is not a 6-digit hex colour", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return settings.RGB{}, fmt.Errorf("config: border_colour %q: %w", s, err)
	}
	return settings.RGB{R: r, G: g, B: b}, nil
}

func parseHandedness(s string) (settings.Handedness, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return settings.Auto, nil
	case "left":
		return settings.Left, nil
	case "right":
		return settings.Right, nil
	default:
		return 0, fmt.Errorf("config: handedness %q must be one of auto, left, right", s)
	}
}

// ButtonMap builds a buttons.ButtonMap from the config's name->key
// overrides, starting from buttons.DefaultButtonMap.
func (c *Config) ButtonMap() (*buttons.ButtonMap, error) {
	m := buttons.DefaultButtonMap()
	for name, keyName := range c.Buttons {
		btn, ok := buttonByName[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("config: unknown button %q", name)
		}
		key, ok := buttons.KeyByName(keyName)
		if !ok {
			return nil, fmt.Errorf("config: unknown key %q for button %q", keyName, name)
		}
		m.SetKey(btn, key)
	}
	return m, nil
}

var buttonByName = map[string]buttons.Button{
	"trigger":                buttons.Trigger,
	"pump_action":            buttons.PumpAction,
	"front_left":             buttons.FrontLeft,
	"rear_left":              buttons.RearLeft,
	"front_right":            buttons.FrontRight,
	"rear_right":             buttons.RearRight,
	"dpad_up":                buttons.DPadUp,
	"dpad_down":              buttons.DPadDown,
	"dpad_left":              buttons.DPadLeft,
	"dpad_right":             buttons.DPadRight,
	"trigger_offscreen":      buttons.TriggerOffscreen,
	"pump_action_offscreen":  buttons.PumpActionOffscreen,
	"front_left_offscreen":   buttons.FrontLeftOffscreen,
	"rear_left_offscreen":    buttons.RearLeftOffscreen,
	"front_right_offscreen":  buttons.FrontRightOffscreen,
	"rear_right_offscreen":   buttons.RearRightOffscreen,
}
