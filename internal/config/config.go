// Package config loads the daemon configuration from a YAML file, filling
// in defaults for anything the file leaves out.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Link kinds accepted by DriveConfig.Link.
const (
	LinkNone   = "none"
	LinkSerial = "serial"
	LinkTCP    = "tcp"
)

// Duration wraps time.Duration so YAML files can say "10s" or "500ms".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration back as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// CameraConfig selects and shapes the frame source.
type CameraConfig struct {
	Device int  `yaml:"device"`
	Mirror bool `yaml:"mirror"`
}

// DetectorConfig tunes the hand detector.
type DetectorConfig struct {
	MaxHands        int     `yaml:"max_hands"`
	MinConfidence   float64 `yaml:"min_confidence"`
	MinTrackingConf float64 `yaml:"min_tracking_confidence"`
}

// GestureConfig tunes finger-state extraction. The mirror flag for the
// extractor follows CameraConfig.Mirror; only handedness is set here.
type GestureConfig struct {
	Handedness string `yaml:"handedness"`
}

// DriveConfig selects the actuator transport and the velocity tuning.
type DriveConfig struct {
	Link       string  `yaml:"link"`
	SerialPort string  `yaml:"serial_port"`
	Baud       int     `yaml:"baud"`
	TCPAddr    string  `yaml:"tcp_addr"`
	Speed      float64 `yaml:"speed"`
	Turn       float64 `yaml:"turn"`
}

// PipelineConfig paces the control loop.
type PipelineConfig struct {
	IdleFPS       int      `yaml:"idle_fps"`
	ActiveFPS     int      `yaml:"active_fps"`
	IdleAfter     Duration `yaml:"idle_after"`
	WakeThreshold float64  `yaml:"wake_threshold"`
}

// ServerConfig shapes the local HTTP surface.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// StoreConfig locates the SQLite database. An empty path resolves to
// ~/.mudra/mudra.db at startup.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// HooksConfig locates transition hooks. An empty dir resolves to
// ~/.mudra/hooks at startup.
type HooksConfig struct {
	Dir     string   `yaml:"dir"`
	Timeout Duration `yaml:"timeout"`
}

// Config is the full daemon configuration.
type Config struct {
	Camera   CameraConfig   `yaml:"camera"`
	Detector DetectorConfig `yaml:"detector"`
	Gesture  GestureConfig  `yaml:"gesture"`
	Drive    DriveConfig    `yaml:"drive"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Hooks    HooksConfig    `yaml:"hooks"`
}

// Default returns the stock configuration: camera 0 un-mirrored, right
// hand, simulator link on the local default port, idle at 5 FPS and active
// at 15, HTTP surface on localhost.
func Default() Config {
	return Config{
		Camera: CameraConfig{
			Device: 0,
		},
		Detector: DetectorConfig{
			MaxHands:        2,
			MinConfidence:   0.5,
			MinTrackingConf: 0.5,
		},
		Gesture: GestureConfig{
			Handedness: "Right",
		},
		Drive: DriveConfig{
			Link:    LinkTCP,
			Baud:    115200,
			TCPAddr: "127.0.0.1:19997",
			Speed:   2.0,
			Turn:    1.0,
		},
		Pipeline: PipelineConfig{
			IdleFPS:       5,
			ActiveFPS:     15,
			IdleAfter:     Duration(10 * time.Second),
			WakeThreshold: 1.0,
		},
		Server: ServerConfig{
			Enabled: true,
			Addr:    "127.0.0.1:8930",
		},
		Hooks: HooksConfig{
			Timeout: Duration(5 * time.Second),
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects configurations the daemon cannot run with.
func (c *Config) Validate() error {
	switch c.Drive.Link {
	case LinkNone, LinkSerial, LinkTCP:
	default:
		return fmt.Errorf("drive.link must be one of none, serial, tcp; got %q", c.Drive.Link)
	}

	if c.Drive.Link == LinkSerial && c.Drive.SerialPort == "" {
		return fmt.Errorf("drive.serial_port is required when drive.link is serial")
	}

	switch c.Gesture.Handedness {
	case "Right", "Left":
	default:
		return fmt.Errorf("gesture.handedness must be Right or Left; got %q", c.Gesture.Handedness)
	}

	if c.Pipeline.IdleFPS <= 0 || c.Pipeline.ActiveFPS <= 0 {
		return fmt.Errorf("pipeline fps values must be positive")
	}
	if c.Pipeline.ActiveFPS < c.Pipeline.IdleFPS {
		return fmt.Errorf("pipeline.active_fps must be at least pipeline.idle_fps")
	}

	if c.Drive.Speed < 0 || c.Drive.Turn < 0 {
		return fmt.Errorf("drive velocities must not be negative")
	}

	return nil
}
