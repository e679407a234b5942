package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// OutputConfig defines the synth MIDI output
type OutputConfig struct {
	PortName string `json:"portName,omitempty"`
}

// ClockConfig selects the clock source. With an empty port name the
// internal clock is used at the given tempo.
type ClockConfig struct {
	PortName string  `json:"portName,omitempty"`
	Tempo    float64 `json:"tempo,omitempty"`
}

// SequenceConfig stores playback preferences
type SequenceConfig struct {
	Key          string `json:"key,omitempty"`  // tonic note, e.g. "C4"
	Mode         string `json:"mode,omitempty"` // "major" or "minor"
	TicksPerStep int    `json:"ticksPerStep,omitempty"`
	Velocity     uint8  `json:"velocity,omitempty"`
	VoiceLead    *bool  `json:"voiceLead,omitempty"`
	OctaveWindow int    `json:"octaveWindow,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Output   OutputConfig   `json:"output,omitempty"`
	Clock    ClockConfig    `json:"clock,omitempty"`
	Sequence SequenceConfig `json:"sequence,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	lead := true
	return &Config{
		Clock: ClockConfig{
			Tempo: 120,
		},
		Sequence: SequenceConfig{
			Key:          "C4",
			Mode:         "major",
			TicksPerStep: 12,
			Velocity:     100,
			VoiceLead:    &lead,
			OctaveWindow: 1,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chordflow"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// VoiceLead reports whether the voicing optimizer is enabled
func (c *Config) VoiceLead() bool {
	if c.Sequence.VoiceLead == nil {
		return true
	}
	return *c.Sequence.VoiceLead
}
