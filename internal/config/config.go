// Package config handles model-viewer configuration loading and management.
package config

import "time"

// Config holds all settings.
type Config struct {
	Model    ModelConfig   `yaml:"model"`
	Textures TextureConfig `yaml:"textures"`
	Gaze     GazeConfig    `yaml:"gaze"`
	Sway     SwayConfig    `yaml:"sway"`
	Pose     PoseConfig    `yaml:"pose"`
	Logging  LoggingConfig `yaml:"logging"`
}

// ModelConfig holds mesh and material build settings.
type ModelConfig struct {
	OutlineScale float32 `yaml:"outline_scale"` // edge size to outline thickness
	AlphaTest    float32 `yaml:"alpha_test"`
}

// TextureConfig holds texture resolution settings.
type TextureConfig struct {
	SearchPaths []string      `yaml:"search_paths"` // extra roots after the model directory
	ToonDir     string        `yaml:"toon_dir"`     // shared toon01.bmp..toon10.bmp
	Workers     int           `yaml:"workers"`
	Timeout     time.Duration `yaml:"timeout"`
	Anisotropy  int           `yaml:"anisotropy"`
	MaxSize     int           `yaml:"max_size"` // longest side after load, 0 keeps source size
}

// GazeConfig holds head/eye tracking settings. Angles are radians.
type GazeConfig struct {
	Enabled        bool    `yaml:"enabled"`
	HeadScale      float32 `yaml:"head_scale"` // radians per pointer pixel
	EyeScale       float32 `yaml:"eye_scale"`
	HeadYawLimit   float32 `yaml:"head_yaw_limit"`
	HeadPitchLimit float32 `yaml:"head_pitch_limit"`
	EyeYawLimit    float32 `yaml:"eye_yaw_limit"`
	EyePitchLimit  float32 `yaml:"eye_pitch_limit"`
	Smoothing      float32 `yaml:"smoothing"` // slerp fraction per tick
}

// SwayConfig holds idle arm sway settings.
type SwayConfig struct {
	Enabled     bool    `yaml:"enabled"`
	FrequencyHz float32 `yaml:"frequency_hz"`
	Amplitude   float32 `yaml:"amplitude"` // radians
	ElbowFactor float32 `yaml:"elbow_factor"`
	Smoothing   float32 `yaml:"smoothing"`
}

// PoseConfig holds the resting pose applied after a model loads.
type PoseConfig struct {
	Default string `yaml:"default"` // "standing", "sitting" or "" for none
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			OutlineScale: 0.002,
			AlphaTest:    0.1,
		},
		Textures: TextureConfig{
			Workers:    4,
			Timeout:    10 * time.Second,
			Anisotropy: 16,
		},
		Gaze: GazeConfig{
			Enabled:        true,
			HeadScale:      0.0003,
			EyeScale:       0.0006,
			HeadYawLimit:   0.3,
			HeadPitchLimit: 0.2,
			EyeYawLimit:    0.15,
			EyePitchLimit:  0.1,
			Smoothing:      0.1,
		},
		Sway: SwayConfig{
			Enabled:     true,
			FrequencyHz: 0.25,
			Amplitude:   0.04,
			ElbowFactor: 0.5,
			Smoothing:   0.1,
		},
		Pose: PoseConfig{
			Default: "standing",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
