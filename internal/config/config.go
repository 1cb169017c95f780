// Package config handles application configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Rig     RigConfig     `yaml:"rig"`
	Camera  CameraConfig  `yaml:"camera"`
	Assets  AssetsConfig  `yaml:"assets"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	ShowBounds bool   `yaml:"show_bounds"` // Draw the pick box
}

// RigConfig selects the character and tunes its interaction.
type RigConfig struct {
	Manifest string   `yaml:"manifest"` // Rig manifest, resolved against asset roots
	Idle     string   `yaml:"idle"`     // Empty uses the manifest's idle clip
	Gestures []string `yaml:"gestures"` // Empty uses every non-idle clip

	NeckJoint  string  `yaml:"neck_joint"`
	WaistJoint string  `yaml:"waist_joint"`
	NeckLimit  float32 `yaml:"neck_limit"`  // Degrees
	WaistLimit float32 `yaml:"waist_limit"` // Degrees
	UpScale    float32 `yaml:"up_scale"`    // Fraction of the limit allowed looking up

	FadeIn  float32 `yaml:"fade_in"`  // Seconds
	FadeOut float32 `yaml:"fade_out"` // Seconds

	Seed uint64 `yaml:"seed"` // Gesture selection seed, 0 for random
}

// CameraConfig places the camera and the character in the scene.
type CameraConfig struct {
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
	FOV      float32    `yaml:"fov"` // Vertical, degrees
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`

	ModelOffset [3]float32 `yaml:"model_offset"`
	ModelScale  float32    `yaml:"model_scale"`
}

// AssetsConfig lists directories searched for assets, in order.
type AssetsConfig struct {
	Roots []string `yaml:"roots"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Avatar",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Rig: RigConfig{
			Manifest:   "rigs/stacy.yaml",
			NeckJoint:  "mixamorigNeck",
			WaistJoint: "mixamorigSpine",
			NeckLimit:  50,
			WaistLimit: 30,
			UpScale:    0.5,
			FadeIn:     0.25,
			FadeOut:    0.25,
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, -3, 30},
			Target:      [3]float32{0, -3, 0},
			FOV:         50,
			Near:        0.1,
			Far:         1000,
			ModelOffset: [3]float32{0, -11, 0},
			ModelScale:  7,
		},
		Assets: AssetsConfig{
			Roots: []string{"assets"},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
