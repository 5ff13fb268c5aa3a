// Package config loads service configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"WRISTWEAR_ADDR" envDefault:":8080"`

	// DBPath is the SQLite catalog database path. Empty selects
	// ~/.wristwear/wristwear.db.
	DBPath string `env:"WRISTWEAR_DB"`

	// StaticDir serves the frontend when set.
	StaticDir string `env:"WRISTWEAR_STATIC_DIR"`

	// AssetDir holds the watch overlay images.
	AssetDir string `env:"WRISTWEAR_ASSET_DIR" envDefault:"assets/watches"`

	// HotReload watches AssetDir and invalidates cached images on change.
	HotReload bool `env:"WRISTWEAR_HOT_RELOAD" envDefault:"false"`

	// CacheLimit bounds the number of decoded overlay images in memory.
	CacheLimit int `env:"WRISTWEAR_ASSET_CACHE_LIMIT" envDefault:"10"`

	// Mode is the default delivery mode for try-on sessions:
	// "composite" or "landmarks".
	Mode string `env:"WRISTWEAR_MODE" envDefault:"composite"`

	// JPEGQuality for composited frames (1-100).
	JPEGQuality int `env:"WRISTWEAR_JPEG_QUALITY" envDefault:"85"`

	// MaxUploadSize limits inbound frame and upload payloads in bytes.
	MaxUploadSize int64 `env:"WRISTWEAR_MAX_UPLOAD" envDefault:"10485760"`

	// CameraID enables the kiosk preview stream from a local camera
	// device when >= 0. Disabled by default.
	CameraID int `env:"WRISTWEAR_CAMERA" envDefault:"-1"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
