// Package config loads ocrctl's TOML configuration file on top of the
// built-in defaults; cmd/ocrctl overlays command-line flags afterwards.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the tunable knobs for the detector/recognizer runners,
// the watch folder, and the ONNX backend.
type Config struct {
	ModelDir              string `toml:"model-dir"`
	OrtLib                string `toml:"ort-lib"`
	Threads               int    `toml:"threads"`
	DetectorParallelism   int    `toml:"detector-parallelism"`
	RecognizerParallelism int    `toml:"recognizer-parallelism"`
	WatchDebounceMS       int    `toml:"watch-debounce-ms"`
}

// Defaults returns the baseline configuration applied before any file or
// flag override.
func Defaults() Config {
	return Config{
		ModelDir:              "./models",
		OrtLib:                "./lib/onnxruntime.so",
		Threads:               0,
		DetectorParallelism:   1,
		RecognizerParallelism: 1,
		WatchDebounceMS:       500,
	}
}

// Load reads path (if it exists) and overlays its non-empty strings and
// positive integers onto Defaults(). A missing file is not an error — it just means defaults
// apply.
func Load(path string) (Config, error) {
	cfg := Defaults()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	var overlay Config
	if err := toml.Unmarshal(b, &overlay); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if overlay.ModelDir != "" {
		cfg.ModelDir = overlay.ModelDir
	}
	if overlay.OrtLib != "" {
		cfg.OrtLib = overlay.OrtLib
	}
	if overlay.Threads > 0 {
		cfg.Threads = overlay.Threads
	}
	if overlay.DetectorParallelism > 0 {
		cfg.DetectorParallelism = overlay.DetectorParallelism
	}
	if overlay.RecognizerParallelism > 0 {
		cfg.RecognizerParallelism = overlay.RecognizerParallelism
	}
	if overlay.WatchDebounceMS > 0 {
		cfg.WatchDebounceMS = overlay.WatchDebounceMS
	}
	return cfg, nil
}
