package engineconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jinzhu/copier"
)

// EngineConfigPath is the path to the viewer config file, relative to the process working directory.
const EngineConfigPath = "config/engine.json"

// EnginePrefs holds viewer-only preferences (window, overlays, rasterizer tuning). Persisted
// across runs. The system table itself lives in the config package.
type EnginePrefs struct {
	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`
	// RenderScale sizes the software framebuffer relative to the window.
	RenderScale float32 `json:"render_scale"`
	TargetFPS   int     `json:"target_fps"`

	ShowFPS      bool `json:"show_fps"`
	ShowMemAlloc bool `json:"show_memalloc"`
	ShowStats    bool `json:"show_stats"`

	Workers  int `json:"workers"`
	TileSize int `json:"tile_size"`

	Bloom          bool    `json:"bloom"`
	BloomThreshold float64 `json:"bloom_threshold"`
	BloomRadius    float64 `json:"bloom_radius"`

	MetricsAddr   string `json:"metrics_addr,omitempty"`
	ScreenshotDir string `json:"screenshot_dir"`
	SystemPath    string `json:"system_path,omitempty"`
}

// Default returns default viewer preferences (overlays and bloom off, one worker per CPU).
func Default() EnginePrefs {
	return EnginePrefs{
		WindowWidth:    1280,
		WindowHeight:   720,
		RenderScale:    0.5,
		TargetFPS:      60,
		Workers:        0,
		TileSize:       64,
		BloomThreshold: 0.8,
		BloomRadius:    4,
		ScreenshotDir:  "screenshots",
	}
}

// Load reads preferences from path and merges every non-zero field over Default(). A missing
// file yields Default() and no error and does not create a file. A malformed file yields
// Default() and the decode error.
func Load(path string) (EnginePrefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), nil
	}
	var p EnginePrefs
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	out := Default()
	if err := copier.CopyWithOption(&out, &p, copier.Option{IgnoreEmpty: true}); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Save writes preferences to path, creating the directory if needed.
func Save(path string, p EnginePrefs) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Environment overrides read by ApplyEnv.
const (
	EnvSystem      = "SOLARSYSTEM_SYSTEM"
	EnvMetricsAddr = "SOLARSYSTEM_METRICS_ADDR"
	EnvWorkers     = "SOLARSYSTEM_WORKERS"
	EnvRenderScale = "SOLARSYSTEM_RENDER_SCALE"
	EnvBloom       = "SOLARSYSTEM_BLOOM"
)

// ApplyEnv overrides fields of p from the environment variables above, read through lookup
// (os.LookupEnv in production). Unset or empty variables are skipped; malformed values are
// reported together and leave their field unchanged.
func ApplyEnv(p *EnginePrefs, lookup func(string) (string, bool)) error {
	get := func(k string) (string, bool) {
		v, ok := lookup(k)
		return v, ok && v != ""
	}
	var errs []error
	if v, ok := get(EnvSystem); ok {
		p.SystemPath = v
	}
	if v, ok := get(EnvMetricsAddr); ok {
		p.MetricsAddr = v
	}
	if v, ok := get(EnvWorkers); ok {
		if n, err := strconv.Atoi(v); err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("%s=%q: want a non-negative integer", EnvWorkers, v))
		} else {
			p.Workers = n
		}
	}
	if v, ok := get(EnvRenderScale); ok {
		if f, err := strconv.ParseFloat(v, 32); err != nil || !(f > 0 && f <= 4) {
			errs = append(errs, fmt.Errorf("%s=%q: want a scale in (0, 4]", EnvRenderScale, v))
		} else {
			p.RenderScale = float32(f)
		}
	}
	if v, ok := get(EnvBloom); ok {
		if b, err := strconv.ParseBool(v); err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: want a boolean", EnvBloom, v))
		} else {
			p.Bloom = b
		}
	}
	return errors.Join(errs...)
}
