// Command solarsystem is the interactive viewer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"solar-system/internal/assets"
	"solar-system/internal/commands"
	"solar-system/internal/config"
	"solar-system/internal/control"
	"solar-system/internal/debug"
	"solar-system/internal/engineconfig"
	"solar-system/internal/env"
	"solar-system/internal/graphics"
	"solar-system/internal/logger"
	"solar-system/internal/metrics"
	"solar-system/internal/post"
	"solar-system/internal/render"
	"solar-system/internal/scene"
	"solar-system/internal/terminal"
)

const logTail = 6

func main() {
	prefsPath := flag.String("prefs", engineconfig.EngineConfigPath, "viewer preferences (JSON)")
	systemPath := flag.String("system", "", "system table (YAML); empty uses the built-in table")
	metricsAddr := flag.String("metrics", "", "serve Prometheus metrics on this address")
	workers := flag.Int("workers", 0, "rasterizer workers; 0 uses the preferences")
	flag.Parse()

	lg := logger.New(logger.LogFilePath)
	log := lg.Slog(slog.LevelInfo)

	if err := env.Load(".env"); err != nil {
		log.Warn("ignoring .env", "err", err)
	}
	prefs, err := engineconfig.Load(*prefsPath)
	if err != nil {
		log.Warn("preferences unreadable, using defaults", "path", *prefsPath, "err", err)
	}
	if err := engineconfig.ApplyEnv(&prefs, os.LookupEnv); err != nil {
		log.Warn("ignoring environment overrides", "err", err)
	}
	if *systemPath != "" {
		prefs.SystemPath = *systemPath
	}
	if *metricsAddr != "" {
		prefs.MetricsAddr = *metricsAddr
	}
	if *workers > 0 {
		prefs.Workers = *workers
	}

	if err := run(lg, log, prefs); err != nil {
		log.Error("viewer stopped", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(lg *logger.Logger, log *slog.Logger, prefs engineconfig.EnginePrefs) error {
	cfg, err := config.Load(prefs.SystemPath)
	if err != nil {
		return err
	}
	opts := scene.RenderOptions(cfg)
	if prefs.Workers > 0 {
		opts.Workers = prefs.Workers
	}
	opts.TileSize = prefs.TileSize
	scn, err := scene.New(cfg, log,
		scene.WithImageLoader(assets.Loader(context.Background(), assets.TextureCacheDir)),
		scene.WithWorkers(opts.Workers))
	if err != nil {
		return err
	}

	w := max(1, int(float32(prefs.WindowWidth)*prefs.RenderScale))
	h := max(1, int(float32(prefs.WindowHeight)*prefs.RenderScale))
	rnd, err := render.NewRenderer(w, h, opts)
	if err != nil {
		return err
	}
	log.Info("renderer ready", "width", w, "height", h, "workers", rnd.Options().Workers, "tile", rnd.Options().TileSize)

	mc := metrics.New()
	if prefs.MetricsAddr != "" {
		srv := &http.Server{Addr: prefs.MetricsAddr, Handler: mc.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", "addr", prefs.MetricsAddr, "err", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info("serving metrics", "addr", prefs.MetricsAddr)
	}

	hud := debug.New()
	hud.ShowFPS = prefs.ShowFPS
	hud.ShowMemAlloc = prefs.ShowMemAlloc
	hud.ShowStats = prefs.ShowStats

	var (
		input     graphics.Input
		presenter *graphics.Presenter
		fb        *render.FrameBuffer
	)
	reg := commands.NewRegistry()
	commands.Install(reg, commands.Viewer{
		Scene: scn,
		Toggles: map[string]*bool{
			"fps":   &hud.ShowFPS,
			"mem":   &hud.ShowMemAlloc,
			"stats": &hud.ShowStats,
			"bloom": &prefs.Bloom,
		},
		Screenshot: func() error {
			if fb == nil {
				return errors.New("nothing rendered yet")
			}
			screenshot(log, prefs.ScreenshotDir, fb)
			return nil
		},
		Print: lg.Log,
	})
	term := terminal.New(lg, reg)

	update := func() {
		if presenter == nil {
			presenter = graphics.NewPresenter(w, h)
		}
		term.Update()
		var d control.Deltas
		if !term.IsOpen() {
			d = input.Poll()
		}
		scn.Update(d, graphics.FrameTime())

		start := time.Now()
		var st render.Stats
		fb, st = rnd.Render(scn.Frame(graphics.Aspect()))
		mc.Observe(st, time.Since(start))
		mc.SetSimulationTime(scn.Time())

		if prefs.Bloom {
			presenter.UploadImage(post.Bloom(fb.Image(), prefs.BloomThreshold, prefs.BloomRadius))
		} else {
			presenter.Upload(fb.Pixels())
		}
		if !term.IsOpen() && input.Screenshot() {
			screenshot(log, prefs.ScreenshotDir, fb)
		}

		hud.SetStatus(debug.Status{
			Mode:      scn.Camera().Mode().String(),
			Time:      scn.Time(),
			TimeScale: scn.TimeScale(),
			Paused:    scn.Paused(),
			Stats:     st,
		})
		if term.IsOpen() {
			hud.SetLog(nil)
		} else {
			hud.SetLog(lg.Tail(logTail))
		}
	}
	draw := func() {
		presenter.Draw()
		hud.Draw()
		term.Draw()
	}

	graphics.Run(graphics.Window{
		Width:     prefs.WindowWidth,
		Height:    prefs.WindowHeight,
		Title:     "Solar System",
		TargetFPS: prefs.TargetFPS,
	}, update, draw)
	return nil
}

func screenshot(log *slog.Logger, dir string, fb *render.FrameBuffer) {
	path := filepath.Join(dir, time.Now().Format("20060102-150405.000")+".png")
	if err := assets.SavePNG(path, fb.Image()); err != nil {
		log.Error("screenshot failed", "path", path, "err", err)
		return
	}
	log.Info("screenshot saved", "path", path)
}
