// Command solarsnap renders a timed sequence of frames to PNG files without opening a window.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"solar-system/internal/assets"
	"solar-system/internal/config"
	"solar-system/internal/control"
	"solar-system/internal/post"
	"solar-system/internal/render"
	"solar-system/internal/scene"
)

type job struct {
	Frames   int
	Start    float64
	Step     float64
	Width    int
	Height   int
	Out      string
	BirdsEye bool
	Bloom    float64 // blur radius; 0 disables
	Workers  int
}

func main() {
	var j job
	systemPath := flag.String("system", "", "system table (YAML); empty uses the built-in table")
	flag.IntVar(&j.Frames, "frames", 60, "number of frames")
	flag.Float64Var(&j.Start, "start", 0, "simulation time of the first frame")
	flag.Float64Var(&j.Step, "dt", 1.0/30, "simulation time between frames")
	flag.IntVar(&j.Width, "width", 640, "image width")
	flag.IntVar(&j.Height, "height", 360, "image height")
	flag.StringVar(&j.Out, "out", "frames", "output directory")
	flag.BoolVar(&j.BirdsEye, "birds-eye", false, "render from the bird's-eye camera")
	flag.Float64Var(&j.Bloom, "bloom", 0, "bloom radius in pixels; 0 disables")
	flag.IntVar(&j.Workers, "workers", 0, "rasterizer workers; 0 uses one per CPU")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg, err := config.Load(*systemPath)
	if err == nil {
		err = snap(context.Background(), log, cfg, j)
	}
	if err != nil {
		log.Error("snapshot failed", "err", err)
		os.Exit(1)
	}
}

func snap(ctx context.Context, log *slog.Logger, cfg *config.System, j job) error {
	if j.Frames <= 0 {
		return fmt.Errorf("frames must be positive, have %d", j.Frames)
	}
	opts := scene.RenderOptions(cfg)
	if j.Workers > 0 {
		opts.Workers = j.Workers
	}
	scn, err := scene.New(cfg, log, scene.WithImageLoader(assets.Loader(ctx, assets.TextureCacheDir)), scene.WithWorkers(opts.Workers))
	if err != nil {
		return err
	}
	rnd, err := render.NewRenderer(j.Width, j.Height, opts)
	if err != nil {
		return err
	}
	if j.BirdsEye {
		scn.Update(control.Deltas{ToggleBirdsEye: true}, 0)
	}

	start := time.Now()
	aspect := float32(j.Width) / float32(j.Height)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for k := 0; k < j.Frames; k++ {
		if ctx.Err() != nil {
			break
		}
		scn.Seek(j.Start + float64(k)*j.Step)
		fb, st := rnd.Render(scn.Frame(aspect))
		img := fb.Image()
		path := filepath.Join(j.Out, fmt.Sprintf("frame-%04d.png", k))
		log.Debug("frame", "index", k, "time", scn.Time(), "triangles", st.Rasterized, "pixels", st.Pixels)
		g.Go(func() error {
			var out image.Image = img
			if j.Bloom > 0 {
				out = post.Bloom(img, 0.8, j.Bloom)
			}
			return assets.SavePNG(path, out)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("frames written", "count", j.Frames, "dir", j.Out, "elapsed", time.Since(start))
	return nil
}
