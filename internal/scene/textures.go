package scene

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"solar-system/internal/config"
	"solar-system/internal/texture"
)

type textureJob struct {
	name  string
	spec  texture.Spec
	image string
	tex   *texture.Texture
}

// buildTextures produces one texture per body plus the spacecraft hull. Jobs run
// concurrently and are inserted into the table in table order, so the result does not
// depend on scheduling.
func buildTextures(cfg *config.System, o options) (*texture.Table, error) {
	w, h := cfg.Texture.Width, cfg.Texture.Height
	jobs := make([]textureJob, 0, len(cfg.Bodies)+1)
	for _, b := range cfg.Bodies {
		jobs = append(jobs, textureJob{
			name:  b.Name,
			spec:  texture.Spec{Seed: b.Seed, Width: w, Height: h, Surface: b.Surface, Noise: b.Noise},
			image: b.Texture,
		})
	}
	sc := cfg.Spacecraft
	surface := sc.Surface
	if surface == "" {
		surface = texture.SurfaceHull
	}
	jobs = append(jobs, textureJob{
		name: config.SpacecraftName,
		spec: texture.Spec{Seed: sc.Seed, Width: w, Height: h, Surface: surface},
	})

	var g errgroup.Group
	g.SetLimit(max(o.workers, 1))
	for i := range jobs {
		j := &jobs[i]
		if tex, ok := o.overrides[j.name]; ok {
			j.tex = tex
			continue
		}
		g.Go(func() error {
			var err error
			switch {
			case j.image != "" && o.loader != nil:
				j.tex, err = o.loader(j.image, w, h)
			case j.image != "":
				err = fmt.Errorf("no image loader for %s", j.image)
			default:
				j.tex, err = texture.Generate(j.spec)
			}
			if err != nil {
				return fmt.Errorf("texture for %q: %w", j.name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := texture.NewTable()
	for _, j := range jobs {
		if err := table.Put(j.name, j.tex); err != nil {
			return nil, err
		}
	}
	return table, nil
}
