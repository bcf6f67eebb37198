package commands

import (
	"flag"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"solar-system/internal/camera"
	"solar-system/internal/scene"
)

// Viewer is what the console commands act on.
type Viewer struct {
	Scene *scene.Scene
	// Toggles are named viewer switches (fps, mem, stats, bloom, ...) flipped by show/hide.
	Toggles    map[string]*bool
	Screenshot func() error
	// Print receives command output.
	Print func(string)
}

// Install registers the viewer commands on r:
//
//	timescale <k>                set the simulation speed
//	seek [-rel] <t>              jump to (or by) simulation time t
//	pause                        toggle pause
//	camera <orbit|birdseye>      switch camera mode
//	show <name>, hide <name>     flip a viewer toggle
//	where <body>                 print a body's world position
//	screenshot                   save the current frame
//	help                         list commands
func Install(r *Registry, v Viewer) {
	out := v.Print
	if out == nil {
		out = func(string) {}
	}

	r.Register("timescale", "timescale <k>", nil, func(args []string) error {
		k, err := number(args)
		if err != nil {
			return err
		}
		if k < 0 {
			return fmt.Errorf("time scale %g must not be negative", k)
		}
		v.Scene.SetTimeScale(k)
		out(fmt.Sprintf("time scale %g", v.Scene.TimeScale()))
		return nil
	})

	seek := flag.NewFlagSet("seek", flag.ContinueOnError)
	rel := seek.Bool("rel", false, "relative to the current time")
	r.Register("seek", "seek [-rel] <t>", seek, func(args []string) error {
		t, err := number(args)
		if err != nil {
			return err
		}
		if *rel {
			t += v.Scene.Time()
		}
		v.Scene.Seek(t)
		out(fmt.Sprintf("t = %.3f", v.Scene.Time()))
		return nil
	})

	r.Register("pause", "pause", nil, func([]string) error {
		v.Scene.SetPaused(!v.Scene.Paused())
		if v.Scene.Paused() {
			out("paused")
		} else {
			out("running")
		}
		return nil
	})

	r.Register("camera", "camera <orbit|birdseye>", nil, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("want one of orbit, birdseye")
		}
		var want camera.Mode
		switch strings.ToLower(args[0]) {
		case "orbit":
			want = camera.ModeOrbit
		case "birdseye", "birds-eye":
			want = camera.ModeBirdsEye
		default:
			return fmt.Errorf("unknown camera mode %q", args[0])
		}
		cam := v.Scene.Camera()
		if cam.Mode() != want {
			cam.ToggleBirdsEye()
		}
		out("camera " + cam.Mode().String())
		return nil
	})

	toggle := func(on bool) func(args []string) error {
		return func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("want one of %s", strings.Join(names(v.Toggles), ", "))
			}
			p, ok := v.Toggles[args[0]]
			if !ok {
				return fmt.Errorf("no toggle %q", args[0])
			}
			*p = on
			return nil
		}
	}
	r.Register("show", "show <name>", nil, toggle(true))
	r.Register("hide", "hide <name>", nil, toggle(false))

	r.Register("where", "where <body>", nil, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("want a body name")
		}
		p, ok := v.Scene.Pose(args[0])
		if !ok {
			return fmt.Errorf("no body %q", args[0])
		}
		out(fmt.Sprintf("%s at (%.2f, %.2f, %.2f)", args[0], p.Position.X(), p.Position.Y(), p.Position.Z()))
		return nil
	})

	r.Register("screenshot", "screenshot", nil, func([]string) error {
		if v.Screenshot == nil {
			return fmt.Errorf("screenshots are not available")
		}
		return v.Screenshot()
	})

	r.Register("help", "help", nil, func([]string) error {
		for _, line := range r.Help() {
			out(line)
		}
		return nil
	})
}

func number(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("want one number")
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("%q is not a finite number", args[0])
	}
	return x, nil
}

func names(m map[string]*bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
