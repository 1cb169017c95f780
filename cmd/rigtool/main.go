// rigtool is a CLI utility for inspecting rig manifests and exercising the
// interaction controller without a window.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/avatar-rig/internal/config"
	"github.com/Faultbox/avatar-rig/internal/engine/animation"
	"github.com/Faultbox/avatar-rig/internal/engine/gesture"
	"github.com/Faultbox/avatar-rig/internal/engine/tracking"
	"github.com/Faultbox/avatar-rig/internal/game/avatar"
	"github.com/Faultbox/avatar-rig/internal/logger"
	"github.com/Faultbox/avatar-rig/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "validate", "check":
		cmdValidate(args)
	case "clips", "ls":
		cmdClips(args)
	case "simulate", "sim":
		cmdSimulate(args)
	case "degrees", "deg":
		cmdDegrees(args)
	case "init-config":
		cmdInitConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rigtool - rig manifest utility

Usage:
  rigtool <command> [options]

Commands:
  validate <rig.yaml>             Check the manifest and its gesture clips
  clips <rig.yaml>                List clips with durations and return delays
  simulate [options] <rig.yaml>   Run gesture cycles headless and print the timeline
  degrees [options] <x> <y>       Show neck and waist deflection for a pointer
  init-config [path]              Write the default config (default: user config dir)

Examples:
  rigtool validate assets/rigs/stacy.yaml
  rigtool simulate -triggers 3 -seed 7 assets/rigs/stacy.yaml
  rigtool degrees -w 1000 -h 800 750 200`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func loadRig(path string) *formats.Rig {
	rig, err := formats.LoadRig(path)
	if err != nil {
		fail("%v", err)
	}
	return rig
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fadeIn := fs.Float64("fade-in", gesture.DefaultFadeIn, "Crossfade into a gesture, seconds")
	fadeOut := fs.Float64("fade-out", gesture.DefaultFadeOut, "Crossfade back to idle, seconds")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rigtool validate [options] <rig.yaml>")
		os.Exit(1)
	}

	rig := loadRig(fs.Arg(0))

	// Building the avatar runs the same checks as startup.
	_, err := avatar.New(rig, avatar.Options{
		FadeIn:  float32(*fadeIn),
		FadeOut: float32(*fadeOut),
	})
	if err != nil {
		fail("%s: %v", fs.Arg(0), err)
	}

	fmt.Printf("%s: OK (%d joints, %d clips)\n", fs.Arg(0), len(rig.Joints), len(rig.Clips))
}

func cmdClips(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rigtool clips <rig.yaml>")
		os.Exit(1)
	}

	rig := loadRig(args[0])
	idle := rig.Idle
	if idle == "" {
		idle = avatar.DefaultIdleClip
	}
	margin := float32(gesture.DefaultFadeIn + gesture.DefaultFadeOut)

	fmt.Printf("Rig:    %s\n", rig.Name)
	fmt.Printf("Joints: %d\n", len(rig.Joints))
	fmt.Println()
	fmt.Printf("  %-14s %8s %-7s %6s  %s\n", "CLIP", "DURATION", "LOOP", "RETURN", "JOINTS")

	for i := range rig.Clips {
		c := animation.ClipFromRig(&rig.Clips[i])

		ret := "-"
		if c.Name != idle {
			if c.Duration < margin {
				ret = "short"
			} else {
				ret = fmt.Sprintf("%.2fs", c.Duration-margin)
			}
		}

		joints := make([]string, len(c.Tracks))
		for k, tr := range c.Tracks {
			joints[k] = tr.Joint
		}

		name := c.Name
		if name == idle {
			name += " *"
		}
		fmt.Printf("  %-14s %7.2fs %-7s %6s  %s\n", name, c.Duration, c.Loop, ret, strings.Join(joints, ","))
	}
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	fps := fs.Int("fps", 60, "Simulated frame rate")
	triggers := fs.Int("triggers", 3, "Number of triggers to send")
	every := fs.Float64("every", 0.5, "Seconds between triggers")
	duration := fs.Float64("duration", 0, "Seconds to simulate (0 = until the last cycle ends)")
	seed := fs.Uint64("seed", 1, "Gesture selection seed")
	verbose := fs.Bool("v", false, "Log controller events")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rigtool simulate [options] <rig.yaml>")
		os.Exit(1)
	}
	if *fps <= 0 {
		fail("fps must be positive")
	}

	log := zap.NewNop()
	if *verbose {
		if err := logger.Init("debug", ""); err != nil {
			fail("%v", err)
		}
		defer logger.Sync()
		log = logger.Log
	}

	rc := config.Default().Rig
	rc.Seed = *seed
	av, err := avatar.New(loadRig(fs.Arg(0)), avatar.OptionsFromConfig(rc, log))
	if err != nil {
		fail("%v", err)
	}

	tl := newTimeline(av)
	dt := float32(1) / float32(*fps)
	sent := 0
	nextTrigger := 0.0
	maxTime := *duration

	for frame := 0; ; frame++ {
		now := av.Time()
		if sent < *triggers && now >= nextTrigger {
			tl.trigger(now)
			sent++
			nextTrigger += *every
		}

		av.Update(dt)
		tl.observe(av.Time())

		if maxTime > 0 {
			if av.Time() >= maxTime {
				break
			}
		} else if sent == *triggers && !av.Interaction().Animating {
			break
		}
		if frame > *fps*3600 {
			fail("simulation did not settle")
		}
	}

	fmt.Println()
	fmt.Printf("triggers: %d  accepted: %d  dropped: %d  frames at %d fps\n",
		sent, av.Cycles(), sent-av.Cycles(), *fps)
}

// timeline prints state transitions of a simulated avatar.
type timeline struct {
	av    *avatar.Avatar
	state gesture.State
}

func newTimeline(av *avatar.Avatar) *timeline {
	fmt.Printf("%8s  %-22s %s\n", "TIME", "STATE", "EVENT")
	return &timeline{av: av, state: av.State()}
}

func (tl *timeline) trigger(now float64) {
	before := tl.av.Cycles()
	tl.av.OnInteractionTrigger()
	if tl.av.Cycles() > before {
		fmt.Printf("%7.3fs  %-22s trigger -> %s\n", now, tl.av.State(), tl.av.CurrentGesture())
	} else {
		fmt.Printf("%7.3fs  %-22s trigger dropped\n", now, tl.av.State())
	}
	tl.state = tl.av.State()
}

func (tl *timeline) observe(now float64) {
	if s := tl.av.State(); s != tl.state {
		fmt.Printf("%7.3fs  %-22s\n", now, s)
		tl.state = s
	}
}

func cmdDegrees(args []string) {
	fs := flag.NewFlagSet("degrees", flag.ExitOnError)
	w := fs.Float64("w", 1280, "Viewport width")
	h := fs.Float64("h", 720, "Viewport height")
	neck := fs.Float64("neck", avatar.DefaultNeckLimit, "Neck limit, degrees")
	waist := fs.Float64("waist", avatar.DefaultWaistLimit, "Waist limit, degrees")
	up := fs.Float64("up", tracking.DefaultUpScale, "Upward limit scale")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: rigtool degrees [options] <x> <y>")
		os.Exit(1)
	}

	var x, y float32
	if _, err := fmt.Sscan(fs.Arg(0), &x); err != nil {
		fail("bad x %q", fs.Arg(0))
	}
	if _, err := fmt.Sscan(fs.Arg(1), &y); err != nil {
		fail("bad y %q", fs.Arg(1))
	}

	p := tracking.Pointer{X: x, Y: y, ViewportW: float32(*w), ViewportH: float32(*h)}
	ndc := p.NDC()
	fmt.Printf("pointer (%.1f, %.1f) in %.0fx%.0f, ndc (%.3f, %.3f)\n", x, y, *w, *h, ndc.X, ndc.Y)

	for _, j := range []struct {
		name  string
		limit float64
	}{{"neck", *neck}, {"waist", *waist}} {
		dx, dy := tracking.Degrees(x, y, p.ViewportW, p.ViewportH, float32(j.limit), float32(*up))
		fmt.Printf("  %-6s yaw %+7.2f  pitch %+7.2f\n", j.name, dx, dy)
	}
}

func cmdInitConfig(args []string) {
	cfg := config.Default()

	if len(args) == 0 {
		if err := cfg.Save(); err != nil {
			fail("%v", err)
		}
		fmt.Printf("wrote %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
		return
	}

	if _, err := os.Stat(args[0]); err == nil {
		fail("%s already exists", args[0])
	}
	if err := cfg.SaveTo(args[0]); err != nil {
		fail("%v", err)
	}
	fmt.Printf("wrote %s\n", args[0])
}
