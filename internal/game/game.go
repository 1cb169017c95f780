// Package game implements the frame loop that drives the character.
package game

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/avatar-rig/internal/engine/camera"
	"github.com/Faultbox/avatar-rig/internal/engine/input"
	"github.com/Faultbox/avatar-rig/internal/engine/picking"
	"github.com/Faultbox/avatar-rig/internal/engine/window"
	"github.com/Faultbox/avatar-rig/internal/game/avatar"
	"github.com/Faultbox/avatar-rig/internal/game/dispatch"
	"github.com/Faultbox/avatar-rig/pkg/math"
)

// Frame deltas above this are clamped so a stall does not skip a whole
// gesture.
const maxFrameDelta = 0.1

var (
	colorBackground = window.Color{R: 0xf1, G: 0xf1, B: 0xf1, A: 0xff}
	colorBone       = window.Color{R: 0x35, G: 0x35, B: 0x35, A: 0xff}
	colorJoint      = window.Color{R: 0x53, G: 0x19, B: 0x0d, A: 0xff}
	colorTracked    = window.Color{R: 0xd9, G: 0x4f, B: 0x2b, A: 0xff}
	colorBounds     = window.Color{R: 0x9a, G: 0x9a, B: 0x9a, A: 0xff}
)

// Config holds game configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool

	Camera      camera.Camera
	ModelOffset math.Vec3 // Character position in the world
	ModelScale  float32

	ShowBounds bool
	Tracked    []string // Joints highlighted in the debug view
}

// ModelMatrix places the character in the world.
func (c Config) ModelMatrix() math.Mat4 {
	s := c.ModelScale
	if s == 0 {
		s = 1
	}
	return math.Translate(c.ModelOffset).Mul(math.Scale(s))
}

// Game is the running application.
type Game struct {
	config  Config
	log     *zap.Logger
	running bool

	window     *window.Window
	input      *input.Input
	avatar     *avatar.Avatar
	dispatcher *dispatch.Dispatcher
	hit        *picking.CharacterHitTester
	model      math.Mat4
}

// New opens the window and wires input to av.
func New(cfg Config, av *avatar.Avatar, log *zap.Logger) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("game")
	log.Info("initializing",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)

	g := &Game{
		config: cfg,
		log:    log,
		avatar: av,
		model:  cfg.ModelMatrix(),
	}

	var err error
	g.window, err = window.New(window.Config{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Fullscreen: cfg.Fullscreen,
		VSync:      cfg.VSync,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	bounds := av.Rig().Bounds
	g.hit = &picking.CharacterHitTester{
		Bounds: picking.NewAABB(math.V3(bounds.Min), math.V3(bounds.Max)),
		Model:  g.model,
		Camera: cfg.Camera,
	}
	g.dispatcher = &dispatch.Dispatcher{
		Target:    av,
		HitTester: g.hit,
		Logger:    log,
	}
	g.input = input.New()

	log.Info("initialized")
	return g, nil
}

// Run starts the frame loop. It returns when the window is closed or
// Escape is pressed.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting frame loop")

	for g.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now
		if dt > maxFrameDelta {
			dt = maxFrameDelta
		}

		if g.input.Update() {
			g.running = false
			break
		}

		w, h := g.window.GetSize()
		for _, event := range g.input.Events() {
			switch event.Type {
			case input.EventWindowResize:
				w, h = event.Width, event.Height
			case input.EventKeyDown:
				if event.Key == sdl.SCANCODE_ESCAPE {
					g.running = false
				}
			}
		}
		g.dispatcher.HandleAll(g.input.Events(), w, h)

		g.avatar.Update(float32(dt))

		g.render(w, h)
		g.window.Present()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.window.SetTitle(fmt.Sprintf("%s | %s | %d fps", g.config.Title, g.avatar.State(), frameCount))
			g.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
				zap.Stringer("state", g.avatar.State()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cleans up game resources.
func (g *Game) Close() {
	g.log.Info("closing")
	if g.window != nil {
		g.window.Close()
	}
}

// render draws the posed skeleton. Projection is done in window
// coordinates and scaled to output pixels.
func (g *Game) render(w, h int) {
	g.window.Clear(colorBackground)

	viewProj := g.config.Camera.ViewProj(w, h)
	scale := g.window.OutputScale()

	if g.config.ShowBounds {
		for _, s := range BoundsOutline(g.hit.Bounds, g.model, viewProj, w, h) {
			g.window.DrawLine(s.X1*scale, s.Y1*scale, s.X2*scale, s.Y2*scale, colorBounds)
		}
	}

	view := ProjectSkeleton(g.avatar.Skeleton(), g.model, viewProj, w, h)
	for _, s := range view.Bones {
		g.window.DrawLine(s.X1*scale, s.Y1*scale, s.X2*scale, s.Y2*scale, colorBone)
	}
	for _, j := range view.Joints {
		c := colorJoint
		if g.tracked(j.Name) {
			c = colorTracked
		}
		g.window.FillSquare(j.X*scale, j.Y*scale, 6*scale, c)
	}
}

func (g *Game) tracked(name string) bool {
	for _, t := range g.config.Tracked {
		if t == name {
			return true
		}
	}
	return false
}
