// Package main is the entry point for the interactive avatar viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/avatar-rig/internal/assets"
	"github.com/Faultbox/avatar-rig/internal/config"
	"github.com/Faultbox/avatar-rig/internal/engine/camera"
	"github.com/Faultbox/avatar-rig/internal/game"
	"github.com/Faultbox/avatar-rig/internal/game/avatar"
	"github.com/Faultbox/avatar-rig/internal/logger"
	"github.com/Faultbox/avatar-rig/pkg/math"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Avatar ===")
	logger.Debug("config", zap.Any("config", cfg))

	am := assets.NewManager(cfg.Assets.Roots...)
	defer am.Close()

	rig, err := am.LoadRig(cfg.Rig.Manifest)
	if err != nil {
		logger.Fatal("failed to load rig", zap.String("manifest", cfg.Rig.Manifest), zap.Error(err))
	}

	av, err := avatar.New(rig, avatar.OptionsFromConfig(cfg.Rig, logger.Log))
	if err != nil {
		logger.Fatal("failed to create avatar", zap.Error(err))
	}

	g, err := game.New(sceneConfig(cfg), av, logger.Log)
	if err != nil {
		logger.Error("failed to create game", zap.Error(err))
		os.Exit(1)
	}
	defer g.Close()

	if err := g.Run(); err != nil {
		logger.Error("game error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("closed normally", zap.Int("gestures", av.Cycles()))
}

func sceneConfig(cfg *config.Config) game.Config {
	return game.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Camera: camera.Camera{
			Position: math.V3(cfg.Camera.Position),
			Target:   math.V3(cfg.Camera.Target),
			FovY:     cfg.Camera.FOV,
			Near:     cfg.Camera.Near,
			Far:      cfg.Camera.Far,
		},
		ModelOffset: math.V3(cfg.Camera.ModelOffset),
		ModelScale:  cfg.Camera.ModelScale,
		ShowBounds:  cfg.Window.ShowBounds,
		Tracked:     []string{cfg.Rig.NeckJoint, cfg.Rig.WaistJoint},
	}
}
