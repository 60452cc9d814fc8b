package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rt/engine"
	"github.com/Carmen-Shannon/oxy-rt/engine/config"
	"github.com/Carmen-Shannon/oxy-rt/engine/raytracer"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rt/engine/window"
	"github.com/urfave/cli"
)

// Render opens the window and runs the engine until the window closes or the render worker fails.
func Render(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := applyRenderFlags(ctx, cfg); err != nil {
		return err
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	presentMode := renderer.PresentModeVSync
	if !cfg.Window.VSync {
		presentMode = renderer.PresentModeUncapped
	}

	handler := raytracer.NewHandler(win, cfg.NewScene(),
		raytracer.WithCamera(cfg.NewCamera()),
		raytracer.WithController(cfg.NewController()),
		raytracer.WithSettings(cfg.Settings()),
		raytracer.WithCapacity(cfg.Scene.SphereCapacity, cfg.Scene.TriangleCapacity),
		raytracer.WithRendererOptions(
			renderer.WithPresentMode(presentMode),
			renderer.WithForceSoftwareRenderer(ctx.Bool("software")),
		),
	)

	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithFrameHandler(handler),
		engine.WithProfiling(ctx.Bool("profile")),
		engine.WithRenderFrameLimit(cfg.Window.FrameLimit),
	)
	logger.Noticef("rendering scene %q as session %s", cfg.Scene.Name, e.SessionID())
	return e.Run()
}

// applyRenderFlags overrides config values with the flags that were set, then revalidates.
func applyRenderFlags(ctx *cli.Context, cfg *config.Config) error {
	if ctx.IsSet("width") {
		cfg.Window.Width = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		cfg.Window.Height = ctx.Int("height")
	}
	if ctx.Bool("uncapped") {
		cfg.Window.VSync = false
	}
	if ctx.IsSet("frame-limit") {
		cfg.Window.FrameLimit = ctx.Float64("frame-limit")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("after applying flags: %w", err)
	}
	return nil
}
