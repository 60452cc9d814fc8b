package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rt/engine/raytracer"
	"github.com/Carmen-Shannon/oxy-rt/engine/raytracing"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/scene_buffer"
	"github.com/urfave/cli"
)

// Layout checks every GPU record against the embedded raytrace shader and prints the layouts.
func Layout(ctx *cli.Context) error {
	setupLogging(ctx)

	layouts := raytracing.Layouts()
	for _, l := range layouts {
		if err := l.Validate(); err != nil {
			return err
		}
	}

	_, fs, err := raytracer.Shaders()
	if err != nil {
		return err
	}
	checks := []struct {
		layout     raytracing.RecordLayout
		storageVar string
	}{
		{raytracing.GPUSphere{}.Layout(), raytracer.SphereBinding.StorageVar},
		{raytracing.GPUTriangle{}.Layout(), raytracer.TriangleBinding.StorageVar},
	}
	for _, c := range checks {
		binding, ok := fs.Binding(c.storageVar)
		if !ok {
			return fmt.Errorf("%w: %s", scene_buffer.ErrStorageBlockNotFound, c.storageVar)
		}
		if err := scene_buffer.CheckLayout(c.layout, binding, fs); err != nil {
			return err
		}
	}

	raytracing.LayoutTable(ctx.App.Writer, layouts...)
	logger.Info("all record layouts match the raytrace shader")
	return nil
}
