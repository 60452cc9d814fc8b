package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Carmen-Shannon/oxy-rt/engine/config"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Scene validates a scene file and prints how much of each scene buffer it fills.
func Scene(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	displaySceneUsage(ctx.App.Writer, cfg)
	return nil
}

func displaySceneUsage(w io.Writer, cfg *config.Config) {
	s := cfg.Scene
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Buffer", "Objects", "Capacity", "Usage"})
	row := func(name string, count, capacity int) []string {
		return []string{
			name,
			strconv.Itoa(count),
			strconv.Itoa(capacity),
			fmt.Sprintf("%.1f %%", 100*float64(count)/float64(capacity)),
		}
	}
	table.Append(row("spheres", len(s.Spheres), s.SphereCapacity))
	table.Append(row("triangles", s.TriangleCount(), s.TriangleCapacity))
	table.SetFooter([]string{"scene", s.Name, "", ""})
	table.Render()
}
