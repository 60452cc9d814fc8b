package main

import (
	"os"
	"runtime"

	"github.com/urfave/cli"
)

// GLFW requires every window call to come from the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	// -v is the verbosity flag, so the built-in version flag keeps only its long name
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}

	app := cli.NewApp()
	app.Name = "oxyrt"
	app.Usage = "interactive GPU raytracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	configFlag := cli.StringFlag{
		Name:  "config, c",
		Usage: "YAML scene and settings file; the demo scene is used when omitted",
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "open a window and raytrace the scene",
			Description: `
Fly with W/A/S/D, Space and Left Shift; look around with the arrow keys.
Escape closes the window.`,
			Flags: []cli.Flag{
				configFlag,
				cli.IntFlag{
					Name:  "width",
					Usage: "window width (overrides the config file)",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "window height (overrides the config file)",
				},
				cli.BoolFlag{
					Name:  "uncapped",
					Usage: "present without vsync",
				},
				cli.Float64Flag{
					Name:  "frame-limit",
					Usage: "cap the render loop at this many frames per second",
				},
				cli.BoolFlag{
					Name:  "profile",
					Usage: "log frame rate and memory statistics every second",
				},
				cli.BoolFlag{
					Name:  "software",
					Usage: "force the fallback (software) GPU adapter",
				},
			},
			Action: Render,
		},
		{
			Name:   "layout",
			Usage:  "validate and print the GPU record layouts against the raytrace shader",
			Action: Layout,
		},
		{
			Name:   "scene",
			Usage:  "validate a scene file and print its buffer usage",
			Flags:  []cli.Flag{configFlag},
			Action: Scene,
		},
	}
	return app
}
