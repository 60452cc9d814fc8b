package main

import (
	"github.com/Carmen-Shannon/oxy-rt/engine/config"
	"github.com/Carmen-Shannon/oxy-rt/engine/log"
	"github.com/urfave/cli"
)

var logger = log.New("oxyrt")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}

// loadConfig reads the --config file, or returns the defaults when none was given.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.String("config")
	if path == "" {
		logger.Info("no config file given, using the demo scene")
		return config.Default(), nil
	}
	return config.Load(path)
}
