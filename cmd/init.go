package main

import (
	"context"
	"os"

	"github.com/desertthunder/glance/internal/shared"
	"github.com/urfave/cli/v3"
)

func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a config.toml from the embedded template",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Init,
	}
}

// Init scaffolds a configuration file for a new deployment.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Warn("config file already exists", "path", configPath)
		return r.writePlain("Config already exists at %s\n", configPath)
	}

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	if err := r.writePlain("✓ Created %s\n", configPath); err != nil {
		return err
	}
	return r.writePlain("Fill in your Spotify client credentials, then run 'glance serve'\n")
}
