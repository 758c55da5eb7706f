package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devassist/cmd"
	"github.com/devassist/internal/logging"
)

const (
	version = "0.1.0"
)

func main() {
	app := &cli.App{
		Name:    "devassist",
		Usage:   "AI-powered code audit, review, and MR description tool",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			logging.Setup(c.Bool("verbose"))
			return nil
		},
		Commands: []*cli.Command{
			cmd.AuditCommand(),
			cmd.ReviewCommand(),
			cmd.MRCommand(),
			cmd.ModelsCommand(),
			cmd.ServeCommand(),
			cmd.ConfigCommand(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
