package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devassist/internal/api"
)

// ServeCommand returns the CLI command for starting the API server
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the devassist API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the API server",
				Value:   0,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			port := c.Int("port")
			if port == 0 {
				port = cfg.Server.Port
			}
			fmt.Printf("Starting devassist API server on port %d...\n", port)

			server := api.NewServer(port, buildController(cfg), newClientFactory(cfg))
			return server.Start()
		},
	}
}
