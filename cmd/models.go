package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// ModelsCommand returns the model-listing command
func ModelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "List text-generation models available for the API key",
		Flags: commonFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Groq.APIKey == "" {
				return fmt.Errorf("an API key is required (flag --api-key or GROQ_API_KEY)")
			}

			models, err := newClientFactory(cfg)(cfg.Groq.APIKey).ListModels(c.Context)
			if err != nil {
				return err
			}

			for _, m := range models {
				fmt.Println(m)
			}
			return nil
		},
	}
}
