// Package cmd holds the CLI commands. Each command loads configuration,
// wires the controller, and runs one workflow.
package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/devassist/internal/config"
	"github.com/devassist/internal/groq"
	"github.com/devassist/internal/ingest"
	"github.com/devassist/internal/workflow"
)

// loadConfig reads the config file named by the global --config flag and
// applies command-line overrides for the API key and model.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if key := c.String("api-key"); key != "" {
		cfg.Groq.APIKey = key
	}
	if model := c.String("model"); model != "" {
		cfg.Groq.Model = model
	}
	return cfg, nil
}

// newClientFactory builds Groq clients bound to the configured endpoint.
func newClientFactory(cfg *config.Config) func(apiKey string) *groq.Client {
	return func(apiKey string) *groq.Client {
		return groq.NewClient(apiKey,
			groq.WithBaseURL(cfg.Groq.BaseURL),
			groq.WithTemperature(cfg.Groq.Temperature),
			groq.WithMaxTokens(cfg.Groq.MaxTokens),
			groq.WithRequestsPerMinute(cfg.Groq.RequestsPerMinute),
		)
	}
}

// buildController assembles the workflow controller from configuration.
func buildController(cfg *config.Config) *workflow.Controller {
	newClient := newClientFactory(cfg)

	ingester := ingest.NewService(ingest.Options{
		ExcludePatterns: cfg.Ingest.ExcludePatterns,
		CloneDepth:      cfg.Ingest.CloneDepth,
		DigesterBin:     cfg.Ingest.DigesterBin,
	})

	return workflow.NewController(
		func(apiKey string) workflow.LLM { return newClient(apiKey) },
		ingester,
		workflow.Options{
			TokenThreshold: cfg.Analysis.TokenThreshold,
			ChunkTokens:    cfg.Analysis.ChunkTokens,
			RedactSecrets:  cfg.Redact.Enabled,
		},
	)
}

// apiKeyFlag and modelFlag are shared by every workflow command.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Groq API key",
			EnvVars: []string{"GROQ_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Model ID to use",
		},
	}
}
