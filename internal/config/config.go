package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the application configuration
type Config struct {
	Groq struct {
		APIKey            string  `koanf:"api_key"`
		BaseURL           string  `koanf:"base_url"`
		Model             string  `koanf:"model"`
		Temperature       float64 `koanf:"temperature"`
		MaxTokens         int     `koanf:"max_tokens"`
		RequestsPerMinute int     `koanf:"requests_per_minute"`
	} `koanf:"groq"`

	Server struct {
		Port int `koanf:"port"`
	} `koanf:"server"`

	Ingest struct {
		ExcludePatterns []string `koanf:"exclude_patterns"`
		CloneDepth      int      `koanf:"clone_depth"`
		DigesterBin     string   `koanf:"digester_bin"`
	} `koanf:"ingest"`

	Analysis struct {
		TokenThreshold int `koanf:"token_threshold"`
		ChunkTokens    int `koanf:"chunk_tokens"`
	} `koanf:"analysis"`

	Redact struct {
		Enabled bool `koanf:"enabled"`
	} `koanf:"redact"`
}

// DefaultExcludePatterns lists files skipped during digestion. Lockfiles and
// binary assets inflate the token count without helping the analysis.
var DefaultExcludePatterns = []string{
	"uv.lock", "poetry.lock", "package-lock.json", "yarn.lock",
	"*.docx", "*.pdf", "*.xlsx", "*.pptx",
	"*.bin", "*.exe", "*.zip", "*.tar.gz",
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.svg",
	"*.woff", "*.woff2", "*.ttf", "*.eot",
}

// LoadConfig loads the configuration from a file
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	// Set up default configuration
	k.Load(confmap.Provider(map[string]interface{}{
		"groq.base_url":            "https://api.groq.com/openai/v1",
		"groq.model":               "openai/gpt-oss-120b",
		"groq.temperature":         0.3,
		"groq.max_tokens":          8192,
		"groq.requests_per_minute": 0,
		"server.port":              8765,
		"ingest.clone_depth":       1,
		"ingest.digester_bin":      "gitingest",
		"analysis.token_threshold": 6000,
		"analysis.chunk_tokens":    6000,
		"redact.enabled":           true,
	}, "."), nil)

	// Load from TOML file if it exists
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		// Try to load from default locations
		defaultPaths := []string{"./devassist.toml", "$HOME/.devassist.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// Load from environment variables with prefix DEVASSIST_
	k.Load(env.Provider("DEVASSIST_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "DEVASSIST_")), "_", ".", 1)
	}), nil)

	// Unmarshal into Config struct
	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if len(config.Ingest.ExcludePatterns) == 0 {
		config.Ingest.ExcludePatterns = DefaultExcludePatterns
	}

	return &config, nil
}

// InitConfig initializes a new configuration file
func InitConfig(configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# devassist configuration

[groq]
api_key = "your-groq-api-key"
model = "openai/gpt-oss-120b"
temperature = 0.3
max_tokens = 8192

[server]
port = 8765

[analysis]
token_threshold = 6000
chunk_tokens = 6000

[redact]
enabled = true
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate validates the configuration
func Validate(config *Config) error {
	if config.Groq.APIKey == "" {
		return fmt.Errorf("groq api_key is required")
	}

	if config.Groq.Model == "" {
		return fmt.Errorf("groq model is required")
	}

	if config.Analysis.ChunkTokens <= 0 {
		return fmt.Errorf("analysis chunk_tokens must be positive")
	}

	return nil
}
