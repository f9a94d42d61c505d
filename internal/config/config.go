package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Auth modes accepted by the backend section
const (
	AuthModeSDK    = "boto3"
	AuthModeBearer = "bearer"
)

// Config holds the application configuration
type Config struct {
	Backend BackendConfig     `json:"backend"`
	Storage StorageConfig     `json:"storage"`
	Compose ComposeConfig     `json:"compose"`
	Server  ServerConfig      `json:"server"`
	Azure   AzureConfig       `json:"azure"`
	Models  map[string]string `json:"models"`
}

// BackendConfig selects and configures the Bedrock transport
type BackendConfig struct {
	AuthMode    string `json:"auth_mode"`
	Region      string `json:"region"`
	BearerToken string `json:"-"`
	Endpoint    string `json:"endpoint"`
}

// StorageConfig holds configuration for generated output
type StorageConfig struct {
	Directory    string `json:"directory"`
	SaveMetadata bool   `json:"save_metadata"`
}

// ComposeConfig holds defaults for branded composition
type ComposeConfig struct {
	LogoScale   float64 `json:"logo_scale"`
	LogoVariant string  `json:"logo_variant"`
}

// ServerConfig holds configuration for the HTTP dispatch server
type ServerConfig struct {
	Addr     string `json:"addr"`
	LogLevel string `json:"log_level"`
}

// AzureConfig enables azblob:// sources when both fields are set
type AzureConfig struct {
	AccountName string `json:"account_name"`
	AccountKey  string `json:"-"`
}

// Enabled reports whether Azure blob sources can be resolved
func (a AzureConfig) Enabled() bool {
	return a.AccountName != "" && a.AccountKey != ""
}

// DefaultModels maps short model names to Stability AI model IDs on Bedrock
func DefaultModels() map[string]string {
	return map[string]string{
		"ultra":             "stability.stable-image-ultra-v1:1",
		"core":              "stability.stable-image-core-v1:1",
		"sd35":              "stability.sd3-5-large-v1:0",
		"remove_background": "stability.stable-image-remove-background-v1:0",
		"style_transfer":    "stability.stable-style-transfer-v1:0",
		"recolor":           "stability.stable-image-search-recolor-v1:0",
		"outpaint":          "stability.stable-image-outpaint-v1:0",
		"upscale_fast":      "stability.stable-fast-upscale-v1:0",
		"upscale_creative":  "stability.stable-creative-upscale-v1:0",
		"structure":         "stability.stable-image-control-structure-v1:0",
		"search_replace":    "stability.stable-image-search-replace-v1:0",
	}
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			AuthMode: AuthModeSDK,
			Region:   "us-west-2",
		},
		Storage: StorageConfig{
			Directory:    "/tmp/mcp-server-bedrock-image",
			SaveMetadata: true,
		},
		Compose: ComposeConfig{
			LogoScale:   0.08,
			LogoVariant: "auto",
		},
		Server: ServerConfig{
			Addr:     "127.0.0.1:8080",
			LogLevel: "info",
		},
		Models: DefaultModels(),
	}
}

// Load returns the defaults, overlaid with the JSON file at path (if non-empty) and then the environment
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a JSON file on top of the defaults
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Keep built-in model IDs for names the file does not override
	for name, id := range DefaultModels() {
		if _, ok := config.Models[name]; !ok {
			if config.Models == nil {
				config.Models = map[string]string{}
			}
			config.Models[name] = id
		}
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file. Secrets are never written.
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from the process environment
func (c *Config) ApplyEnv() {
	c.Backend.Region = getEnvOrDefault("AWS_REGION", c.Backend.Region)
	c.Backend.AuthMode = strings.ToLower(getEnvOrDefault("BEDROCK_AUTH_MODE", c.Backend.AuthMode))
	if c.Backend.AuthMode == "sdk" {
		c.Backend.AuthMode = AuthModeSDK
	}
	c.Backend.BearerToken = getEnvOrDefault("AWS_BEARER_TOKEN_BEDROCK", c.Backend.BearerToken)
	c.Backend.Endpoint = getEnvOrDefault("BEDROCK_ENDPOINT", c.Backend.Endpoint)
	if c.Backend.Endpoint == "" {
		c.Backend.Endpoint = fmt.Sprintf("https://bedrock-runtime.%s.amazonaws.com", c.Backend.Region)
	}

	c.Storage.Directory = getEnvOrDefault("IMAGE_STORAGE_DIRECTORY", c.Storage.Directory)
	c.Storage.SaveMetadata = parseBoolOrDefault("SAVE_METADATA", c.Storage.SaveMetadata)

	c.Server.Addr = getEnvOrDefault("HTTP_ADDR", c.Server.Addr)
	c.Server.LogLevel = getEnvOrDefault("LOG_LEVEL", c.Server.LogLevel)

	c.Azure.AccountName = getEnvOrDefault("AZURE_STORAGE_ACCOUNT", c.Azure.AccountName)
	c.Azure.AccountKey = getEnvOrDefault("AZURE_STORAGE_KEY", c.Azure.AccountKey)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Backend.AuthMode {
	case AuthModeSDK, AuthModeBearer:
	default:
		return fmt.Errorf("backend.auth_mode must be %q or %q, got %q", AuthModeSDK, AuthModeBearer, c.Backend.AuthMode)
	}

	if c.Backend.Region == "" {
		return fmt.Errorf("backend.region cannot be empty")
	}

	if c.Storage.Directory == "" {
		return fmt.Errorf("storage.directory cannot be empty")
	}

	if c.Compose.LogoScale <= 0 || c.Compose.LogoScale > 1 {
		return fmt.Errorf("compose.logo_scale must be in (0, 1]")
	}

	switch c.Compose.LogoVariant {
	case "auto", "light", "dark":
	default:
		return fmt.Errorf("compose.logo_variant must be auto, light or dark")
	}

	if len(c.Models) == 0 {
		return fmt.Errorf("models cannot be empty")
	}

	return nil
}

// ModelID resolves a short model name, returning an error for unknown names
func (c *Config) ModelID(name string) (string, error) {
	id, ok := c.Models[name]
	if !ok || id == "" {
		return "", fmt.Errorf("unknown model %q", name)
	}
	return id, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "bedrock-image", "config.json")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
