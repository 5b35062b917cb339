package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the hub configuration.
type Config struct {
	ListenAddr   string `yaml:"listen_addr" json:"listen_addr"`
	HTTPAddr     string `yaml:"http_addr" json:"http_addr"`
	ReadBuffer   int    `yaml:"read_buffer" json:"read_buffer"`
	LogLevel     string `yaml:"log_level" json:"log_level"`
	LogFormat    string `yaml:"log_format" json:"log_format"`
	MCP          bool   `yaml:"mcp" json:"mcp"`
	MDNS         bool   `yaml:"mdns" json:"mdns"`
	MDNSInstance string `yaml:"mdns_instance" json:"mdns_instance"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		ListenAddr:   "0.0.0.0:5555",
		ReadBuffer:   1024,
		LogLevel:     "debug",
		LogFormat:    "json",
		MDNSInstance: "smdp-hub",
	}
}

// Load reads the configuration from the given YAML file path.
// If path is empty or the file does not exist, it returns Default with no error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.ReadBuffer <= 0 {
		return fmt.Errorf("read_buffer must be positive, got %d", c.ReadBuffer)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text, got %q", c.LogFormat)
	}
	return nil
}
