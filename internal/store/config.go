package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Ledger struct {
		SheetName    string            `yaml:"sheet_name"`
		HeaderRow    int               `yaml:"header_row"`
		FirstDataRow int               `yaml:"first_data_row"`
		Columns      map[string]string `yaml:"columns"`
	} `yaml:"ledger"`
	LLM struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`
	Search struct {
		Endpoint   string   `yaml:"endpoint"`
		Depth      string   `yaml:"depth"`
		MaxResults int      `yaml:"max_results"`
		Triggers   []string `yaml:"triggers"`
	} `yaml:"search"`
	History struct {
		Capacity int `yaml:"capacity"`
	} `yaml:"history"`
}

func (c *Config) Validate() error {
	if c.Ledger.SheetName == "" {
		return errors.New("ledger.sheet_name cannot be empty")
	}
	if c.Ledger.HeaderRow < 1 {
		return fmt.Errorf("ledger.header_row must be >= 1, got %d", c.Ledger.HeaderRow)
	}
	if c.Ledger.FirstDataRow <= c.Ledger.HeaderRow {
		return fmt.Errorf("ledger.first_data_row must be greater than ledger.header_row, got %d", c.Ledger.FirstDataRow)
	}
	if len(c.Ledger.Columns) == 0 {
		return errors.New("ledger.columns cannot be empty")
	}
	switch c.LLM.Provider {
	case "OPENAI", "CLAUDE", "NOOP":
	default:
		return fmt.Errorf("invalid llm.provider '%s': must be 'OPENAI', 'CLAUDE', or 'NOOP'", c.LLM.Provider)
	}
	if c.History.Capacity < 1 {
		return fmt.Errorf("history.capacity must be >= 1, got %d", c.History.Capacity)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Ledger.HeaderRow == 0 {
		c.Ledger.HeaderRow = 1
	}
	if c.Ledger.FirstDataRow == 0 {
		c.Ledger.FirstDataRow = c.Ledger.HeaderRow + 1
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "OPENAI"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 700
	}
	if c.Search.Endpoint == "" {
		c.Search.Endpoint = "https://api.tavily.com/search"
	}
	if c.Search.Depth == "" {
		c.Search.Depth = "basic"
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 5
	}
	if c.History.Capacity == 0 {
		c.History.Capacity = 20
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
