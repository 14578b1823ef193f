package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	TmpDir    string `yaml:"tmp_dir"`
	MemoryDir string `yaml:"memory_dir"`

	Fetch struct {
		MaxAttempts   int     `yaml:"max_attempts"`
		RetryDelaySec float64 `yaml:"retry_delay_sec"`
		TimeoutSec    float64 `yaml:"timeout_sec"`
		TickerDelayMs int     `yaml:"ticker_delay_ms"`
		NewsHoursBack int     `yaml:"news_hours_back"`
	} `yaml:"fetch"`

	SMTP struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"smtp"`

	LLM struct {
		Model     string `yaml:"model"`
		MaxTokens int    `yaml:"max_tokens"`
	} `yaml:"llm"`
}

// Secrets is the explicit credential object built once at process entry
// from the environment (after godotenv.Load) and passed by reference to
// every component constructor. A blank field means "source unavailable"
// and the owning component degrades rather than erroring.
type Secrets struct {
	NewsAPIKey    string
	FinnhubKey    string
	PolygonKey    string
	GNewsKey      string
	AnthropicKey  string
	EmailFrom     string
	EmailTo       string
	EmailPassword string
	RecipientName string
}

// SecretsFromEnv snapshots the environment. Callers should have run
// godotenv.Load() first.
func SecretsFromEnv() *Secrets {
	s := &Secrets{
		NewsAPIKey:    os.Getenv("NEWSAPI_KEY"),
		FinnhubKey:    os.Getenv("FINNHUB_API_KEY"),
		PolygonKey:    os.Getenv("POLYGON_API_KEY"),
		GNewsKey:      os.Getenv("GNEWS_API_KEY"),
		AnthropicKey:  os.Getenv("ANTHROPIC_API_KEY"),
		EmailFrom:     os.Getenv("EMAIL_FROM"),
		EmailTo:       os.Getenv("EMAIL_TO"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		RecipientName: os.Getenv("RECIPIENT_NAME"),
	}
	if s.RecipientName == "" {
		s.RecipientName = "Investor"
	}
	return s
}

func (c *Config) Validate() error {
	if c.Fetch.MaxAttempts < 1 {
		return fmt.Errorf("fetch.max_attempts must be >= 1, got %d", c.Fetch.MaxAttempts)
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("smtp.port out of range: %d", c.SMTP.Port)
	}
	return nil
}

func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Fetch.RetryDelaySec * float64(time.Second))
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSec * float64(time.Second))
}

func (c *Config) TickerDelay() time.Duration {
	return time.Duration(c.Fetch.TickerDelayMs) * time.Millisecond
}

// LoadConfig reads config.yaml if present; a missing file yields a fully
// defaulted config so the pipeline runs with only env credentials set.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err == nil {
		if uerr := yaml.Unmarshal(b, &c); uerr != nil {
			return nil, uerr
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	if c.TmpDir == "" {
		c.TmpDir = ".tmp"
	}
	if c.MemoryDir == "" {
		c.MemoryDir = "memory"
	}
	if c.Fetch.MaxAttempts == 0 {
		c.Fetch.MaxAttempts = 3
	}
	if c.Fetch.RetryDelaySec == 0 {
		c.Fetch.RetryDelaySec = 2
	}
	if c.Fetch.TimeoutSec == 0 {
		c.Fetch.TimeoutSec = 10
	}
	if c.Fetch.TickerDelayMs == 0 {
		c.Fetch.TickerDelayMs = 500
	}
	if c.Fetch.NewsHoursBack == 0 {
		c.Fetch.NewsHoursBack = 24
	}
	if c.SMTP.Host == "" {
		c.SMTP.Host = "smtp.gmail.com"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "claude-sonnet-4-5"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 8192
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
