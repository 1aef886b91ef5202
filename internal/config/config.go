package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider   string `toml:"provider"`
	Model      string `toml:"model"`
	ImageModel string `toml:"image_model"`
	APIKey     string `toml:"api_key"`
	BaseURL    string `toml:"base_url"`
}

type ServerConfig struct {
	Port         string   `toml:"port"`
	Mode         string   `toml:"mode"`
	AllowOrigins []string `toml:"allow_origins"`
}

type ConcurrencyConfig struct {
	BulkFanout int `toml:"bulk_fanout"`
}

type GenerationConfig struct {
	PersonaVariations      int  `toml:"persona_variations"`
	CreativeCount          int  `toml:"creative_count"`
	RemixSuggestionCount   int  `toml:"remix_suggestion_count"`
	AllowVisualExploration bool `toml:"allow_visual_exploration"`
	RerankSuggestions      bool `toml:"rerank_suggestions"`
}

// Prompts are fmt templates for each generation operation. Placeholders are
// positional %s arguments documented per field; every field has a built-in
// default so the service runs without a config file.
type Prompts struct {
	Blueprint        string `toml:"blueprint"`
	Personas         string `toml:"personas"`
	PainDesires      string `toml:"pain_desires"`
	Objections       string `toml:"objections"`
	Offers           string `toml:"offers"`
	Angles           string `toml:"angles"`
	Triggers         string `toml:"triggers"`
	TriggerDetails   string `toml:"trigger_details"`
	Creatives        string `toml:"creatives"`
	Evolve           string `toml:"evolve"`
	Pivot            string `toml:"pivot"`
	RemixSuggestions string `toml:"remix_suggestions"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	Server      ServerConfig      `toml:"server"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Generation  GenerationConfig  `toml:"generation"`
	Prompts     Prompts           `toml:"prompts"`
}

// Load reads a TOML config and fills in defaults for anything unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	cfg.fill()
	return cfg, nil
}

// Default returns a runnable configuration with built-in prompts.
func Default() *Config {
	cfg := &Config{}
	cfg.fill()
	return cfg
}

// ApplyEnv overrides LLM settings from environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_IMAGE_MODEL"); v != "" {
		c.LLM.ImageModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
}

func (c *Config) fill() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
		c.LLM.Model = "gemini-2.5-flash"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "dev"
	}
	if len(c.Server.AllowOrigins) == 0 {
		c.Server.AllowOrigins = []string{"*"}
	}
	if c.Concurrency.BulkFanout <= 0 {
		c.Concurrency.BulkFanout = 4
	}
	if c.Generation.PersonaVariations <= 0 {
		c.Generation.PersonaVariations = 3
	}
	if c.Generation.CreativeCount <= 0 {
		c.Generation.CreativeCount = 3
	}
	if c.Generation.RemixSuggestionCount <= 0 {
		c.Generation.RemixSuggestionCount = 4
	}
	p := &c.Prompts
	def := func(field *string, fallback string) {
		if *field == "" {
			*field = fallback
		}
	}
	def(&p.Blueprint, defaultBlueprintPrompt)
	def(&p.Personas, defaultPersonasPrompt)
	def(&p.PainDesires, defaultPainDesiresPrompt)
	def(&p.Objections, defaultObjectionsPrompt)
	def(&p.Offers, defaultOffersPrompt)
	def(&p.Angles, defaultAnglesPrompt)
	def(&p.Triggers, defaultTriggersPrompt)
	def(&p.TriggerDetails, defaultTriggerDetailsPrompt)
	def(&p.Creatives, defaultCreativesPrompt)
	def(&p.Evolve, defaultEvolvePrompt)
	def(&p.Pivot, defaultPivotPrompt)
	def(&p.RemixSuggestions, defaultRemixPrompt)
}
