package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

// GenerationConfig only affects the generative model's sampling.
// Zero values leave the provider default in place.
type GenerationConfig struct {
	Temperature     float32 `toml:"temperature" json:"temperature"`
	TopP            float32 `toml:"top_p" json:"top_p"`
	TopK            int32   `toml:"top_k" json:"top_k"`
	MaxOutputTokens int32   `toml:"max_output_tokens" json:"max_output_tokens"`
}

type SearchConfig struct {
	APIKey   string `toml:"api_key"`
	EngineID string `toml:"engine_id"`
	PageSize int64  `toml:"page_size"`
	// Endpoint overrides the Custom Search base URL.
	Endpoint string `toml:"endpoint"`
}

type FetchConfig struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxChars       int    `toml:"max_chars"`
	UserAgent      string `toml:"user_agent"`
	// CacheSize is the number of pages the server keeps across runs.
	CacheSize int `toml:"cache_size"`
}

type TaggerConfig struct {
	// Provider is "http" for an NER service or "llm" to label entities with the generative model.
	Provider       string `toml:"provider"`
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	BatchSentences int    `toml:"batch_sentences"`
}

type ClassifierConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	WindowSize     int    `toml:"window_size"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type PromptConfig struct {
	Generative string `toml:"generative"`
	Tagger     string `toml:"tagger"`
}

type ServerConfig struct {
	Port    string `toml:"port"`
	LogFile string `toml:"log_file"`
}

type Config struct {
	LLM        LLMConfig        `toml:"llm"`
	Generation GenerationConfig `toml:"generation"`
	Search     SearchConfig     `toml:"search"`
	Fetch      FetchConfig      `toml:"fetch"`
	Tagger     TaggerConfig     `toml:"tagger"`
	Classifier ClassifierConfig `toml:"classifier"`
	Memgraph   MemgraphConfig   `toml:"memgraph"`
	Prompts    PromptConfig     `toml:"prompts"`
	Server     ServerConfig     `toml:"server"`
}

// Default returns the configuration used when no file overrides a value.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
		},
		Generation: GenerationConfig{
			Temperature:     0.9,
			TopP:            1,
			TopK:            1,
			MaxOutputTokens: 2048,
		},
		Search: SearchConfig{PageSize: 10},
		Fetch: FetchConfig{
			TimeoutSeconds: 20,
			MaxChars:       10000,
			UserAgent:      "ise/1.0",
			CacheSize:      256,
		},
		Tagger: TaggerConfig{
			Provider:       "http",
			URL:            "http://localhost:8090/annotate",
			TimeoutSeconds: 60,
			BatchSentences: 20,
		},
		Classifier: ClassifierConfig{
			URL:            "http://localhost:8091/predict",
			TimeoutSeconds: 120,
			WindowSize:     40,
		},
		Server: ServerConfig{Port: "8080"},
	}
}

// Load reads a TOML file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to Default otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// ApplyEnv overrides file values with environment variables when present.
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.LLM.Provider, "LLM_PROVIDER")
	set(&c.LLM.Model, "LLM_MODEL")
	set(&c.LLM.APIKey, "LLM_API_KEY")
	set(&c.LLM.BaseURL, "LLM_BASE_URL")
	set(&c.Search.APIKey, "GOOGLE_API_KEY")
	set(&c.Search.EngineID, "GOOGLE_ENGINE_ID")
	set(&c.Tagger.Provider, "TAGGER_PROVIDER")
	set(&c.Tagger.URL, "TAGGER_URL")
	set(&c.Classifier.URL, "CLASSIFIER_URL")
	set(&c.Memgraph.URI, "MEMGRAPH_URI")
	set(&c.Memgraph.User, "MEMGRAPH_USER")
	set(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")
	set(&c.Server.Port, "PORT")
	set(&c.Server.LogFile, "LOG_FILE")
}
