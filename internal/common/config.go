package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/ragkit/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	Drivers     DriversConfig  `toml:"drivers"`
	Gemini      GeminiConfig   `toml:"gemini"`
	Claude      ClaudeConfig   `toml:"claude"`
	Qdrant      QdrantConfig   `toml:"qdrant"`
	Scraper     ScraperConfig  `toml:"scraper"`
	RAG         RAGConfig      `toml:"rag"`
	Memory      MemoryConfig   `toml:"memory"`
	Rulesets    RulesetsConfig `toml:"rulesets"`
}

type StorageConfig struct {
	Badger        BadgerConfig `toml:"badger"`
	VariablesFile string       `toml:"variables_file"` // TOML file of API keys loaded into the KV store
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for console and file writers
}

// DriverName selects an implementation for a driver slot
type DriverName string

const (
	DriverGemini DriverName = "gemini"
	DriverClaude DriverName = "claude"
	DriverEcho   DriverName = "echo"
	DriverLocal  DriverName = "local"
	DriverQdrant DriverName = "qdrant"
	DriverNone   DriverName = "none"
)

// DriversConfig picks the prompt, embedding and vector store implementations.
// Drivers are constructed once in app.New and injected; nothing reads them globally.
type DriversConfig struct {
	Prompt      DriverName `toml:"prompt"`       // gemini | claude | echo
	Embedding   DriverName `toml:"embedding"`    // gemini | none
	VectorStore DriverName `toml:"vector_store"` // local | qdrant | none
}

// GeminiConfig contains Google Gemini API configuration for prompt and embedding drivers
type GeminiConfig struct {
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`           // Prompt model (default: "gemini-1.5-pro")
	EmbeddingModel string  `toml:"embedding_model"` // Embedding model (default: "models/embedding-001")
	EmbedDimension int     `toml:"embed_dimension"` // Expected embedding size, 0 = accept provider default
	Timeout        string  `toml:"timeout"`         // Per-call timeout as duration string (default: "2m")
	RateLimit      string  `toml:"rate_limit"`      // Minimum interval between calls (default: "4s")
	MaxRetries     int     `toml:"max_retries"`     // Retries on rate-limit errors (default: 5)
	Temperature    float32 `toml:"temperature"`     // Generation temperature (default: 0.1)
}

// ClaudeConfig contains Anthropic Claude API configuration for the prompt driver
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // default: "claude-sonnet-4-20250514"
	MaxTokens   int     `toml:"max_tokens"`  // default: 4096
	Timeout     string  `toml:"timeout"`     // default: "2m"
	RateLimit   string  `toml:"rate_limit"`  // default: "1s"
	MaxRetries  int     `toml:"max_retries"` // default: 3
	Temperature float32 `toml:"temperature"` // default: 0.1
}

// QdrantConfig configures the Qdrant vector store driver
type QdrantConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"` // gRPC port (default: 6334)
	APIKey     string `toml:"api_key"`
	UseTLS     bool   `toml:"use_tls"`
	Collection string `toml:"collection"`
}

// ScraperConfig configures the markdownify web scraper driver
type ScraperConfig struct {
	IncludeLinks   bool     `toml:"include_links"`   // Keep link URLs in markdown output
	ExcludeTags    []string `toml:"exclude_tags"`    // Tags removed before conversion
	ExcludeClasses []string `toml:"exclude_classes"` // CSS classes removed before conversion
	ExcludeIDs     []string `toml:"exclude_ids"`     // Element IDs removed before conversion
	Timeout        string   `toml:"timeout"`         // Extra wait after the load event as duration string, empty = none
	PageTimeout    string   `toml:"page_timeout"`    // Hard limit for a single page (default: "60s")
	OffPrompt      bool     `toml:"off_prompt"`      // Store scraped content in task memory and return a reference
	UserAgent      string   `toml:"user_agent"`
	Headless       bool     `toml:"headless"`
}

// RAGConfig configures the query pipeline built for the QueryTool
type RAGConfig struct {
	ResponseModule string          `toml:"response_module"`  // "prompt" or "text_chunks"
	MaxInputTokens int             `toml:"max_input_tokens"` // Grounding token budget for the prompt response module
	ChunkMaxTokens int             `toml:"chunk_max_tokens"` // Max tokens per chunk when indexing memory text
	Retrieval      RetrievalConfig `toml:"retrieval"`
}

// RetrievalConfig enables the vector store retrieval stage
type RetrievalConfig struct {
	Enabled   bool   `toml:"enabled"`
	Namespace string `toml:"namespace"` // Empty searches all namespaces
	TopN      int    `toml:"top_n"`
}

// MemoryConfig names the task memory shared by the tools
type MemoryConfig struct {
	Name string `toml:"name"`
}

// RulesetsConfig points at a YAML file of rulesets applied to responses
type RulesetsConfig struct {
	File string `toml:"file"`
}

// NewDefaultConfig creates a configuration with default values.
// Driver defaults mirror the Google driver configuration.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
		Drivers: DriversConfig{
			Prompt:      DriverGemini,
			Embedding:   DriverGemini,
			VectorStore: DriverLocal,
		},
		Gemini: GeminiConfig{
			Model:          "gemini-1.5-pro",
			EmbeddingModel: "models/embedding-001",
			Timeout:        "2m",
			RateLimit:      "4s",
			MaxRetries:     5,
			Temperature:    0.1,
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   4096,
			Timeout:     "2m",
			RateLimit:   "1s",
			MaxRetries:  3,
			Temperature: 0.1,
		},
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "ragkit",
		},
		Scraper: ScraperConfig{
			IncludeLinks: true,
			ExcludeTags:  []string{"script", "style", "head", "header", "footer", "svg"},
			PageTimeout:  "60s",
			OffPrompt:    true,
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Headless:     true,
		},
		RAG: RAGConfig{
			ResponseModule: "prompt",
			MaxInputTokens: 8000,
			ChunkMaxTokens: 400,
			Retrieval: RetrievalConfig{
				Enabled: false,
				TopN:    5,
			},
		},
		Memory: MemoryConfig{
			Name: "TaskMemory",
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("RAGKIT_ENV"); env != "" {
		config.Environment = env
	}

	if badgerPath := os.Getenv("RAGKIT_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if level := os.Getenv("RAGKIT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("RAGKIT_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if prompt := os.Getenv("RAGKIT_PROMPT_DRIVER"); prompt != "" {
		config.Drivers.Prompt = DriverName(strings.ToLower(prompt))
	}
	if embedding := os.Getenv("RAGKIT_EMBEDDING_DRIVER"); embedding != "" {
		config.Drivers.Embedding = DriverName(strings.ToLower(embedding))
	}
	if vectorStore := os.Getenv("RAGKIT_VECTOR_STORE_DRIVER"); vectorStore != "" {
		config.Drivers.VectorStore = DriverName(strings.ToLower(vectorStore))
	}

	if model := os.Getenv("RAGKIT_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if model := os.Getenv("RAGKIT_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}

	if host := os.Getenv("RAGKIT_QDRANT_HOST"); host != "" {
		config.Qdrant.Host = host
	}
	if port := os.Getenv("RAGKIT_QDRANT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Qdrant.Port = p
		}
	}

	if timeout := os.Getenv("RAGKIT_SCRAPER_TIMEOUT"); timeout != "" {
		config.Scraper.Timeout = timeout
	}
	if includeLinks := os.Getenv("RAGKIT_SCRAPER_INCLUDE_LINKS"); includeLinks != "" {
		if b, err := strconv.ParseBool(includeLinks); err == nil {
			config.Scraper.IncludeLinks = b
		}
	}

	if variablesFile := os.Getenv("RAGKIT_VARIABLES_FILE"); variablesFile != "" {
		config.Storage.VariablesFile = variablesFile
	}

	if rulesetsFile := os.Getenv("RAGKIT_RULESETS_FILE"); rulesetsFile != "" {
		config.Rulesets.File = rulesetsFile
	}
}

// Validate checks driver selections and duration strings
func (c *Config) Validate() error {
	switch c.Drivers.Prompt {
	case DriverGemini, DriverClaude, DriverEcho:
	default:
		return fmt.Errorf("invalid prompt driver '%s': must be gemini, claude or echo", c.Drivers.Prompt)
	}

	switch c.Drivers.Embedding {
	case DriverGemini, DriverNone:
	default:
		return fmt.Errorf("invalid embedding driver '%s': must be gemini or none", c.Drivers.Embedding)
	}

	switch c.Drivers.VectorStore {
	case DriverLocal, DriverQdrant, DriverNone:
	default:
		return fmt.Errorf("invalid vector store driver '%s': must be local, qdrant or none", c.Drivers.VectorStore)
	}

	if c.Drivers.VectorStore != DriverNone && c.Drivers.Embedding == DriverNone {
		return fmt.Errorf("vector store driver '%s' requires an embedding driver", c.Drivers.VectorStore)
	}

	if c.RAG.Retrieval.Enabled && c.Drivers.VectorStore == DriverNone {
		return fmt.Errorf("rag.retrieval requires a vector store driver")
	}

	switch c.RAG.ResponseModule {
	case "prompt", "text_chunks":
	default:
		return fmt.Errorf("invalid rag.response_module '%s': must be prompt or text_chunks", c.RAG.ResponseModule)
	}

	for name, value := range map[string]string{
		"gemini.timeout":       c.Gemini.Timeout,
		"gemini.rate_limit":    c.Gemini.RateLimit,
		"claude.timeout":       c.Claude.Timeout,
		"claude.rate_limit":    c.Claude.RateLimit,
		"scraper.timeout":      c.Scraper.Timeout,
		"scraper.page_timeout": c.Scraper.PageTimeout,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, value, err)
		}
	}

	return nil
}

// ParseDurationOr parses a duration string, returning fallback when empty or invalid
func ParseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key by name.
// Resolution order: environment variables → KV store → config fallback → error
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":    {"RAGKIT_GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY"},
		"anthropic_api_key": {"RAGKIT_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
		"qdrant_api_key":    {"RAGKIT_QDRANT_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	// An unresolved {key} reference is not a usable key
	if configFallback != "" && !keyRefPattern.MatchString(configFallback) {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment, KV store, or config", name)
}
