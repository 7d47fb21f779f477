// Package config provides configuration loading and validation for the ranker.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/applicant-ranker/internal/cache"
	"github.com/jonathan/applicant-ranker/internal/db"
	"github.com/jonathan/applicant-ranker/internal/llm"
	"github.com/jonathan/applicant-ranker/internal/ranking"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. RANKER_SERVER_PORT.
	EnvPrefix = "RANKER"
	// DefaultName is the config file looked up in the working directory.
	DefaultName = "ranker"
)

// Dictionary source kinds.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the full ranker configuration.
type Config struct {
	LLM          LLMConfig        `mapstructure:"llm"`
	Dictionaries DictionaryConfig `mapstructure:"dictionaries"`
	Cache        CacheConfig      `mapstructure:"cache"`
	Ranking      RankingConfig    `mapstructure:"ranking"`
	Server       ServerConfig     `mapstructure:"server"`
	Log          LogConfig        `mapstructure:"log"`
}

type LLMConfig struct {
	Provider    string            `mapstructure:"provider"`
	APIKey      string            `mapstructure:"api-key"`
	Models      map[string]string `mapstructure:"models"`
	Temperature float32           `mapstructure:"temperature"`
	Timeout     time.Duration     `mapstructure:"timeout"`
}

type DictionaryConfig struct {
	Source            string `mapstructure:"source"`
	DegreesPath       string `mapstructure:"degrees-path"`
	EligibilitiesPath string `mapstructure:"eligibilities-path"`

	// Postgres source.
	DatabaseURL       string `mapstructure:"database-url"`
	Table             string `mapstructure:"table"`
	DegreesName       string `mapstructure:"degrees-name"`
	EligibilitiesName string `mapstructure:"eligibilities-name"`
}

type CacheConfig struct {
	Backend   string        `mapstructure:"backend"`
	RedisAddr string        `mapstructure:"redis-addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	TTL       time.Duration `mapstructure:"ttl"`
	KeyPrefix string        `mapstructure:"key-prefix"`
}

type RankingConfig struct {
	InsightTopK int     `mapstructure:"insight-top-k"`
	TieEpsilon  float64 `mapstructure:"tie-epsilon"`
	SortEpsilon float64 `mapstructure:"sort-epsilon"`
	AITieBreak  bool    `mapstructure:"ai-tiebreak"`
	Insights    bool    `mapstructure:"insights"`
	Concurrency int     `mapstructure:"concurrency"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	RateLimit       float64       `mapstructure:"rate-limit"`
	RateBurst       int           `mapstructure:"rate-burst"`
	AllowedOrigins  []string      `mapstructure:"allowed-origins"`
	RequestTimeout  time.Duration `mapstructure:"request-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
	MaxBodyBytes    int64         `mapstructure:"max-body-bytes"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	llmDefaults := llm.DefaultConfig()
	models := make(map[string]string, len(llmDefaults.Models))
	for tier, model := range llmDefaults.Models {
		models[string(tier)] = model
	}
	rankDefaults := ranking.DefaultOptions()
	cacheDefaults := cache.DefaultOptions()

	return Config{
		LLM: LLMConfig{
			Provider:    string(llmDefaults.Provider),
			Models:      models,
			Temperature: llmDefaults.Temperature,
			Timeout:     llmDefaults.Timeout,
		},
		Dictionaries: DictionaryConfig{
			Source:            SourceFile,
			DegreesPath:       "dictionaries/degrees.yaml",
			EligibilitiesPath: "dictionaries/eligibilities.yaml",
			Table:             db.DefaultDictionaryTable,
			DegreesName:       "degrees",
			EligibilitiesName: "eligibilities",
		},
		Cache: CacheConfig{
			Backend:   CacheMemory,
			TTL:       cacheDefaults.DefaultTTL,
			KeyPrefix: cacheDefaults.KeyPrefix,
		},
		Ranking: RankingConfig{
			InsightTopK: rankDefaults.InsightTopK,
			TieEpsilon:  rankDefaults.TieEpsilon,
			SortEpsilon: rankDefaults.SortEpsilon,
			AITieBreak:  rankDefaults.AITieBreak,
			Insights:    rankDefaults.Insights,
		},
		Server: ServerConfig{
			Port:            8080,
			RateLimit:       5,
			RateBurst:       10,
			AllowedOrigins:  []string{"*"},
			RequestTimeout:  2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    4 << 20,
		},
	}
}

// Load reads path (or ./ranker.yaml when path is empty and the file exists),
// applies RANKER_* environment overrides and validates the result.
// A nil v uses a fresh viper instance.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api-key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultName)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.api-key", "")
	v.SetDefault("llm.models", d.LLM.Models)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.timeout", d.LLM.Timeout)

	v.SetDefault("dictionaries.source", d.Dictionaries.Source)
	v.SetDefault("dictionaries.degrees-path", d.Dictionaries.DegreesPath)
	v.SetDefault("dictionaries.eligibilities-path", d.Dictionaries.EligibilitiesPath)
	v.SetDefault("dictionaries.database-url", "")
	v.SetDefault("dictionaries.table", d.Dictionaries.Table)
	v.SetDefault("dictionaries.degrees-name", d.Dictionaries.DegreesName)
	v.SetDefault("dictionaries.eligibilities-name", d.Dictionaries.EligibilitiesName)

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.redis-addr", "")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.key-prefix", d.Cache.KeyPrefix)

	v.SetDefault("ranking.insight-top-k", d.Ranking.InsightTopK)
	v.SetDefault("ranking.tie-epsilon", d.Ranking.TieEpsilon)
	v.SetDefault("ranking.sort-epsilon", d.Ranking.SortEpsilon)
	v.SetDefault("ranking.ai-tiebreak", d.Ranking.AITieBreak)
	v.SetDefault("ranking.insights", d.Ranking.Insights)
	v.SetDefault("ranking.concurrency", d.Ranking.Concurrency)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate-limit", d.Server.RateLimit)
	v.SetDefault("server.rate-burst", d.Server.RateBurst)
	v.SetDefault("server.allowed-origins", d.Server.AllowedOrigins)
	v.SetDefault("server.request-timeout", d.Server.RequestTimeout)
	v.SetDefault("server.shutdown-timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.max-body-bytes", d.Server.MaxBodyBytes)

	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.debug", d.Log.Debug)
}

// Validate checks that the configuration has valid values.
// Whether an API key is present is not checked: without one the ranker
// runs on dictionaries and deterministic scoring alone.
func (c *Config) Validate() error {
	if c.LLM.Provider != string(llm.ProviderGemini) {
		return fmt.Errorf("config error: unsupported llm provider %q", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("config error: 'llm.timeout' must be positive")
	}

	switch c.Dictionaries.Source {
	case SourceFile:
	case SourcePostgres:
		if c.Dictionaries.DatabaseURL == "" {
			return fmt.Errorf("config error: 'dictionaries.database-url' is required for the postgres source")
		}
		if c.Dictionaries.Table == "" {
			return fmt.Errorf("config error: 'dictionaries.table' is required for the postgres source")
		}
	default:
		return fmt.Errorf("config error: unknown dictionary source %q", c.Dictionaries.Source)
	}

	switch c.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("config error: 'cache.redis-addr' is required for the redis backend")
		}
	default:
		return fmt.Errorf("config error: unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("config error: 'cache.ttl' must be positive")
	}

	if c.Ranking.InsightTopK < 0 {
		return fmt.Errorf("config error: 'ranking.insight-top-k' must be non-negative")
	}
	if c.Ranking.TieEpsilon < 0 || c.Ranking.SortEpsilon < 0 {
		return fmt.Errorf("config error: ranking epsilons must be non-negative")
	}
	if c.Ranking.Concurrency < 0 {
		return fmt.Errorf("config error: 'ranking.concurrency' must be non-negative")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("config error: server rate limits must be non-negative")
	}
	return nil
}

// ClientConfig converts the llm section into the client configuration.
func (c LLMConfig) ClientConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = llm.Provider(c.Provider)
	for tier, model := range c.Models {
		if model != "" {
			cfg.Models[llm.ModelTier(tier)] = model
		}
	}
	cfg.Temperature = c.Temperature
	cfg.Timeout = c.Timeout
	return cfg
}

// RankingOptions converts the ranking section into pipeline options.
func (c Config) RankingOptions() ranking.Options {
	opts := ranking.DefaultOptions()
	opts.InsightTopK = c.Ranking.InsightTopK
	opts.TieEpsilon = c.Ranking.TieEpsilon
	opts.SortEpsilon = c.Ranking.SortEpsilon
	opts.AITieBreak = c.Ranking.AITieBreak
	opts.Insights = c.Ranking.Insights
	if c.Ranking.Concurrency > 0 {
		opts.Concurrency = c.Ranking.Concurrency
	}
	opts.AITimeout = c.LLM.Timeout
	return opts
}

// Options converts the cache section into cache options.
func (c CacheConfig) Options() cache.Options {
	return cache.Options{
		DefaultTTL:    c.TTL,
		RedisURL:      c.RedisAddr,
		RedisPassword: c.Password,
		RedisDB:       c.DB,
		KeyPrefix:     c.KeyPrefix,
	}
}
