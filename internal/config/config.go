package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAzure     = "azure"
	ProviderAnthropic = "anthropic"

	FetcherReadability = "readability"
	FetcherJina        = "jina"

	StoreMemory = "memory"
	StoreRedis  = "redis"

	configFileEnvVar = "CONFIG_FILE"
)

// DefaultUnsupportedPattern matches video channel, mini-program and Weixin
// help pages that cannot be summarized.
const DefaultUnsupportedPattern = `finder\.video\.qq\.com|support\.weixin\.qq\.com/update|` +
	`support\.weixin\.qq\.com/security|mp\.weixin\.qq\.com/mp/waerrpage`

const DefaultPrompt = `你是一个专业的文章摘要助手。阅读用户提供的链接和网页内容，只输出一个 JSON 对象，不要输出任何其他文字。

JSON 字段：
- "title": 文章标题
- "summary": 一句话总结（不超过 50 字）
- "key_points": 3 到 5 条核心要点，字符串数组
- "comment": 一句犀利但客观的点评
- "tags": 3 到 5 个标签，形如 "#标签1 #标签2"
- "read_time": 预计阅读时间，例如 "5分钟"
- "source": 文章来源（网站或公众号名称）`

type Config struct {
	Token        string  `yaml:"token"         env:"TOKEN"`
	AllowedUsers []int64 `yaml:"allowed_users" env:"ALLOWED_USERS"`
	LogLevel     string  `yaml:"log_level"     env:"LOG_LEVEL"`

	Brief    BriefConfig   `yaml:"brief"    envPrefix:"BRIEF_"`
	Provider string        `yaml:"provider" env:"PROVIDER"`
	LLM      LLMConfig     `yaml:"llm"`
	Fetcher  FetcherConfig `yaml:"fetcher"  envPrefix:"FETCHER_"`
	Card     CardConfig    `yaml:"card"     envPrefix:"CARD_"`
	Session  SessionConfig `yaml:"session"  envPrefix:"SESSION_"`
}

type BriefConfig struct {
	Enabled            bool   `yaml:"enabled"             env:"ENABLED"`
	Group              bool   `yaml:"group"               env:"GROUP"`
	Prompt             string `yaml:"prompt"              env:"PROMPT"`
	FollowUpEnabled    bool   `yaml:"follow_up_enabled"   env:"FOLLOW_UP_ENABLED"`
	FollowUpPrefix     string `yaml:"follow_up_prefix"    env:"FOLLOW_UP_PREFIX"`
	UnsupportedPattern string `yaml:"unsupported_pattern" env:"UNSUPPORTED_PATTERN"`
}

type LLMConfig struct {
	Timeout   time.Duration   `yaml:"timeout"   env:"LLM_TIMEOUT"`
	OpenAI    OpenAIConfig    `yaml:"openai"    envPrefix:"OPENAI_"`
	Gemini    GeminiConfig    `yaml:"gemini"    envPrefix:"GEMINI_"`
	Azure     AzureConfig     `yaml:"azure"     envPrefix:"AZURE_OPENAI_"`
	Anthropic AnthropicConfig `yaml:"anthropic" envPrefix:"ANTHROPIC_"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"  env:"API_KEY"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	Model   string `yaml:"model"    env:"MODEL"`
}

type GeminiConfig struct {
	APIKey  string `yaml:"api_key"  env:"API_KEY"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	Model   string `yaml:"model"    env:"MODEL"`
}

type AzureConfig struct {
	APIKey     string `yaml:"api_key"     env:"API_KEY"`
	Endpoint   string `yaml:"endpoint"    env:"ENDPOINT"`
	Deployment string `yaml:"deployment"  env:"DEPLOYMENT"`
	APIVersion string `yaml:"api_version" env:"API_VERSION"`
}

type AnthropicConfig struct {
	APIKey  string `yaml:"api_key"  env:"API_KEY"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	Model   string `yaml:"model"    env:"MODEL"`
}

type FetcherConfig struct {
	Kind        string        `yaml:"kind"          env:"KIND"`
	Timeout     time.Duration `yaml:"timeout"       env:"TIMEOUT"`
	JinaBaseURL string        `yaml:"jina_base_url" env:"JINA_BASE_URL"`
	JinaAPIKey  string        `yaml:"jina_api_key"  env:"JINA_API_KEY"`
}

type CardConfig struct {
	Enabled       bool          `yaml:"enabled"         env:"ENABLED"`
	APIURL        string        `yaml:"api_url"         env:"API_URL"`
	QRFallbackURL string        `yaml:"qr_fallback_url" env:"QR_FALLBACK_URL"`
	Timeout       time.Duration `yaml:"timeout"         env:"TIMEOUT"`

	// InsecureSkipVerify disables TLS certificate checks for the card API.
	// Only for self-hosted renderers with broken certificates.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" env:"INSECURE_SKIP_VERIFY"`
}

type SessionConfig struct {
	Store      string        `yaml:"store"       env:"STORE"`
	TTL        time.Duration `yaml:"ttl"         env:"TTL"`
	MaxEntries int           `yaml:"max_entries" env:"MAX_ENTRIES"`
	RedisURL   string        `yaml:"redis_url"   env:"REDIS_URL"`
	SweepSpec  string        `yaml:"sweep_spec"  env:"SWEEP_SPEC"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Brief: BriefConfig{
			Enabled:            true,
			Group:              true,
			Prompt:             DefaultPrompt,
			FollowUpEnabled:    true,
			FollowUpPrefix:     "问",
			UnsupportedPattern: DefaultUnsupportedPattern,
		},
		Provider: ProviderOpenAI,
		LLM: LLMConfig{
			Timeout: 90 * time.Second,
			OpenAI: OpenAIConfig{
				BaseURL: "https://api.openai.com/v1",
				Model:   "gpt-3.5-turbo",
			},
			Gemini: GeminiConfig{
				BaseURL: "https://generativelanguage.googleapis.com",
				Model:   "gemini-1.5-flash",
			},
			Azure: AzureConfig{
				APIVersion: "2023-05-15",
			},
			Anthropic: AnthropicConfig{
				Model: "claude-3-5-haiku-latest",
			},
		},
		Fetcher: FetcherConfig{
			Kind:        FetcherReadability,
			Timeout:     20 * time.Second,
			JinaBaseURL: "https://r.jina.ai/",
		},
		Card: CardConfig{
			Enabled:       true,
			APIURL:        "https://fireflycard-api.302ai.cn/api/saveImg",
			QRFallbackURL: "https://u.wechat.com/EEFtTHlxdhQGmGofv3SHszQ",
			Timeout:       30 * time.Second,
		},
		Session: SessionConfig{
			Store:      StoreMemory,
			TTL:        5 * time.Minute,
			MaxEntries: 4096,
			SweepSpec:  "@every 1m",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE and the environment, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(configFileEnvVar)); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	return nil
}

func (c *Config) normalize() {
	c.Token = strings.TrimSpace(c.Token)
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.Fetcher.Kind = strings.ToLower(strings.TrimSpace(c.Fetcher.Kind))
	c.Session.Store = strings.ToLower(strings.TrimSpace(c.Session.Store))

	switch c.Provider {
	case ProviderGemini, ProviderAzure, ProviderAnthropic:
	default:
		// Anything else, including model names, means the OpenAI-compatible API.
		c.Provider = ProviderOpenAI
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.Token == "" {
		errs = append(errs, errors.New("TOKEN is required"))
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	if c.Brief.FollowUpEnabled && c.Brief.FollowUpPrefix == "" {
		errs = append(errs, errors.New("follow-up prefix is empty while follow-up is enabled"))
	}

	if _, err := regexp.Compile(c.Brief.UnsupportedPattern); err != nil {
		errs = append(errs, fmt.Errorf("compile unsupported pattern: %w", err))
	}

	if c.Session.TTL <= 0 {
		errs = append(errs, fmt.Errorf("session TTL must be positive, got %s", c.Session.TTL))
	}

	switch c.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if strings.TrimSpace(c.Session.RedisURL) == "" {
			errs = append(errs, errors.New("SESSION_REDIS_URL is required for redis session store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown session store %q", c.Session.Store))
	}

	switch c.Fetcher.Kind {
	case FetcherReadability, FetcherJina:
	default:
		errs = append(errs, fmt.Errorf("unknown fetcher kind %q", c.Fetcher.Kind))
	}

	if c.Card.Enabled && strings.TrimSpace(c.Card.APIURL) == "" {
		errs = append(errs, errors.New("CARD_API_URL is required when cards are enabled"))
	}

	errs = append(errs, c.validateProvider())

	return errors.Join(errs...)
}

func (c *Config) validateProvider() error {
	switch c.Provider {
	case ProviderGemini:
		if c.LLM.Gemini.APIKey == "" {
			return errors.New("GEMINI_API_KEY is required for gemini provider")
		}
	case ProviderAzure:
		if c.LLM.Azure.APIKey == "" || c.LLM.Azure.Endpoint == "" || c.LLM.Azure.Deployment == "" {
			return errors.New("AZURE_OPENAI_API_KEY, AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_DEPLOYMENT " +
				"are required for azure provider")
		}
	case ProviderAnthropic:
		if c.LLM.Anthropic.APIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	default:
		if c.LLM.OpenAI.APIKey == "" {
			return errors.New("OPENAI_API_KEY is required for openai provider")
		}
	}

	return nil
}

// Level parses LogLevel. An empty value means info.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level

	if strings.TrimSpace(c.LogLevel) == "" {
		return level, nil
	}

	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return level, fmt.Errorf("parse log level: %w", err)
	}

	return level, nil
}
