package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	defaultCadence  = "*/25 * * * * *"

	configPathEnv    = "AUTOPUBLISHER_CONFIG"
	envFileEnv       = "ENV_FILE"
	logLevelEnv      = "LOG_LEVEL"
	wpURLEnv         = "WP_API_URL"
	wpTokenEnv       = "WP_API_TOKEN"
	publishModeEnv   = "PUBLISH_MODE"
	fixedPostIDEnv   = "FIXED_POST_ID"
	geminiAPIKeyEnv  = "GEMINI_API_KEY"
	legacyAPIKeyEnv  = "API_KEY"
	openAIAPIKeyEnv  = "OPENAI_API_KEY"
	providerEnv      = "GENERATOR_PROVIDER"
	schedulePathEnv  = "SCHEDULE_PATH"
	schedulerCronEnv = "SCHEDULER_CADENCE"
	serverAddrEnv    = "SERVER_ADDR"
	imagePathEnv     = "WP_IMAGE_PATH"
	parseModeEnv     = "ARTICLE_PARSE_MODE"
	schedulerTZEnv   = "SCHEDULER_TIMEZONE"
)

// Publish modes select how the upsert resolver identifies an existing post.
const (
	ModeSearch  = "search"
	ModeFixedID = "fixed-id"
)

// Generator providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Generator GeneratorConfig `yaml:"generator"`
	WordPress WordPressConfig `yaml:"wordpress"`
	Server    ServerConfig    `yaml:"server"`
}

// LoggingConfig selects slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SchedulerConfig defines when the pipeline should run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	RunOnStart     bool           `yaml:"runOnStart"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// ScheduleConfig points at the weekly topic table. Entries, when present,
// take precedence over the CSV file.
type ScheduleConfig struct {
	Path        string          `yaml:"path"`
	DayColumn   string          `yaml:"dayColumn"`
	TopicColumn string          `yaml:"topicColumn"`
	Entries     []ScheduleEntry `yaml:"entries"`
}

// ScheduleEntry is one inline row of the weekly table.
type ScheduleEntry struct {
	Day   string `yaml:"day"`
	Topic string `yaml:"topic"`
}

// GeneratorConfig chooses the text provider and how its output is parsed.
type GeneratorConfig struct {
	Provider       string        `yaml:"provider"`
	ParseMode      string        `yaml:"parseMode"`
	PromptTemplate string        `yaml:"promptTemplate"`
	Timeout        time.Duration `yaml:"timeout"`
	Gemini         GeminiConfig  `yaml:"gemini"`
	OpenAI         OpenAIConfig  `yaml:"openai"`
}

// GeminiConfig defines how to contact the Gemini generateContent API.
type GeminiConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// OpenAIConfig defines how to contact an OpenAI-compatible chat API.
type OpenAIConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// WordPressConfig is passed explicitly to the backend client constructor.
type WordPressConfig struct {
	BaseURL     string        `yaml:"baseUrl"`
	Token       string        `yaml:"token"`
	Timeout     time.Duration `yaml:"timeout"`
	Mode        string        `yaml:"mode"`
	FixedPostID int64         `yaml:"fixedPostId"`
	Status      string        `yaml:"status"`
	ImagePath   string        `yaml:"imagePath"`
}

// ServerConfig configures the generation HTTP endpoint.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads .env files, YAML configuration (if present) and applies environment overrides.
func Load() (Config, error) {
	cfg := defaultConfig()

	if err := loadEnvFiles(); err != nil {
		return Config{}, err
	}

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		fileCfg, toggles, err := parse(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
		toggles.apply(&cfg)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.bindTimezone(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// fileToggles captures booleans the file sets explicitly, so false can
// override a true default.
type fileToggles struct {
	Scheduler struct {
		RunOnStart *bool `yaml:"runOnStart"`
	} `yaml:"scheduler"`
	Server struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"server"`
}

func (t fileToggles) apply(cfg *Config) {
	if t.Scheduler.RunOnStart != nil {
		cfg.Scheduler.RunOnStart = *t.Scheduler.RunOnStart
	}
	if t.Server.Enabled != nil {
		cfg.Server.Enabled = *t.Server.Enabled
	}
}

func parse(raw []byte) (Config, fileToggles, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fileToggles{}, err
	}
	var toggles fileToggles
	if err := yaml.Unmarshal(raw, &toggles); err != nil {
		return Config{}, fileToggles{}, err
	}
	return cfg, toggles, nil
}

// loadEnvFiles loads ENV_FILE when set, otherwise .env.local then .env.
// godotenv never overrides variables that are already set.
func loadEnvFiles() error {
	if envFile := os.Getenv(envFileEnv); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// Validate rejects combinations the pipeline cannot run with.
func (c Config) Validate() error {
	var errs []error

	switch c.WordPress.Mode {
	case ModeSearch:
	case ModeFixedID:
		if c.WordPress.FixedPostID <= 0 {
			errs = append(errs, fmt.Errorf("wordpress.fixedPostId must be positive in %s mode", ModeFixedID))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown wordpress.mode %q", c.WordPress.Mode))
	}
	if strings.TrimSpace(c.WordPress.BaseURL) == "" {
		errs = append(errs, errors.New("wordpress.baseUrl is required"))
	}

	switch c.Generator.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("unknown generator.provider %q", c.Generator.Provider))
	}

	switch c.Generator.ParseMode {
	case "first-line", "split":
	default:
		errs = append(errs, fmt.Errorf("unknown generator.parseMode %q", c.Generator.ParseMode))
	}

	if _, err := loadTimezone(c.Scheduler.Timezone); err != nil {
		errs = append(errs, err)
	}

	if c.Schedule.Path == "" && len(c.Schedule.Entries) == 0 {
		errs = append(errs, errors.New("schedule.path or schedule.entries is required"))
	}

	return errors.Join(errs...)
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(wpURLEnv); v != "" {
		c.WordPress.BaseURL = v
	}
	if v := os.Getenv(wpTokenEnv); v != "" {
		c.WordPress.Token = v
	}
	if v := os.Getenv(publishModeEnv); v != "" {
		c.WordPress.Mode = v
	}
	if v := os.Getenv(fixedPostIDEnv); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", fixedPostIDEnv, err)
		}
		c.WordPress.FixedPostID = id
	}
	if v := os.Getenv(imagePathEnv); v != "" {
		c.WordPress.ImagePath = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Generator.Gemini.APIKey = v
	} else if v := os.Getenv(legacyAPIKeyEnv); v != "" && c.Generator.Gemini.APIKey == "" {
		c.Generator.Gemini.APIKey = v
	}
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.Generator.OpenAI.APIKey = v
	}
	if v := os.Getenv(providerEnv); v != "" {
		c.Generator.Provider = v
	}
	if v := os.Getenv(parseModeEnv); v != "" {
		c.Generator.ParseMode = v
	}

	if v := os.Getenv(schedulePathEnv); v != "" {
		c.Schedule.Path = v
	}
	if v := os.Getenv(schedulerCronEnv); v != "" {
		c.Scheduler.CronExpression = v
	}
	if v := os.Getenv(schedulerTZEnv); v != "" {
		c.Scheduler.Timezone = v
	}

	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}

	return nil
}

// bindTimezone resolves the scheduler zone. An unknown zone is an error: the
// weekday, and so the published topic, depends on it.
func (c *Config) bindTimezone() error {
	loc, err := loadTimezone(c.Scheduler.Timezone)
	if err != nil {
		return err
	}
	c.Scheduler.location = loc
	return nil
}

func loadTimezone(tz string) (*time.Location, error) {
	if strings.TrimSpace(tz) == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("scheduler.timezone %q: %w", tz, err)
	}
	return loc, nil
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Schedule.Path != "" {
		base.Schedule.Path = override.Schedule.Path
	}
	if override.Schedule.DayColumn != "" {
		base.Schedule.DayColumn = override.Schedule.DayColumn
	}
	if override.Schedule.TopicColumn != "" {
		base.Schedule.TopicColumn = override.Schedule.TopicColumn
	}
	if len(override.Schedule.Entries) > 0 {
		base.Schedule.Entries = override.Schedule.Entries
	}

	if override.Generator.Provider != "" {
		base.Generator.Provider = override.Generator.Provider
	}
	if override.Generator.ParseMode != "" {
		base.Generator.ParseMode = override.Generator.ParseMode
	}
	if override.Generator.PromptTemplate != "" {
		base.Generator.PromptTemplate = override.Generator.PromptTemplate
	}
	if override.Generator.Timeout > 0 {
		base.Generator.Timeout = override.Generator.Timeout
	}
	if override.Generator.Gemini.Endpoint != "" {
		base.Generator.Gemini.Endpoint = override.Generator.Gemini.Endpoint
	}
	if override.Generator.Gemini.Model != "" {
		base.Generator.Gemini.Model = override.Generator.Gemini.Model
	}
	if override.Generator.Gemini.APIKey != "" {
		base.Generator.Gemini.APIKey = override.Generator.Gemini.APIKey
	}
	if override.Generator.OpenAI.Endpoint != "" {
		base.Generator.OpenAI.Endpoint = override.Generator.OpenAI.Endpoint
	}
	if override.Generator.OpenAI.Model != "" {
		base.Generator.OpenAI.Model = override.Generator.OpenAI.Model
	}
	if override.Generator.OpenAI.APIKey != "" {
		base.Generator.OpenAI.APIKey = override.Generator.OpenAI.APIKey
	}
	if override.Generator.OpenAI.SystemPrompt != "" {
		base.Generator.OpenAI.SystemPrompt = override.Generator.OpenAI.SystemPrompt
	}

	if override.WordPress.BaseURL != "" {
		base.WordPress.BaseURL = override.WordPress.BaseURL
	}
	if override.WordPress.Token != "" {
		base.WordPress.Token = override.WordPress.Token
	}
	if override.WordPress.Timeout > 0 {
		base.WordPress.Timeout = override.WordPress.Timeout
	}
	if override.WordPress.Mode != "" {
		base.WordPress.Mode = override.WordPress.Mode
	}
	if override.WordPress.FixedPostID != 0 {
		base.WordPress.FixedPostID = override.WordPress.FixedPostID
	}
	if override.WordPress.Status != "" {
		base.WordPress.Status = override.WordPress.Status
	}
	if override.WordPress.ImagePath != "" {
		base.WordPress.ImagePath = override.WordPress.ImagePath
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Scheduler: SchedulerConfig{CronExpression: defaultCadence, Timezone: defaultTimezone, location: tz},
		Schedule: ScheduleConfig{
			Path:        "schedule.csv",
			DayColumn:   "Day",
			TopicColumn: "Blog Content",
		},
		Generator: GeneratorConfig{
			Provider:  ProviderGemini,
			ParseMode: "first-line",
			Timeout:   60 * time.Second,
			Gemini: GeminiConfig{
				Endpoint: "https://generativelanguage.googleapis.com/v1beta",
				Model:    "gemini-1.5-flash",
			},
			OpenAI: OpenAIConfig{
				Endpoint:     "https://api.openai.com/v1/chat/completions",
				Model:        "gpt-4o-mini",
				SystemPrompt: "You write blog articles in Markdown.",
			},
		},
		WordPress: WordPressConfig{
			Timeout:     20 * time.Second,
			Mode:        ModeFixedID,
			FixedPostID: 1,
			Status:      "publish",
		},
		Server: ServerConfig{Enabled: true, Addr: ":3000"},
	}
}
