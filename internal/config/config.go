package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // scheduler timezones in minimal images

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "ARTICLE_INTEL_CONFIG"
	serverAddrEnv     = "ARTICLE_INTEL_ADDR"
	logLevelEnv       = "LOG_LEVEL"
	logFormatEnv      = "LOG_FORMAT"
	databaseDriverEnv = "DATABASE_DRIVER"
	databaseDSNEnv    = "DATABASE_DSN"
	redisAddrEnv      = "REDIS_ADDR"
	modelPathEnv      = "CLASSIFIER_MODEL_PATH"
	maxPerFeedEnv     = "CRAWLER_MAX_PER_FEED"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Crawler       CrawlerConfig      `yaml:"crawler"`
	Summary       SummaryConfig      `yaml:"summary"`
	Classifier    ClassifierConfig   `yaml:"classifier"`
	Cache         CacheConfig        `yaml:"cache"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig selects the slog level and the handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig describes the article store connection.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// SchedulerConfig defines when the crawl should run.
type SchedulerConfig struct {
	Enabled        bool           `yaml:"enabled"`
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
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

// CrawlerConfig tunes the feed fetcher and lists the sites to crawl.
type CrawlerConfig struct {
	UserAgent         string        `yaml:"userAgent"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	MaxPerFeed        int           `yaml:"maxPerFeed"`
	Lookback          time.Duration `yaml:"lookback"`
	Sites             []SiteConfig  `yaml:"sites"`
}

// SiteConfig describes a single site with its scanner strategy.
type SiteConfig struct {
	Name    string            `yaml:"name"`
	Scanner string            `yaml:"scanner"`
	Feeds   []FeedConfig      `yaml:"feeds"`
	Options map[string]string `yaml:"options"`
}

// FeedConfig holds one concrete endpoint to crawl (an RSS URL or a listing page).
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// SummaryConfig sets summary engine defaults.
type SummaryConfig struct {
	DefaultMethod  string `yaml:"defaultMethod"`
	SentencesCount int    `yaml:"sentencesCount"`
}

// ClassifierConfig points at the knowledge base override and the trained model file.
type ClassifierConfig struct {
	KnowledgeBasePath string `yaml:"knowledgeBasePath"`
	ModelPath         string `yaml:"modelPath"`
}

// CacheConfig enables the Redis response cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr string        `yaml:"redisAddr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	TTL       time.Duration `yaml:"ttl"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load reads .env and YAML configuration (if present) and applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot load .env: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if fileCfg, err := LoadFile(path); err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Crawler.Sites) == 0 {
		cfg.Crawler.Sites = defaultConfig().Crawler.Sites
	}

	return cfg
}

// LoadFile parses a YAML config file without merging it.
func LoadFile(path string) (Config, error) {
	var fileCfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileCfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return fileCfg, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return fileCfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}

	if v := os.Getenv(databaseDriverEnv); v != "" {
		c.Database.Driver = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(redisAddrEnv); v != "" {
		c.Cache.RedisAddr = v
	}

	if v := os.Getenv(modelPathEnv); v != "" {
		c.Classifier.ModelPath = v
	}

	if v := os.Getenv(maxPerFeedEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Crawler.MaxPerFeed = n
		} else {
			log.Printf("config: ignoring invalid %s=%q", maxPerFeedEnv, v)
		}
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
		if base.Database.Driver == "" {
			base.Database.Driver = defaultConfig().Database.Driver
		}
	}

	if override.Scheduler.Enabled {
		base.Scheduler.Enabled = true
	}
	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Crawler.UserAgent != "" {
		base.Crawler.UserAgent = override.Crawler.UserAgent
	}
	if override.Crawler.Timeout > 0 {
		base.Crawler.Timeout = override.Crawler.Timeout
	}
	if override.Crawler.RequestsPerSecond > 0 {
		base.Crawler.RequestsPerSecond = override.Crawler.RequestsPerSecond
	}
	if override.Crawler.MaxPerFeed > 0 {
		base.Crawler.MaxPerFeed = override.Crawler.MaxPerFeed
	}
	if override.Crawler.Lookback > 0 {
		base.Crawler.Lookback = override.Crawler.Lookback
	}
	if len(override.Crawler.Sites) > 0 {
		base.Crawler.Sites = override.Crawler.Sites
	}

	if override.Summary.DefaultMethod != "" {
		base.Summary.DefaultMethod = override.Summary.DefaultMethod
	}
	if override.Summary.SentencesCount > 0 {
		base.Summary.SentencesCount = override.Summary.SentencesCount
	}

	if override.Classifier.KnowledgeBasePath != "" {
		base.Classifier.KnowledgeBasePath = override.Classifier.KnowledgeBasePath
	}
	if override.Classifier.ModelPath != "" {
		base.Classifier.ModelPath = override.Classifier.ModelPath
	}

	if override.Cache.RedisAddr != "" {
		base.Cache.RedisAddr = override.Cache.RedisAddr
		base.Cache.Password = override.Cache.Password
		base.Cache.DB = override.Cache.DB
	}
	if override.Cache.TTL > 0 {
		base.Cache.TTL = override.Cache.TTL
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Server:    ServerConfig{Addr: ":5000"},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Database:  DatabaseConfig{Driver: "sqlite3", DSN: "file:articles.db?_foreign_keys=on&_busy_timeout=5000"},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
		Crawler: CrawlerConfig{
			UserAgent:         "Mozilla/5.0 (compatible; ArticleIntel/1.0)",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 5,
			MaxPerFeed:        15,
			Lookback:          0,
			Sites: []SiteConfig{
				{
					Name:    "bbc",
					Scanner: "rss",
					Feeds: []FeedConfig{
						{Name: "BBC News", URL: "http://feeds.bbci.co.uk/news/rss.xml"},
						{Name: "BBC Technology", URL: "http://feeds.bbci.co.uk/news/technology/rss.xml"},
						{Name: "BBC Health", URL: "http://feeds.bbci.co.uk/news/health/rss.xml"},
					},
				},
				{
					Name:    "guardian",
					Scanner: "rss",
					Feeds: []FeedConfig{
						{Name: "The Guardian World", URL: "https://www.theguardian.com/world/rss"},
						{Name: "The Guardian Environment", URL: "https://www.theguardian.com/environment/rss"},
						{Name: "The Guardian Sport", URL: "https://www.theguardian.com/sport/rss"},
					},
				},
				{
					Name:    "npr",
					Scanner: "rss",
					Feeds: []FeedConfig{
						{Name: "NPR Education", URL: "https://feeds.npr.org/1013/rss.xml"},
						{Name: "NPR Business", URL: "https://feeds.npr.org/1006/rss.xml"},
					},
				},
			},
		},
		Summary:    SummaryConfig{DefaultMethod: "textrank", SentencesCount: 3},
		Classifier: ClassifierConfig{ModelPath: "models/classifier.json"},
		Cache:      CacheConfig{TTL: 10 * time.Minute},
	}
}
