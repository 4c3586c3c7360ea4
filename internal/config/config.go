package config

import (
	"bytes"
	"fmt"
	"net"
	neturl "net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 3330
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "trendscope"
	defaultDBCharset  = "utf8mb4"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Env            string         `yaml:"env"` // "development" | "production"
	APIToken       string         `yaml:"api_token"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	Database       DatabaseConfig `yaml:"database"`
	Redis          RedisConfig    `yaml:"redis"`
	Engine         EngineConfig   `yaml:"engine"`
	AI             AIConfig       `yaml:"ai"`

	// Derived.
	DSN      string `yaml:"-"`
	RedisURL string `yaml:"-"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// EngineConfig tunes the trend detection engine. Zero values are replaced
// with the documented defaults at load time.
type EngineConfig struct {
	// JaccardThreshold is the minimum tag-set similarity for a post to be
	// absorbed into a hashtag cluster.
	JaccardThreshold float64 `yaml:"jaccard_threshold"`
	// IndustryAvgEngagementRate anchors the breakout engagement component
	// when no better estimate exists for the brand's vertical.
	IndustryAvgEngagementRate float64 `yaml:"industry_avg_engagement_rate"`
	// ContentWindowDays is the trailing window a detection pass considers.
	ContentWindowDays int `yaml:"content_window_days"`
	// BreakoutAutoAnalyze gates auto-queuing on viral momentum.
	BreakoutAutoAnalyze int `yaml:"breakout_auto_analyze"`
	// RelevanceAutoAnalyze is the relevance floor required alongside the
	// breakout gate.
	RelevanceAutoAnalyze int `yaml:"relevance_auto_analyze"`
	// RelevanceHigh queues a trend for analysis on brand fit alone.
	RelevanceHigh int `yaml:"relevance_high"`
	// DetectIntervalHours is the cadence of the scheduled detection pass.
	DetectIntervalHours int `yaml:"detect_interval_hours"`
}

type AIConfig struct {
	Providers      []AIProvider       `yaml:"providers"`
	ClassifyModel  *AIModelAssignment `yaml:"classify_model"`
	AnalysisModel  *AIModelAssignment `yaml:"analysis_model"`
	EnableClassify bool               `yaml:"enable_classify"`
	EnableAnalysis bool               `yaml:"enable_analysis"`
}

type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

type AIModelAssignment struct {
	ProviderID string `yaml:"provider_id"`
	Model      string `yaml:"model"`
}

func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaultAppConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	normalize(&cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}
	if cfg.Engine.JaccardThreshold <= 0 || cfg.Engine.JaccardThreshold > 1 {
		return nil, fmt.Errorf("invalid engine.jaccard_threshold %v in %q, expected (0,1]", cfg.Engine.JaccardThreshold, path)
	}
	if cfg.Engine.IndustryAvgEngagementRate <= 0 {
		return nil, fmt.Errorf("invalid engine.industry_avg_engagement_rate %v in %q, expected > 0", cfg.Engine.IndustryAvgEngagementRate, path)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseConfig{
			Host:     defaultDBHost,
			Port:     defaultDBPort,
			User:     defaultDBUser,
			Password: defaultDBPassword,
			Name:     defaultDBName,
			Charset:  defaultDBCharset,
		},
		Redis: RedisConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
		},
		Engine: DefaultEngineConfig(),
	}
	normalize(&cfg)
	return cfg
}

// DefaultEngineConfig returns the documented engine defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		JaccardThreshold:          0.3,
		IndustryAvgEngagementRate: 0.05,
		ContentWindowDays:         7,
		BreakoutAutoAnalyze:       40,
		RelevanceAutoAnalyze:      30,
		RelevanceHigh:             70,
		DetectIntervalHours:       6,
	}
}

func normalize(cfg *AppConfig) {
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	cfg.APIToken = strings.TrimSpace(cfg.APIToken)

	origins := make([]string, 0, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	cfg.AllowedOrigins = origins

	defaults := DefaultEngineConfig()
	if cfg.Engine.JaccardThreshold == 0 {
		cfg.Engine.JaccardThreshold = defaults.JaccardThreshold
	}
	if cfg.Engine.IndustryAvgEngagementRate == 0 {
		cfg.Engine.IndustryAvgEngagementRate = defaults.IndustryAvgEngagementRate
	}
	if cfg.Engine.ContentWindowDays == 0 {
		cfg.Engine.ContentWindowDays = defaults.ContentWindowDays
	}
	if cfg.Engine.BreakoutAutoAnalyze == 0 {
		cfg.Engine.BreakoutAutoAnalyze = defaults.BreakoutAutoAnalyze
	}
	if cfg.Engine.RelevanceAutoAnalyze == 0 {
		cfg.Engine.RelevanceAutoAnalyze = defaults.RelevanceAutoAnalyze
	}
	if cfg.Engine.RelevanceHigh == 0 {
		cfg.Engine.RelevanceHigh = defaults.RelevanceHigh
	}
	if cfg.Engine.DetectIntervalHours == 0 {
		cfg.Engine.DetectIntervalHours = defaults.DetectIntervalHours
	}

	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
}

func (c DatabaseConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}

	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultDBHost
	}
	port := c.Port
	if port == 0 {
		port = defaultDBPort
	}
	user := strings.TrimSpace(c.User)
	if user == "" {
		user = defaultDBUser
	}
	password := strings.TrimSpace(c.Password)
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = defaultDBName
	}
	charset := strings.TrimSpace(c.Charset)
	if charset == "" {
		charset = defaultDBCharset
	}

	params := neturl.Values{}
	params.Set("charset", charset)
	params.Set("parseTime", "True")
	params.Set("loc", "Local")

	auth := user
	if password != "" {
		auth += ":" + password
	}
	return fmt.Sprintf("%s@tcp(%s)/%s?%s",
		auth, net.JoinHostPort(host, strconv.Itoa(port)), name, params.Encode())
}

func (c RedisConfig) URLValue() string {
	if v := strings.TrimSpace(c.URL); v != "" {
		if strings.HasPrefix(v, "redis://") || strings.HasPrefix(v, "rediss://") {
			return v
		}
		return "redis://" + v
	}

	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultRedisHost
	}
	port := c.Port
	if port == 0 {
		port = defaultRedisPort
	}

	u := &neturl.URL{
		Scheme: "redis",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + strconv.Itoa(c.DB),
	}
	if password := strings.TrimSpace(c.Password); password != "" {
		u.User = neturl.UserPassword("", password)
	}
	return u.String()
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}
