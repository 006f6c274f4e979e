package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Agent   AgentConfig
	Query   QueryConfig
	Archive ArchiveConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AgentConfig holds LLM chat agent settings.
type AgentConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"`
	MaxToolTurns int    `mapstructure:"max_tool_turns"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// QueryConfig holds guarded query execution settings.
type QueryConfig struct {
	DefaultLimit   int     `mapstructure:"default_limit"`
	MaxCellLength  int     `mapstructure:"max_cell_length"`
	FuzzyLimit     int     `mapstructure:"fuzzy_limit"`
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold"`
}

// ArchiveConfig holds raw source document archive (S3) settings.
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the FINSIGHT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "finsight")
	v.SetDefault("db.password", "finsight_secret")
	v.SetDefault("db.name", "finsight_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Agent defaults
	v.SetDefault("agent.provider", "gemini")
	v.SetDefault("agent.api_key", "")
	v.SetDefault("agent.model", "gemini-2.0-flash")
	v.SetDefault("agent.max_tool_turns", 8)
	v.SetDefault("agent.timeout_secs", 120)

	// Query defaults
	v.SetDefault("query.default_limit", 200)
	v.SetDefault("query.max_cell_length", 1000)
	v.SetDefault("query.fuzzy_limit", 10)
	v.SetDefault("query.fuzzy_threshold", 0.3)

	// Archive defaults
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.bucket", "finsight-raw-exports")
	v.SetDefault("archive.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":           "FINSIGHT_SERVER_PORT",
		"server.read_timeout":   "FINSIGHT_SERVER_READ_TIMEOUT",
		"server.write_timeout":  "FINSIGHT_SERVER_WRITE_TIMEOUT",
		"server.environment":    "FINSIGHT_SERVER_ENVIRONMENT",
		"db.host":               "FINSIGHT_DB_HOST",
		"db.port":               "FINSIGHT_DB_PORT",
		"db.user":               "FINSIGHT_DB_USER",
		"db.password":           "FINSIGHT_DB_PASSWORD",
		"db.name":               "FINSIGHT_DB_NAME",
		"db.sslmode":            "FINSIGHT_DB_SSLMODE",
		"db.max_open":           "FINSIGHT_DB_MAX_OPEN",
		"db.max_idle":           "FINSIGHT_DB_MAX_IDLE",
		"agent.provider":        "FINSIGHT_AGENT_PROVIDER",
		"agent.api_key":         "FINSIGHT_AGENT_API_KEY",
		"agent.model":           "FINSIGHT_AGENT_MODEL",
		"agent.max_tool_turns":  "FINSIGHT_AGENT_MAX_TOOL_TURNS",
		"agent.timeout_secs":    "FINSIGHT_AGENT_TIMEOUT_SECS",
		"query.default_limit":   "FINSIGHT_QUERY_DEFAULT_LIMIT",
		"query.max_cell_length": "FINSIGHT_QUERY_MAX_CELL_LENGTH",
		"query.fuzzy_limit":     "FINSIGHT_QUERY_FUZZY_LIMIT",
		"query.fuzzy_threshold": "FINSIGHT_QUERY_FUZZY_THRESHOLD",
		"archive.enabled":       "FINSIGHT_ARCHIVE_ENABLED",
		"archive.region":        "FINSIGHT_ARCHIVE_REGION",
		"archive.bucket":        "FINSIGHT_ARCHIVE_BUCKET",
		"archive.endpoint":      "FINSIGHT_ARCHIVE_ENDPOINT",
		"archive.access_key":    "FINSIGHT_ARCHIVE_ACCESS_KEY",
		"archive.secret_key":    "FINSIGHT_ARCHIVE_SECRET_KEY",
		"log.level":             "FINSIGHT_LOG_LEVEL",
		"log.format":            "FINSIGHT_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if FINSIGHT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FINSIGHT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	// GEMINI_API_KEY is the conventional variable for the Gemini SDK; honor it
	// when the prefixed key is not set.
	agentKey := v.GetString("agent.api_key")
	if agentKey == "" {
		agentKey = os.Getenv("GEMINI_API_KEY")
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Agent = AgentConfig{
		Provider:     v.GetString("agent.provider"),
		APIKey:       agentKey,
		Model:        v.GetString("agent.model"),
		MaxToolTurns: v.GetInt("agent.max_tool_turns"),
		TimeoutSecs:  v.GetInt("agent.timeout_secs"),
	}
	cfg.Query = QueryConfig{
		DefaultLimit:   v.GetInt("query.default_limit"),
		MaxCellLength:  v.GetInt("query.max_cell_length"),
		FuzzyLimit:     v.GetInt("query.fuzzy_limit"),
		FuzzyThreshold: v.GetFloat64("query.fuzzy_threshold"),
	}
	cfg.Archive = ArchiveConfig{
		Enabled:   v.GetBool("archive.enabled"),
		Region:    v.GetString("archive.region"),
		Bucket:    v.GetString("archive.bucket"),
		Endpoint:  v.GetString("archive.endpoint"),
		AccessKey: v.GetString("archive.access_key"),
		SecretKey: v.GetString("archive.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
