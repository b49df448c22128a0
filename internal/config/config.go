package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV" validate:"oneof=dev test prod"`
	Port           string        `mapstructure:"PORT" validate:"required,numeric"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gt=0"`
	AdminKey       string        `mapstructure:"ADMIN_KEY"`

	WarehouseDriver       string        `mapstructure:"WAREHOUSE_DRIVER" validate:"oneof=bigquery postgres postgresql"`
	WarehouseTable        string        `mapstructure:"WAREHOUSE_TABLE" validate:"required"`
	GCPProjectID          string        `mapstructure:"GCP_PROJECT_ID" validate:"required_if=WarehouseDriver bigquery"`
	GoogleCredentialsJSON string        `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS_JSON"`
	BQJobTimeout          time.Duration `mapstructure:"BQ_JOB_TIMEOUT"`
	BQMaxBytesBilled      int64         `mapstructure:"BQ_MAX_BYTES_BILLED" validate:"gte=0"`
	DatabaseURL           string        `mapstructure:"DATABASE_URL"`

	GenAIBaseURL        string        `mapstructure:"GENAI_BASE_URL"`
	GenAIAPIKey         string        `mapstructure:"GENAI_API_KEY"`
	GenAIModels         string        `mapstructure:"GENAI_MODELS"`
	GenAIAttemptTimeout time.Duration `mapstructure:"GENAI_ATTEMPT_TIMEOUT" validate:"gt=0"`
	GenAIMaxTokens      int           `mapstructure:"GENAI_MAX_TOKENS" validate:"gte=0"`

	QueryMode          string `mapstructure:"QUERY_MODE" validate:"oneof=rules hybrid llm"`
	ChartMaxPoints     int    `mapstructure:"CHART_MAX_POINTS" validate:"gt=0"`
	CardMax            int    `mapstructure:"CARD_MAX" validate:"gt=0"`
	CardRowThreshold   int    `mapstructure:"CARD_ROW_THRESHOLD" validate:"gt=0"`
	RecentDefaultLimit int    `mapstructure:"RECENT_DEFAULT_LIMIT" validate:"gt=0"`
	RecentMaxLimit     int    `mapstructure:"RECENT_MAX_LIMIT" validate:"gtefield=RecentDefaultLimit"`
	PageSize           int    `mapstructure:"PAGE_SIZE" validate:"gt=0"`
	RawDataMax         int    `mapstructure:"RAW_DATA_MAX" validate:"gte=0"`
	NarratorSampleRows int    `mapstructure:"NARRATOR_SAMPLE_ROWS" validate:"gte=0"`
}

var keys = []string{
	"ENV", "PORT", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS", "REQUEST_TIMEOUT", "ADMIN_KEY",
	"WAREHOUSE_DRIVER", "WAREHOUSE_TABLE", "GCP_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS_JSON",
	"BQ_JOB_TIMEOUT", "BQ_MAX_BYTES_BILLED", "DATABASE_URL",
	"GENAI_BASE_URL", "GENAI_API_KEY", "GENAI_MODELS", "GENAI_ATTEMPT_TIMEOUT", "GENAI_MAX_TOKENS",
	"QUERY_MODE", "CHART_MAX_POINTS", "CARD_MAX", "CARD_ROW_THRESHOLD",
	"RECENT_DEFAULT_LIMIT", "RECENT_MAX_LIMIT", "PAGE_SIZE", "RAW_DATA_MAX", "NARRATOR_SAMPLE_ROWS",
}

func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile reads an optional env file, then the process environment, which
// takes precedence.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("WAREHOUSE_DRIVER", "bigquery")
	v.SetDefault("BQ_JOB_TIMEOUT", "30s")
	v.SetDefault("BQ_MAX_BYTES_BILLED", int64(1<<30))
	v.SetDefault("GENAI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai")
	v.SetDefault("GENAI_MODELS", "gemini-2.0-flash,gemini-1.5-flash")
	v.SetDefault("GENAI_ATTEMPT_TIMEOUT", "20s")
	v.SetDefault("GENAI_MAX_TOKENS", 1024)
	v.SetDefault("QUERY_MODE", "hybrid")
	v.SetDefault("CHART_MAX_POINTS", 15)
	v.SetDefault("CARD_MAX", 15)
	v.SetDefault("CARD_ROW_THRESHOLD", 20)
	v.SetDefault("RECENT_DEFAULT_LIMIT", 50)
	v.SetDefault("RECENT_MAX_LIMIT", 500)
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("RAW_DATA_MAX", 100)
	v.SetDefault("NARRATOR_SAMPLE_ROWS", 5)

	// AutomaticEnv only covers keys viper already knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.WarehouseDriver = strings.ToLower(cfg.WarehouseDriver)
	cfg.QueryMode = strings.ToLower(cfg.QueryMode)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Models splits GENAI_MODELS into an ordered, de-duplicated list.
func (c Config) Models() []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range strings.Split(c.GenAIModels, ",") {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// GenAIEnabled reports whether a generative endpoint is configured.
func (c Config) GenAIEnabled() bool {
	return strings.TrimSpace(c.GenAIBaseURL) != "" && strings.TrimSpace(c.GenAIAPIKey) != "" && len(c.Models()) > 0
}

func (c Config) IsDev() bool {
	return c.Env == "dev"
}
