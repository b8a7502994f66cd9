package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	AdminKey       string        `mapstructure:"ADMIN_KEY"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	MapWidgetKey   string        `mapstructure:"MAP_WIDGET_KEY"`
	Geocoder       string        `mapstructure:"GEOCODER"`
	NominatimURL   string        `mapstructure:"NOMINATIM_URL"`
	Sbiz           SbizConfig    `mapstructure:",squash"`
	LLM            LLMConfig     `mapstructure:",squash"`
}

type SbizConfig struct {
	BaseURL           string        `mapstructure:"SBIZ_BASE_URL"`
	SessionCookie     string        `mapstructure:"SBIZ_SESSION_COOKIE"`
	Timeout           time.Duration `mapstructure:"SBIZ_TIMEOUT"`
	FallbackTimeout   time.Duration `mapstructure:"SBIZ_FALLBACK_TIMEOUT"`
	StoreStatusKey    string        `mapstructure:"SBIZ_STOR_STATUS_KEY"`
	SalesTrendKey     string        `mapstructure:"SBIZ_SALES_TREND_KEY"`
	DeliveryKey       string        `mapstructure:"SBIZ_DELIVERY_KEY"`
	HotPlaceKey       string        `mapstructure:"SBIZ_HOTPLACE_KEY"`
	SimpleKey         string        `mapstructure:"SBIZ_SIMPLE_KEY"`
	StartupClimateKey string        `mapstructure:"SBIZ_STARTUP_CLIMATE_KEY"`
}

type LLMConfig struct {
	Provider        string        `mapstructure:"LLM_PROVIDER"`
	OpenAIAPIKey    string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL   string        `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel     string        `mapstructure:"OPENAI_MODEL"`
	AnthropicAPIKey string        `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicModel  string        `mapstructure:"ANTHROPIC_MODEL"`
	Timeout         time.Duration `mapstructure:"LLM_TIMEOUT"`
}

var defaults = map[string]any{
	"ENV":                      "dev",
	"PORT":                     "8080",
	"LOG_LEVEL":                "info",
	"CORS_ALLOWED_ORIGINS":     "*",
	"ADMIN_KEY":                "",
	"REQUEST_TIMEOUT":          "60s",
	"MAP_WIDGET_KEY":           "",
	"GEOCODER":                 "table",
	"NOMINATIM_URL":            "https://nominatim.openstreetmap.org",
	"SBIZ_BASE_URL":            "https://bigdata.sbiz.or.kr",
	"SBIZ_SESSION_COOKIE":      "",
	"SBIZ_TIMEOUT":             "10s",
	"SBIZ_FALLBACK_TIMEOUT":    "5s",
	"SBIZ_STOR_STATUS_KEY":     "",
	"SBIZ_SALES_TREND_KEY":     "",
	"SBIZ_DELIVERY_KEY":        "",
	"SBIZ_HOTPLACE_KEY":        "",
	"SBIZ_SIMPLE_KEY":          "",
	"SBIZ_STARTUP_CLIMATE_KEY": "",
	"LLM_PROVIDER":             "openai",
	"OPENAI_API_KEY":           "",
	"OPENAI_BASE_URL":          "https://api.openai.com/v1",
	"OPENAI_MODEL":             "gpt-4",
	"ANTHROPIC_API_KEY":        "",
	"ANTHROPIC_MODEL":          "",
	"LLM_TIMEOUT":              "45s",
}

// Load reads .env when present, then the environment. Every key carries a
// default so that Unmarshal sees environment-only values.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.Sbiz.StartupClimateKey) == "" {
		cfg.Sbiz.StartupClimateKey = cfg.Sbiz.SimpleKey
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production")
}
