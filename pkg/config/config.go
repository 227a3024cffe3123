package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	CORS     CORSConfig
	Log      LogConfig
	Sessions SessionsConfig
	Calendar CalendarConfig
	Grading  GradingConfig
	Metrics  MetricsConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SessionsConfig tunes the in-memory session store. Sessions idle longer
// than TTL are evicted; CapacityWarnItems is an advisory threshold only.
type SessionsConfig struct {
	TTL               time.Duration
	CapacityWarnItems int
}

// CalendarConfig governs iCalendar export output.
type CalendarConfig struct {
	ProdID              string
	SemesterWeeks       int
	DefaultAlarmMinutes int
}

// GradingConfig selects the grading scale used when a profile declares none.
type GradingConfig struct {
	DefaultScale string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Sessions = SessionsConfig{
		TTL:               parseDuration(v.GetString("SESSION_TTL"), 12*time.Hour),
		CapacityWarnItems: v.GetInt("SESSION_CAPACITY_WARN_ITEMS"),
	}

	cfg.Calendar = CalendarConfig{
		ProdID:              v.GetString("CALENDAR_PROD_ID"),
		SemesterWeeks:       v.GetInt("CALENDAR_SEMESTER_WEEKS"),
		DefaultAlarmMinutes: v.GetInt("CALENDAR_DEFAULT_ALARM_MINUTES"),
	}

	cfg.Grading = GradingConfig{
		DefaultScale: v.GetString("GRADING_DEFAULT_SCALE"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("SESSION_CAPACITY_WARN_ITEMS", 500)

	v.SetDefault("CALENDAR_PROD_ID", "-//Dersly//Student Planner//EN")
	v.SetDefault("CALENDAR_SEMESTER_WEEKS", 14)
	v.SetDefault("CALENDAR_DEFAULT_ALARM_MINUTES", 60)

	v.SetDefault("GRADING_DEFAULT_SCALE", "4.0 double letter")

	v.SetDefault("ENABLE_METRICS", false)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
