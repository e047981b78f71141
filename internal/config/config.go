package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL is the API origin used when API_BASE_URL is unset.
const DefaultAPIBaseURL = "http://localhost:3000"

// Provider exposes read-only access to application configuration.
// Handlers and services depend on this interface rather than the concrete struct
// so tests can supply small fakes.
type Provider interface {
	GetServerAddr() string
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
	GetSessionSecret() string
	GetContentFile() string
	GetContentWatch() bool
	GetCarouselInterval() time.Duration
	GetSuccessDelay() time.Duration
	GetVisitorTTL() time.Duration
	GetSubscribersFile() string
	GetStaticDir() string
	GetTracingEnabled() bool
	GetTracingServiceName() string
	GetZipkinURL() string
	GetLogFormat() string
	GetLogLevel() string
}

// Config holds all configuration for the application.
type Config struct {
	ServerAddr       string
	APIBaseURL       string
	APITimeout       time.Duration
	SessionSecret    string
	ContentFile      string
	ContentWatch     bool
	CarouselInterval time.Duration
	SuccessDelay     time.Duration
	VisitorTTL       time.Duration
	SubscribersFile  string
	StaticDir        string
	// Tracing exports event bus spans to Zipkin.
	TracingEnabled     bool
	TracingServiceName string
	ZipkinURL          string

	LogFormat string
	LogLevel  string
}

// New loads configuration from a .env file (if present) and the environment.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	cfg := &Config{
		ServerAddr:       getEnv("SERVER_ADDR", ":8080"),
		APIBaseURL:       strings.TrimRight(getEnv("API_BASE_URL", DefaultAPIBaseURL), "/"),
		APITimeout:       getEnvDuration("API_TIMEOUT", 10*time.Second),
		SessionSecret:    getEnv("SESSION_SECRET", ""),
		ContentFile:      getEnv("CONTENT_FILE", ""),
		ContentWatch:     getEnvBool("CONTENT_WATCH", false),
		CarouselInterval: getEnvDuration("CAROUSEL_INTERVAL", 4*time.Second),
		SuccessDelay:     getEnvDuration("SUCCESS_DELAY", 1500*time.Millisecond),
		VisitorTTL:       getEnvDuration("VISITOR_TTL", 30*time.Minute),
		SubscribersFile:  getEnv("SUBSCRIBERS_FILE", ""),
		StaticDir:        getEnv("STATIC_DIR", ""),

		TracingEnabled:     getEnvBool("TRACING_ENABLED", false),
		TracingServiceName: getEnv("TRACING_SERVICE_NAME", "learnova"),
		ZipkinURL:          getEnv("ZIPKIN_URL", "http://localhost:9411/api/v2/spans"),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
	}

	if cfg.SessionSecret == "" {
		log.Println("SESSION_SECRET is not set, using an insecure development secret")
		cfg.SessionSecret = "learnova-dev-session-secret-change-me"
	}

	return cfg
}

func (c *Config) GetServerAddr() string              { return c.ServerAddr }
func (c *Config) GetAPIBaseURL() string              { return c.APIBaseURL }
func (c *Config) GetAPITimeout() time.Duration       { return c.APITimeout }
func (c *Config) GetSessionSecret() string           { return c.SessionSecret }
func (c *Config) GetContentFile() string             { return c.ContentFile }
func (c *Config) GetContentWatch() bool              { return c.ContentWatch }
func (c *Config) GetCarouselInterval() time.Duration { return c.CarouselInterval }
func (c *Config) GetSuccessDelay() time.Duration     { return c.SuccessDelay }
func (c *Config) GetVisitorTTL() time.Duration       { return c.VisitorTTL }
func (c *Config) GetSubscribersFile() string         { return c.SubscribersFile }
func (c *Config) GetStaticDir() string               { return c.StaticDir }
func (c *Config) GetTracingEnabled() bool            { return c.TracingEnabled }
func (c *Config) GetTracingServiceName() string      { return c.TracingServiceName }
func (c *Config) GetZipkinURL() string               { return c.ZipkinURL }
func (c *Config) GetLogFormat() string               { return c.LogFormat }
func (c *Config) GetLogLevel() string                { return c.LogLevel }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid boolean for %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

// getEnvDuration accepts Go duration strings ("4s") or a bare number of milliseconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	log.Printf("Invalid duration for %s=%q, using %s", key, v, fallback)
	return fallback
}
