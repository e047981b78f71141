package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("CAROUSEL_INTERVAL", "")
	t.Setenv("SESSION_SECRET", "")

	cfg := FromEnv()

	assert.Equal(t, DefaultAPIBaseURL, cfg.GetAPIBaseURL())
	assert.Equal(t, ":8080", cfg.GetServerAddr())
	assert.Equal(t, 4*time.Second, cfg.GetCarouselInterval())
	assert.Equal(t, 1500*time.Millisecond, cfg.GetSuccessDelay())
	assert.NotEmpty(t, cfg.GetSessionSecret(), "a development secret should be filled in")
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.learnova.dev/")
	t.Setenv("CAROUSEL_INTERVAL", "2500")
	t.Setenv("SUCCESS_DELAY", "2s")
	t.Setenv("CONTENT_WATCH", "true")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SUBSCRIBERS_FILE", "data/subscribers.txt")
	t.Setenv("STATIC_DIR", "web/static")

	cfg := FromEnv()

	assert.Equal(t, "https://api.learnova.dev", cfg.GetAPIBaseURL(), "trailing slash is trimmed")
	assert.Equal(t, 2500*time.Millisecond, cfg.GetCarouselInterval())
	assert.Equal(t, 2*time.Second, cfg.GetSuccessDelay())
	assert.True(t, cfg.GetContentWatch())
	assert.Equal(t, "s3cret", cfg.GetSessionSecret())
	assert.Equal(t, "data/subscribers.txt", cfg.GetSubscribersFile())
	assert.Equal(t, "web/static", cfg.GetStaticDir())
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CONTENT_WATCH", "sometimes")
	t.Setenv("API_TIMEOUT", "soon")

	cfg := FromEnv()

	assert.False(t, cfg.GetContentWatch())
	assert.Equal(t, 10*time.Second, cfg.GetAPITimeout())
}

func TestFromEnv_Tracing(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("ZIPKIN_URL", "http://zipkin:9411/api/v2/spans")

	cfg := FromEnv()

	assert.True(t, cfg.GetTracingEnabled())
	assert.Equal(t, "learnova", cfg.GetTracingServiceName())
	assert.Equal(t, "http://zipkin:9411/api/v2/spans", cfg.GetZipkinURL())
}
