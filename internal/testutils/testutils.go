// Package testutils holds helpers shared by package tests.
package testutils

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nfrund/learnova/internal/config"
)

// TestSessionSecret signs session cookies in tests.
const TestSessionSecret = "a-very-secret-key-for-testing-!"

// ConfigForTests returns a configuration that needs no environment: a free
// local port, an API address nothing listens on, quiet logs and a subscriber
// file in a temporary directory.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		ServerAddr:         "127.0.0.1:0",
		APIBaseURL:         "http://127.0.0.1:1",
		APITimeout:         time.Second,
		SessionSecret:      TestSessionSecret,
		CarouselInterval:   4 * time.Second,
		SuccessDelay:       time.Second,
		VisitorTTL:         time.Minute,
		SubscribersFile:    filepath.Join(t.TempDir(), "subscribers.txt"),
		TracingServiceName: "learnova-test",
		LogFormat:          "text",
		LogLevel:           "error",
	}
}
