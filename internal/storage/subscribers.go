// Package storage persists newsletter sign-ups from the landing page footer.
package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// SubscriberStore records newsletter subscriptions.
type SubscriberStore interface {
	// Add stores email and reports whether it was new.
	Add(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]string, error)
}

// AferoSubscribers keeps one address per line in a file on an afero
// filesystem. Addresses are compared case-insensitively.
type AferoSubscribers struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewAferoSubscribers creates a store writing to path on fs.
func NewAferoSubscribers(fs afero.Fs, path string) *AferoSubscribers {
	return &AferoSubscribers{fs: fs, path: path}
}

// Add appends email unless it is already listed.
func (s *AferoSubscribers) Add(ctx context.Context, email string) (bool, error) {
	email = normalize(email)
	if email == "" {
		return false, errors.New("email is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readLocked()
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if e == email {
			return false, nil
		}
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create subscriber directory: %w", err)
	}
	f, err := s.fs.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return false, fmt.Errorf("failed to open subscriber file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(email + "\n"); err != nil {
		return false, fmt.Errorf("failed to write subscriber: %w", err)
	}
	return true, nil
}

// List returns every stored address in sign-up order.
func (s *AferoSubscribers) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *AferoSubscribers) readLocked() ([]string, error) {
	f, err := s.fs.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open subscriber file: %w", err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := normalize(scanner.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subscriber file: %w", err)
	}
	return out, nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
