package landing

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a YAML content file. Fields missing from the file
// keep their built-in defaults.
func Load(fs afero.Fs, path string) (*Content, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read content file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML content on top of the defaults and validates it.
func Parse(data []byte) (*Content, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentInvalid, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Source serves the current page content. When backed by a file it can
// reload it on change; a file that fails to load leaves the previous
// content in place.
type Source struct {
	fs   afero.Fs
	path string

	mu      sync.RWMutex
	current *Content
	loaded  chan struct{}
}

// NewSource creates a Source. An empty path serves Default().
func NewSource(fs afero.Fs, path string) (*Source, error) {
	s := &Source{fs: fs, path: path, current: Default(), loaded: make(chan struct{}, 1)}
	if path == "" {
		return s, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Static wraps fixed content, mostly for tests.
func Static(c *Content) *Source {
	return &Source{current: c, loaded: make(chan struct{}, 1)}
}

// Content returns the content currently served.
func (s *Source) Content() *Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Path returns the backing file, if any.
func (s *Source) Path() string { return s.path }

// Reload re-reads the backing file.
func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}
	c, err := Load(s.fs, s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()

	select {
	case s.loaded <- struct{}{}:
	default:
	}
	return nil
}

// Watch reloads the content file whenever it changes until ctx is done.
// The file's directory is watched so editors that replace the file on save
// are picked up.
func (s *Source) Watch(ctx context.Context) error {
	if s.path == "" {
		slog.Info("No content file configured, skipping content watcher")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create content watcher: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	slog.Debug("Started content watcher", "file", s.path)
	go s.watchLoop(ctx, watcher)
	return nil
}

func (s *Source) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer func() {
		watcher.Close()
		slog.Info("Content watcher stopped")
	}()

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				slog.Error("Content reload failed, keeping previous content", "file", s.path, "error", err)
				continue
			}
			slog.Info("Content reloaded", "file", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Content watcher error", "error", err)
		}
	}
}

// reloaded is signalled after each successful reload. It is buffered by one
// so a reload is never lost between reads.
func (s *Source) reloaded() <-chan struct{} { return s.loaded }
