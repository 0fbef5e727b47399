package content

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store serves the current site and swaps it on reload.
type Store struct {
	mu     sync.RWMutex
	site   *Site
	path   string
	logger *zap.Logger
}

// NewStore loads path (or the built-in site when empty).
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	site, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{site: site, path: path, logger: logger}, nil
}

func (s *Store) Current() *Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

// Reload re-reads the file. On failure the previous site stays current.
func (s *Store) Reload() error {
	site, err := Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.site = site
	s.mu.Unlock()
	return nil
}

// Watch reloads the site whenever its file changes, until ctx is done.
// The parent directory is watched so editors that replace the file by
// rename are picked up.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create content watcher: %w", err)
	}
	abs, err := filepath.Abs(s.path)
	if err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				if err := s.Reload(); err != nil {
					s.logger.Warn("Content reload failed, keeping previous site",
						zap.String("path", s.path), zap.Error(err))
					continue
				}
				s.logger.Info("Content reloaded", zap.String("path", s.path))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.logger.Warn("Content watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
