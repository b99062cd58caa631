package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/oauth2"
)

// fileTokenLifetime bounds how long callers cache a token from a file, so a
// reload reaches them without a restart.
const fileTokenLifetime = 30 * time.Second

// FileTokenSource hands out the token stored in a file, typically a
// projected Kubernetes secret or a sidecar-refreshed token. Call Watch to
// pick up changes.
type FileTokenSource struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	token string
}

// NewFileTokenSource reads path once and fails when it is missing or empty.
func NewFileTokenSource(path string, logger *slog.Logger) (*FileTokenSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &FileTokenSource{path: filepath.Clean(path), logger: logger}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Token implements oauth2.TokenSource.
func (s *FileTokenSource) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	tok := s.token
	s.mu.RUnlock()
	return &oauth2.Token{
		AccessToken: tok,
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(fileTokenLifetime),
	}, nil
}

func (s *FileTokenSource) reload() error {
	tok, err := FromFile(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
	return nil
}

// Watch reloads the token whenever the file's directory changes. The
// directory is watched rather than the file because secret mounts are
// updated by swapping a symlink. A failed reload keeps the previous token.
// Blocks until ctx is done.
func (s *FileTokenSource) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("credentials: create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("credentials: watch dir %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				if err := s.reload(); err != nil {
					s.logger.Warn("token file reload failed, keeping previous token", "path", s.path, "error", err)
					continue
				}
				s.logger.Info("token file reloaded", "path", s.path, "op", event.Op.String())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("token file watcher error", "error", err)
		}
	}
}
