// Package tokens maintains the employee device-token registry used for
// push delivery. The registry is a YAML file owned by the mobile
// backoffice; Hermod reads it and hot-reloads on change.
package tokens

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

type registryFile struct {
	Tokens map[string]string `yaml:"tokens"`
}

// Registry maps employee ids to device tokens.
type Registry struct {
	path string

	mu     sync.RWMutex
	tokens map[string]string
}

// NewRegistry loads the registry from path. A missing file is not an
// error; the registry starts empty and fills on the first reload.
func NewRegistry(path string) (*Registry, error) {
	r := &Registry{path: path, tokens: map[string]string{}}
	if err := r.Reload(); err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, err
	}
	return r, nil
}

// Get returns the device token registered for an employee, or "" when
// none is registered.
func (r *Registry) Get(ownerID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tokens[ownerID]
}

// Len returns the number of registered tokens.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens)
}

// Reload re-reads the registry file and swaps the token map.
func (r *Registry) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return err
	}
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("tokens: parse %s: %w", r.path, err)
	}
	if f.Tokens == nil {
		f.Tokens = map[string]string{}
	}
	r.mu.Lock()
	r.tokens = f.Tokens
	r.mu.Unlock()
	return nil
}

// Watch reloads the registry whenever its file changes, until ctx is
// cancelled. Editors often replace files via rename, so the parent
// directory is watched rather than the file itself.
func (r *Registry) Watch(ctx context.Context, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(r.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("tokens: watch %s: %w", dir, err)
	}

	logger.Info("token registry: watching", slog.String("path", r.path))

	// Debounce bursts of write events from atomic-save editors.
	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("token registry: stopped")
			return nil

		case <-reloadCh:
			if err := r.Reload(); err != nil {
				logger.Warn("token registry: reload failed",
					slog.String("path", r.path),
					slog.String("error", err.Error()))
			} else {
				logger.Info("token registry: reloaded", slog.Int("tokens", r.Len()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(r.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("token registry: watch error", slog.String("error", err.Error()))
		}
	}
}
