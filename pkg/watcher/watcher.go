package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ReadToken reads a token file, trimming surrounding whitespace
func ReadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// TokenWatcher calls back with the new token whenever the token file changes
type TokenWatcher struct {
	path     string
	debounce time.Duration
	logger   *zap.Logger
	onChange func(token string)
	last     string
}

// NewTokenWatcher creates a watcher for path. initial is the token already in
// use; unchanged contents do not trigger the callback.
func NewTokenWatcher(path, initial string, onChange func(string), logger *zap.Logger) *TokenWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenWatcher{
		path:     path,
		debounce: DefaultDebounceDuration,
		logger:   logger,
		onChange: onChange,
		last:     initial,
	}
}

// SetDebounce overrides the debounce window
func (w *TokenWatcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run watches until ctx is cancelled. The parent directory is watched so that
// atomic replace-by-rename is picked up.
func (w *TokenWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolving token path: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	deb := newDebouncer(w.debounce)
	defer deb.stop()

	changes := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			deb.trigger(func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			})
		case <-changes:
			w.reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("token watcher error", zap.Error(err))
		}
	}
}

func (w *TokenWatcher) reload() {
	token, err := ReadToken(w.path)
	if err != nil {
		w.logger.Warn("token file unreadable", zap.String("path", w.path), zap.Error(err))
		return
	}
	if token == w.last {
		return
	}
	w.last = token
	w.logger.Info("access token reloaded", zap.String("path", w.path))
	if w.onChange != nil {
		w.onChange(token)
	}
}

// Watch reads the current token from path and then follows the file until
// ctx is cancelled, calling onChange with each new token.
func Watch(ctx context.Context, path string, onChange func(string), logger *zap.Logger) error {
	initial, err := ReadToken(path)
	if err != nil {
		return err
	}
	return NewTokenWatcher(path, initial, onChange, logger).Run(ctx)
}
