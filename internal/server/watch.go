package server

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/formulate/pkg/backend"
)

const reloadDebounce = 100 * time.Millisecond

// watchBackends reloads the backends directory whenever a backend file is
// written or created, until ctx is cancelled.
func (s *Server) watchBackends(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.cfg.BackendsDir); err != nil {
		s.logger.Error("failed to watch backends directory", "dir", s.cfg.BackendsDir, "error", err)
		// Keep serving without reloads.
		<-ctx.Done()
		return nil
	}
	s.logger.Debug("watching backends directory", "dir", s.cfg.BackendsDir)

	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
	)
	defer func() {
		mu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isBackendFile(event.Name) {
				continue
			}

			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				s.logger.Debug("backend file changed, reloading", "file", event.Name)
				s.reloadBackends()
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reloadBackends registers every backend that loads cleanly and notifies
// subscribers. Files that fail keep their previously registered backend.
func (s *Server) reloadBackends() {
	loaded, err := backend.LoadDir(s.cfg.BackendsDir)
	names := make([]string, 0, len(loaded))
	for _, b := range loaded {
		backend.Register(b)
		names = append(names, b.Name())
	}
	if err != nil {
		s.logger.Error("failed to reload some backends", "error", err)
	}
	s.logger.Info("backends reloaded", "backends", names)
	s.reloads.Broadcast(ReloadEvent{Backends: names, Err: err})
}

func isBackendFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
