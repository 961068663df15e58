// ABOUTME: Watch mode: rebuilds on content or guide changes using fsnotify with a debounce window.
// ABOUTME: Editor write bursts collapse into one rebuild; the loop exits on context cancellation.
package build

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is how long the watcher waits after the last event before
// rebuilding. Editors commonly emit several writes per save.
const defaultDebounce = 300 * time.Millisecond

// WatchDirs watches the given directories (each with its immediate
// subdirectories) and debounces change events into rebuild calls.
// The initial build is the caller's responsibility. Blocks until ctx is
// cancelled.
func WatchDirs(ctx context.Context, dirs []string, rebuild func()) error {
	return watch(ctx, dirs, defaultDebounce, rebuild)
}

func watch(ctx context.Context, dirs []string, debounce time.Duration, rebuild func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, dir := range dirs {
		for _, d := range withSubdirs(dir) {
			if err := watcher.Add(d); err != nil {
				log.Printf("watch: cannot watch %s: %v", d, err)
				continue
			}
			watched++
		}
	}
	if watched == 0 {
		return fmt.Errorf("no watchable directories among %v", dirs)
	}
	log.Printf("watch: watching %d directories", watched)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(ev) {
				continue
			}
			// New subdirectories (a fresh category) get watched too.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watcher.Add(ev.Name); err != nil {
						log.Printf("watch: cannot watch %s: %v", ev.Name, err)
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				// An already-fired timer leaves a stale tick in the
				// channel; drain it or the next wait returns at once.
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)

		case <-timerC:
			timer = nil
			timerC = nil
			rebuild()
		}
	}
}

// relevantEvent filters out chmod-only noise and temp files.
func relevantEvent(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(ev.Name)
	if len(base) > 0 && base[0] == '.' {
		return false
	}
	return true
}

// withSubdirs returns dir plus its immediate subdirectories.
// fsnotify watches are not recursive; one level is enough for the
// content/<category>/ layout.
func withSubdirs(dir string) []string {
	out := []string{dir}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return out
	}
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}
