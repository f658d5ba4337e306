package reload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/logging"
)

// Change is a debounced batch of modified paths
type Change struct {
	Paths []string
	At    time.Time
}

// Watcher watches source directories and emits debounced changes
type Watcher struct {
	fs     *fsnotify.Watcher
	roots  []string
	filter *Filter
	delay  time.Duration
	logger *logging.Logger

	changes chan Change
	mu      sync.Mutex
	watched map[string]struct{}
}

// New creates a watcher over cfg.Dirs. Every directory below each root is
// registered with fsnotify, which does not recurse on its own.
func New(cfg config.ReloadConfig, logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	filter, err := NewFilter(cfg.Includes, cfg.Excludes)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	dirs := cfg.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	w := &Watcher{
		fs:      fw,
		filter:  filter,
		delay:   cfg.Delay,
		logger:  logger.Named("reload"),
		changes: make(chan Change, 1),
		watched: make(map[string]struct{}),
	}

	for _, dir := range dirs {
		root, err := filepath.Abs(dir)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve reload dir %q: %w", dir, err)
		}
		if err := w.addTree(root, root); err != nil {
			fw.Close()
			return nil, err
		}
		w.roots = append(w.roots, root)
	}

	w.logger.Info("Watching for changes",
		zap.Strings("dirs", w.roots),
		zap.Int("directories", w.Watched()),
	)

	return w, nil
}

// Changes delivers change batches until Run returns
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Watched returns the number of directories registered with fsnotify
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watched)
}

// Close releases the underlying watcher. It is only needed when Run is
// never started.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run processes file events until ctx is cancelled, then closes the
// underlying watcher and the Changes channel.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.changes)
	defer w.fs.Close()

	var (
		pending = make(map[string]struct{})
		timer   *time.Timer
		fire    <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.handle(event) {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			change := Change{Paths: make([]string, 0, len(pending)), At: time.Now()}
			for p := range pending {
				change.Paths = append(change.Paths, p)
			}
			sort.Strings(change.Paths)
			clear(pending)

			select {
			case w.changes <- change:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handle registers new directories and reports whether the event should
// count towards a reload
func (w *Watcher) handle(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}

	root, rel, ok := w.relative(event.Name)
	if !ok {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(root, event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return false
		}
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.mu.Lock()
		delete(w.watched, event.Name)
		w.mu.Unlock()
	}

	return w.filter.Match(rel)
}

func (w *Watcher) relative(path string) (root, rel string, ok bool) {
	for _, r := range w.roots {
		if rel, err := filepath.Rel(r, path); err == nil && rel != ".." && !startsWithParent(rel) {
			return r, rel, true
		}
	}
	return "", "", false
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}

// addTree walks dir and watches it and every non-excluded subdirectory.
// fastwalk calls the walk function from several goroutines.
func (w *Watcher) addTree(root, dir string) error {
	if rel, err := filepath.Rel(root, dir); err == nil && w.filter.SkipDir(rel) {
		return nil
	}

	var (
		mu   sync.Mutex
		dirs = []string{dir}
	)

	err := fastwalk.Walk(nil, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() || path == dir {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if w.filter.SkipDir(rel) {
			return filepath.SkipDir
		}
		mu.Lock()
		dirs = append(dirs, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan %q: %w", dir, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, d := range dirs {
		if _, ok := w.watched[d]; ok {
			continue
		}
		if err := w.fs.Add(d); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to watch %q: %w", d, err)
		}
		w.watched[d] = struct{}{}
	}
	return nil
}
