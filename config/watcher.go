package config

import (
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/rangelink/errors"
	"github.com/teranos/rangelink/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches the config layer files and reloads on change
type Watcher struct {
	opts            Options
	files           map[string]bool
	watcher         *fsnotify.Watcher
	callbacks       []ReloadCallback
	mu              sync.RWMutex
	debounceTimer   *time.Timer
	debouncePeriod  time.Duration
	isOwnWrite      bool // Flag to prevent reload loops
	isOwnWriteMutex sync.Mutex
}

// ReloadCallback is called with the freshly loaded config
type ReloadCallback func(*Config) error

// globalWatcher holds the watcher that persisted writes notify
var (
	globalWatcher   *Watcher
	globalWatcherMu sync.Mutex
)

var backupFilePattern = regexp.MustCompile(`\.back[0-9]+$`)

// NewWatcher watches the directories of every layer in opts. Directories are
// watched instead of files so that layers created later are picked up.
func NewWatcher(opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		opts:           opts,
		files:          make(map[string]bool),
		watcher:        fw,
		debouncePeriod: DefaultDebounce,
	}

	dirs := make(map[string]bool)
	for _, layer := range opts.Layers() {
		w.files[filepath.Clean(layer.Path)] = true
		dirs[filepath.Dir(layer.Path)] = true
	}

	watched := 0
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			logger.Debugw("Config directory not watched",
				logger.FieldPath, dir,
				logger.FieldError, err)
			continue
		}
		watched++
	}
	if watched == 0 {
		fw.Close()
		return nil, errors.New("no config directory could be watched")
	}

	return w, nil
}

// SetDebounce changes the debounce period
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debouncePeriod = d
}

// OnReload registers a callback to be called when config is reloaded
func (w *Watcher) OnReload(callback ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// MarkOwnWrite marks the next write as coming from us (prevents reload loops)
func (w *Watcher) MarkOwnWrite() {
	w.isOwnWriteMutex.Lock()
	defer w.isOwnWriteMutex.Unlock()
	w.isOwnWrite = true
}

// checkOwnWrite checks and clears the own-write flag
func (w *Watcher) checkOwnWrite() bool {
	w.isOwnWriteMutex.Lock()
	defer w.isOwnWriteMutex.Unlock()

	if w.isOwnWrite {
		w.isOwnWrite = false
		return true
	}
	return false
}

// Start begins watching for config file changes
func (w *Watcher) Start() {
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}

			if w.checkOwnWrite() {
				logger.Debugw("Config watcher ignoring own write",
					logger.FieldFile, event.Name)
				continue
			}

			logger.Infow("Config watcher detected change",
				logger.FieldFile, event.Name,
				logger.FieldOperation, event.Op.String())
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Config watcher error",
				logger.FieldError, err)
		}
	}
}

// relevant reports write, create, remove and rename events on layer files
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if isBackupFile(event.Name) || !w.files[filepath.Clean(event.Name)] {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// scheduleReload debounces rapid file changes and triggers reload
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		if err := w.reload(); err != nil {
			logger.Errorw("Config reload failed",
				logger.FieldError, err)
		}
	})
}

// reload loads the configuration again and calls all callbacks
func (w *Watcher) reload() error {
	cfg, err := Load(w.opts)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	logger.Infow("Config reloaded",
		logger.FieldCount, len(cfg.Files))

	w.mu.RLock()
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback(cfg); err != nil {
			// Continue calling other callbacks even if one fails
			logger.Warnw("Config reload callback error",
				logger.FieldError, err)
		}
	}
	return nil
}

// Stop stops watching for config changes
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

// isBackupFile checks if the file is a rotating backup (.back1, .back2, ...)
func isBackupFile(path string) bool {
	return backupFilePattern.MatchString(filepath.Base(path))
}

// SetGlobalWatcher sets the watcher that SetValue notifies of its own writes
func SetGlobalWatcher(w *Watcher) {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	globalWatcher = w
}

// GetGlobalWatcher returns the global watcher instance
func GetGlobalWatcher() *Watcher {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	return globalWatcher
}
