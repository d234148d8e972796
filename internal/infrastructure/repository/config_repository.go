package repository

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/OliveiraNt/maned-bridge/internal/config"
	"github.com/OliveiraNt/maned-bridge/internal/domain"
	"github.com/OliveiraNt/maned-bridge/internal/utils"
)

const debounceDelay = 350 * time.Millisecond

// ConfigRepository holds the current broker configuration loaded from a YAML
// file and swaps it when the file changes.
type ConfigRepository struct {
	mu         sync.RWMutex
	configData config.BrokerConfig
	configPath string
	watcher    *fsnotify.Watcher
	listeners  []func(old, cur config.BrokerConfig)
}

var _ domain.ConfigProvider = (*ConfigRepository)(nil)

// NewConfigRepository creates a repository for configPath holding the
// environment overrides and defaults until LoadFromFile succeeds.
func NewConfigRepository(configPath string) *ConfigRepository {
	cfg, err := config.FromEnv()
	if err != nil {
		cfg = config.BrokerConfig{}
		cfg.ApplyDefaults()
	}
	return &ConfigRepository{
		configData: cfg,
		configPath: configPath,
	}
}

// Path returns the watched file.
func (r *ConfigRepository) Path() string {
	return r.configPath
}

// LoadFromFile reads the file and replaces the snapshot. A missing file
// falls back to the environment alone. An unreadable or invalid file leaves
// the previous snapshot in place.
func (r *ConfigRepository) LoadFromFile() error {
	cfg, err := config.ReadConfig(r.configPath)
	if errors.Is(err, fs.ErrNotExist) {
		envCfg, envErr := config.FromEnv()
		if envErr != nil || envCfg.Validate() != nil {
			return err
		}
		cfg, err = envCfg, nil
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.swap(cfg)
	return nil
}

// Save persists cfg and makes it current.
func (r *ConfigRepository) Save(cfg config.BrokerConfig) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	dir := filepath.Dir(r.configPath)
	_ = os.MkdirAll(dir, 0755)
	if err := config.WriteConfig(r.configPath, cfg); err != nil {
		return err
	}
	r.swap(cfg)
	return nil
}

// Current returns a copy of the active configuration.
func (r *ConfigRepository) Current() config.BrokerConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.configData.Clone()
}

// OnChange registers fn to run after every successful swap.
func (r *ConfigRepository) OnChange(fn func(old, cur config.BrokerConfig)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

func (r *ConfigRepository) swap(cfg config.BrokerConfig) {
	r.mu.Lock()
	old := r.configData
	r.configData = cfg
	listeners := append([]func(old, cur config.BrokerConfig){}, r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(old.Clone(), cfg.Clone())
	}
}

// Watch sets a fsnotify watcher on the file for hot reload
func (r *ConfigRepository) Watch() error {
	abs, err := filepath.Abs(r.configPath)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return err
	}

	r.mu.Lock()
	r.watcher = w
	r.mu.Unlock()

	go func() {
		reload := func() {
			for i := 0; i < 10; i++ {
				if _, err := os.Stat(abs); err == nil {
					break
				}
				time.Sleep(100 * time.Millisecond)
			}

			utils.Logger.Info("config file changed", "path", abs)
			if err := r.LoadFromFile(); err != nil {
				utils.Logger.Error("config reload failed, keeping previous", "path", abs, "err", err)
			}
		}

		var timer *time.Timer
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					if timer != nil {
						timer.Stop()
					}
					return
				}
				if ev.Name != abs {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if timer == nil {
					timer = time.AfterFunc(debounceDelay, reload)
				} else {
					timer.Reset(debounceDelay)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				utils.Logger.Warn("config watcher error", "err", err)
			}
		}
	}()

	return nil
}

// Close stops the watcher.
func (r *ConfigRepository) Close() error {
	r.mu.Lock()
	w := r.watcher
	r.watcher = nil
	r.mu.Unlock()
	if w == nil {
		return nil
	}
	return w.Close()
}
