package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	gLock   sync.RWMutex
	gConfig = Default()
)

func decode(path string, r io.Reader, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.NewDecoder(r).Decode(config)
	case ".json":
		return json.NewDecoder(r).Decode(config)
	}
	return fmt.Errorf("unknown config format %q", path)
}

func configFromFile(path string) (*Config, error) {
	// Fields missing from the file keep their defaults.
	config := Default()
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := decode(path, f, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	log.Infof("Loaded configuration: %v", spew.Sdump(config))
	return config, nil
}

// Get returns the current configuration. The result must not be modified.
func Get() *Config {
	gLock.RLock()
	defer gLock.RUnlock()
	return gConfig
}

func set(config *Config) {
	gLock.Lock()
	defer gLock.Unlock()
	gConfig = config
}

func waitForChange(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-watcher.Errors:
		return err
	case <-watcher.Events:
	}
	// Let the writer finish before reading.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Second / 10):
	}
	return ctx.Err()
}

// Load reads the configuration at path and keeps reloading it whenever the
// file changes, until ctx is done. A reload that fails keeps the previous
// configuration.
func Load(ctx context.Context, path string) error {
	config, err := configFromFile(path)
	if err != nil {
		return err
	}
	set(config)
	go func() {
		for ctx.Err() == nil {
			if err := waitForChange(ctx, path); err != nil {
				if ctx.Err() == nil {
					log.Errorf("Error waiting for file change: %v", err)
					// Editors may replace the file; give it time to reappear.
					time.Sleep(time.Second)
				}
				continue
			}

			config, err := configFromFile(path)
			if err != nil {
				log.Errorf("Failed to load new config: %v", err)
				continue
			}
			set(config)
		}
	}()
	return nil
}
