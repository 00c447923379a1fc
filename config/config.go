// Package config loads settings from config/config.yaml, .env and CHORALE_ variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/jsphweid/chorale/constants"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Midi     MidiConfig     `mapstructure:"midi"`
	Practice PracticeConfig `mapstructure:"practice"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	// RateLimit is requests per second across all clients; 0 disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
	// MaxBody caps request bodies in bytes; 0 disables the cap.
	MaxBody int64 `mapstructure:"max_body"`
}

type MidiConfig struct {
	Port int `mapstructure:"port"`
}

type PracticeConfig struct {
	DebounceMs int `mapstructure:"debounce_ms"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", constants.DefaultServerPort)
	v.SetDefault("server.rate_limit", 50)
	v.SetDefault("server.burst", 100)
	v.SetDefault("server.max_body", 1<<20) // 1 MiB

	v.SetDefault("midi.port", constants.DefaultMidiPort)

	v.SetDefault("practice.debounce_ms", 50)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 10) // MB
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 7) // days
	v.SetDefault("logging.compress", true)
}

// Loader owns the viper instance and the most recently decoded Config.
type Loader struct {
	v    *viper.Viper
	mu   sync.RWMutex
	conf Config
}

// Load reads defaults, then <root>/config/config.yaml if present, then the
// environment. A .env file in root is loaded first without overriding
// variables that are already set.
func Load(root string) (*Loader, error) {
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "error reading .env")
	}

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(filepath.Join(root, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(constants.EnvPrefix) // e.g. CHORALE_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "error reading config file")
		}
	}

	l := &Loader{v: v}
	if err := l.decode(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Loader) decode() error {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return errors.Wrap(err, "unable to decode config into struct")
	}
	l.mu.Lock()
	l.conf = c
	l.mu.Unlock()
	return nil
}

// Get returns a copy of the current configuration.
func (l *Loader) Get() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.conf
}

// Viper exposes the underlying instance so commands can bind flags to keys.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Refresh re-decodes after flags have been bound.
func (l *Loader) Refresh() error {
	return l.decode()
}

// Watch reloads the configuration whenever the config file changes. It is a
// no-op when no config file was found.
func (l *Loader) Watch(log *zap.Logger, onChange func(Config)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("configuration file changed, reloading", zap.String("file", e.Name))
		if err := l.decode(); err != nil {
			log.Error("error reloading configuration", zap.Error(err))
			return
		}
		if onChange != nil {
			onChange(l.Get())
		}
	})
	l.v.WatchConfig()
}
