// Package config holds the server configuration, loaded with viper from an
// optional config file on top of built-in defaults. The file is watched for
// changes; settings read through Get on each use (connection timeouts) pick
// up changes live, everything else applies on the next restart.
package config

import (
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	DefaultDBPath      = "data.db"
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 6969
	DefaultLogLevel    = "info"
	DefaultIdleTimeout = 5 * time.Minute
)

type Config struct {
	DBPath      string        // Path of the append-only log file
	Host        string        // Listen address of the TCP server
	Port        int           // Listen port of the TCP server
	LogLevel    string        // zap log level: debug, info, warn, error
	IdleTimeout time.Duration // Per-connection idle timeout, 0 disables
}

var (
	conf *Config
	mu   sync.RWMutex
)

func init() {
	conf = Default()
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath:      DefaultDBPath,
		Host:        DefaultHost,
		Port:        DefaultPort,
		LogLevel:    DefaultLogLevel,
		IdleTimeout: DefaultIdleTimeout,
	}
}

// Get returns the current configuration.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return conf
}

func load(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.DBPath = v.GetString("db_path")
	cfg.Host = v.GetString("server.host")
	cfg.Port = v.GetInt("server.port")
	cfg.LogLevel = v.GetString("log_level")
	cfg.IdleTimeout = v.GetDuration("server.idle_timeout")

	return cfg
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)

	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("server.idle_timeout", DefaultIdleTimeout)

	return v
}

// Init reads the config file at configPath and starts watching it for
// changes. An empty configPath keeps the defaults and watches nothing.
func Init(configPath string) error {
	if configPath == "" {
		return nil
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	mu.Lock()
	conf = load(v)
	mu.Unlock()

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		newV := newViper(configPath)
		if err := newV.ReadInConfig(); err != nil {
			log.Printf("config reload failed: %v", err)
			return
		}

		mu.Lock()
		conf = load(newV)
		mu.Unlock()

		log.Printf("config file %s reloaded", e.Name)
	})

	return nil
}
