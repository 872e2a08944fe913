// Package config는 raune 설정을 기본값, YAML 파일, RAUNE_ 환경 변수 순서로 읽는다.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/nmtun/raune/internal/db"
)

// DefaultPath: --config 기본값
const DefaultPath = "raune.yaml"

const envPrefix = "RAUNE_"

type Config struct {
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Storage StorageConfig `yaml:"storage" koanf:"storage"`
	Seed    SeedConfig    `yaml:"seed" koanf:"seed"`
	Auth    AuthConfig    `yaml:"auth" koanf:"auth"`
	Worker  WorkerConfig  `yaml:"worker" koanf:"worker"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" koanf:"port"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	RequestTimeout  time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" koanf:"driver"` // sqlite3 (cgo) 또는 sqlite (modernc)
	Path   string `yaml:"path" koanf:"path"`
}

type SeedConfig struct {
	Dir   string `yaml:"dir" koanf:"dir"`     // 비어 있으면 내장 데이터
	Watch bool   `yaml:"watch" koanf:"watch"` // dir 변경 시 다시 읽기
}

type AuthConfig struct {
	SessionTTL time.Duration `yaml:"session_ttl" koanf:"session_ttl"`
}

type WorkerConfig struct {
	BatchSize int           `yaml:"batch_size" koanf:"batch_size"`
	Interval  time.Duration `yaml:"interval" koanf:"interval"`
}

type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	JSON  bool   `yaml:"json" koanf:"json"`
	File  string `yaml:"file" koanf:"file"` // 비어 있으면 stderr만
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			RequestTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Driver: db.DriverMattn,
			Path:   "data/raune.db",
		},
		Auth:   AuthConfig{SessionTTL: 24 * time.Hour},
		Worker: WorkerConfig{BatchSize: 100, Interval: 2 * time.Second},
		Log:    LogConfig{Level: "info"},
	}
}

// Load: 파일이 없으면 기본값 + 환경 변수만 사용
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// RAUNE_SERVER_PORT -> server.port, RAUNE_SERVER_ALLOW_ALL_ORIGINS -> server.allow_all_origins
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}
	if c.Storage.Driver != db.DriverMattn && c.Storage.Driver != db.DriverModernc {
		return fmt.Errorf("invalid storage.driver %q: must be one of %s, %s", c.Storage.Driver, db.DriverMattn, db.DriverModernc)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Seed.Watch && c.Seed.Dir == "" {
		return fmt.Errorf("seed.watch requires seed.dir")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}
	if c.Worker.BatchSize <= 0 {
		return fmt.Errorf("worker.batch_size must be positive")
	}
	if c.Worker.Interval <= 0 {
		return fmt.Errorf("worker.interval must be positive")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	return nil
}
