// # internal/config/config.go
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// BaseDir anchors relative typeSource paths and decides which
	// declarations count as project-internal. Empty means discover it
	// from the nearest tsconfig.json.
	BaseDir     string  `toml:"base_dir"`
	Pretty      bool    `toml:"pretty"`
	TraceFile   string  `toml:"trace_file"`
	MetricsAddr string  `toml:"metrics_addr"`
	Exclude     Exclude `toml:"exclude"`
	Watch       Watch   `toml:"watch"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

func Default() *Config {
	return &Config{
		Exclude: Exclude{
			Dirs: []string{"node_modules", ".git", "dist", "build"},
		},
		Watch: Watch{Debounce: 500 * time.Millisecond},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	return cfg, nil
}
