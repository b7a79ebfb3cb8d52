package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads and validates the application configuration. When no explicit
// paths are given it tries config.yml in the working directory; a missing
// implicit file yields the defaults so the CLI works unconfigured. An
// explicitly requested path that cannot be read is an error.
func Load(paths ...string) (*AppConfig, error) {
	explicit := len(paths) > 0
	if !explicit {
		paths = []string{"config.yml"}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil && explicit {
		return nil, err
	}
	cfg := AppConfig{}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}
	applyDefaults(&cfg)
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.API.TimeoutMS == 0 {
		cfg.API.TimeoutMS = 15000
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "stopsync.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
