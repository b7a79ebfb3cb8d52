package config

// ServerConfig contains the HTTP view server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// APIConfig points at the remote bus-stop catalog endpoint
type APIConfig struct {
	BaseURL   string `yaml:"baseURL" validate:"omitempty,url"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// ScheduleConfig contains the static schedule feed configuration
type ScheduleConfig struct {
	FeedPath       string `yaml:"feedPath"`
	CachePath      string `yaml:"cachePath"`
	TripUpdatesURL string `yaml:"tripUpdatesURL" validate:"omitempty,url"`
}

// StoreConfig contains the autosave store configuration
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Store    StoreConfig    `yaml:"store"`
	Log      LogConfig      `yaml:"log"`
}
