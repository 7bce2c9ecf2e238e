package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	// AppDir is the directory under $HOME holding config and data by default.
	AppDir = ".agenda"
	// FileName is the default config file name inside AppDir.
	FileName = "agenda.json"
	// LogFileName is the default log file name inside the data directory.
	LogFileName = "agenda.log"
)

// Config represents the agenda configuration
type Config struct {
	// Data directory holding sessions.jsonl and the track views
	DataDir string `json:"data_dir" mapstructure:"data_dir"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Recommendation scoring
	Recommend RecommendConfig `json:"recommend" mapstructure:"recommend"`

	// Ingestion
	Ingest IngestConfig `json:"ingest" mapstructure:"ingest"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `json:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	File     string `json:"file" mapstructure:"file"`
	Console  bool   `json:"console" mapstructure:"console"`
	Pretty   bool   `json:"pretty" mapstructure:"pretty"`
	MaxSize  int    `json:"max_size" mapstructure:"max_size" validate:"gte=0"` // MB
	MaxAge   int    `json:"max_age" mapstructure:"max_age" validate:"gte=0"`   // days
	Compress bool   `json:"compress" mapstructure:"compress"`
}

// RecommendConfig holds the recommender weights
type RecommendConfig struct {
	MinRating      int     `json:"min_rating" mapstructure:"min_rating" validate:"min=1,max=5"`
	TrackWeight    float64 `json:"track_weight" mapstructure:"track_weight" validate:"gte=0"`
	TagWeight      float64 `json:"tag_weight" mapstructure:"tag_weight" validate:"gte=0"`
	InterestWeight float64 `json:"interest_weight" mapstructure:"interest_weight" validate:"gte=0"`
	DefaultLimit   int     `json:"default_limit" mapstructure:"default_limit" validate:"gte=0"`
}

// IngestConfig holds ingestion settings
type IngestConfig struct {
	DebounceMS int `json:"debounce_ms" mapstructure:"debounce_ms" validate:"gte=0"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "warn",
			Console:  true,
			Pretty:   true,
			MaxSize:  10,
			MaxAge:   30,
			Compress: true,
		},
		Recommend: RecommendConfig{
			MinRating:      4,
			TrackWeight:    1,
			TagWeight:      1,
			InterestWeight: 1,
			DefaultLimit:   10,
		},
		Ingest: IngestConfig{
			DebounceMS: 500,
		},
	}
}

// DefaultDataDir returns $HOME/.agenda.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, AppDir), nil
}

// SetDataDir moves the data directory. A log file left at its default
// location moves with it.
func (c *Config) SetDataDir(dir string) {
	if c.Logging.File == "" || c.Logging.File == filepath.Join(c.DataDir, LogFileName) {
		c.Logging.File = filepath.Join(dir, LogFileName)
	}
	c.DataDir = dir
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return NewValidator().ValidateStruct(c)
}
