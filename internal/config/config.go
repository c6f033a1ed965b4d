package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Media    MediaConfig    `yaml:"media"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// StorageConfig selects the repository backend and its seed data
type StorageConfig struct {
	// Mode is "memory" or "postgres"
	Mode string `yaml:"mode"`
	// FixturesDir holds the CSV fixture tables; empty disables population
	FixturesDir string `yaml:"fixtures_dir"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// MediaConfig holds media storage configuration
type MediaConfig struct {
	// Root is the directory holding the uploads tree
	Root string `yaml:"root"`
	// Thumbnail bounding box for generated video stills
	ThumbnailMaxWidth  int `yaml:"thumbnail_max_width"`
	ThumbnailMaxHeight int `yaml:"thumbnail_max_height"`
	// FFmpegBinary overrides the ffmpeg executable used for frame extraction
	FFmpegBinary string `yaml:"ffmpeg_binary"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Storage.Mode == "" {
		cfg.Storage.Mode = "memory"
	}
	if cfg.Media.Root == "" {
		cfg.Media.Root = "./data"
	}
	if cfg.Media.ThumbnailMaxWidth == 0 {
		cfg.Media.ThumbnailMaxWidth = 480
	}
	if cfg.Media.ThumbnailMaxHeight == 0 {
		cfg.Media.ThumbnailMaxHeight = 480
	}

	return &cfg, nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
