package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port         int              `json:"port"`
	BaseURL      string           `json:"base_url"`
	JWTSecret    string           `json:"jwt_secret"`
	JWTTTLHours  int              `json:"jwt_ttl_hours"`
	AllowOrigins []string         `json:"allow_origins"`
	LogConfig    logger.LogConfig `json:"log_config"`
	Database     DatabaseConfig   `json:"database"`
	FileStore    FileStoreConfig  `json:"file_store"`
	PhotoURLTTL  int              `json:"photo_url_ttl_days"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Load reads the JSON config file. Secrets may be left out of the file and
// provided via environment (a local .env file is honored for development).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("BABYLINE_JWT_SECRET")
	}
	if cfg.Database.Password == "" {
		cfg.Database.Password = os.Getenv("BABYLINE_DB_PASSWORD")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && (cfg.Database.Host == "" || cfg.Database.DBName == "") {
		return nil, fmt.Errorf("database dsn or host/db_name is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	if cfg.PhotoURLTTL == 0 {
		cfg.PhotoURLTTL = 7
	}
	return &cfg, nil
}
