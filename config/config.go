package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/campustrade/campustrade-api/internal/logger"
	"github.com/campustrade/campustrade-api/internal/options"
)

var (
	customLog = logger.NewLogger()

	// ErrJwtConfigMissing is returned when no JWT section was provided at all.
	ErrJwtConfigMissing = errors.New("jwt configuration not found: set JWT_SECRET_KEY or the jwt section of CONFIG_FILE")
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds application configuration values
type Config struct {
	Environment string `yaml:"environment"`
	ServerPort  string `yaml:"server_port"`

	Jwt         options.JwtOptions         `yaml:"jwt"`
	FileStorage options.FileStorageOptions `yaml:"file_storage"`
	Cors        options.CorsOptions        `yaml:"cors"`

	MetadataDbDir  string `yaml:"database_dir"`
	MetadataDbFile string `yaml:"database_file"`

	Redis RedisConfig `yaml:"redis"`

	// SPADistDir holds the built frontend (index.html and assets/). When empty,
	// client routes answer with a JSON description of the matched view.
	SPADistDir string `yaml:"spa_dist_dir"`
}

// RedisConfig configures the optional redis-backed token blacklist.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// IsDevelopment reports whether the development CORS policy applies.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, EnvDevelopment)
}

// Default returns a Config with every default applied. The environment
// defaults to production; development is opted into with APP_ENV or .env.
func Default() *Config {
	return &Config{
		Environment:    EnvProduction,
		ServerPort:     "8080",
		Jwt:            options.DefaultJwtOptions(),
		FileStorage:    options.DefaultFileStorageOptions(),
		MetadataDbDir:  "data",
		MetadataDbFile: "campustrade.db",
	}
}

// LoadConfig loads configuration from an optional YAML file and environment variables.
// It uses a .env file for local development if present (ignores it for production).
func LoadConfig() (*Config, error) {
	customLog.Println("Loading configuration...")

	if os.Getenv("APP_ENV") != EnvProduction {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			customLog.Warnf("Warning: Error loading .env file: %v", err)
		}
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := mergeYAMLFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if strings.TrimSpace(cfg.Jwt.SecretKey) == "" {
		return nil, ErrJwtConfigMissing
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	customLog.Printf("Configuration loaded successfully. Env: %s, Port: %s, Access token lifetime: %v",
		cfg.Environment, cfg.ServerPort, cfg.Jwt.AccessTokenLifetime())
	return cfg, nil
}

// Validate runs every options validator and aggregates the failures.
func (c *Config) Validate() error {
	return options.ValidateAll(
		options.For[options.JwtOptions](options.JwtSectionName, options.JwtOptionsValidator{}, c.Jwt),
		options.For[options.FileStorageOptions](options.FileStorageSectionName, options.FileStorageOptionsValidator{}, c.FileStorage),
		options.For[options.CorsOptions](options.CorsSectionName, options.NewCorsOptionsValidator(), c.Cors),
	)
}

func mergeYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	customLog.Printf("Merged configuration file %s", path)
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Environment = getEnv("APP_ENV", cfg.Environment)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)

	cfg.Jwt.SecretKey = getEnv("JWT_SECRET_KEY", cfg.Jwt.SecretKey)
	cfg.Jwt.Issuer = getEnv("JWT_ISSUER", cfg.Jwt.Issuer)
	cfg.Jwt.Audience = getEnv("JWT_AUDIENCE", cfg.Jwt.Audience)
	cfg.Jwt.AccessTokenExpirationMinutes = getEnvInt("JWT_ACCESS_TOKEN_EXPIRATION_MINUTES", cfg.Jwt.AccessTokenExpirationMinutes)
	cfg.Jwt.RefreshTokenExpirationDays = getEnvInt("JWT_REFRESH_TOKEN_EXPIRATION_DAYS", cfg.Jwt.RefreshTokenExpirationDays)
	cfg.Jwt.ClockSkewSeconds = getEnvInt("JWT_CLOCK_SKEW_SECONDS", cfg.Jwt.ClockSkewSeconds)
	cfg.Jwt.RequireHTTPSMetadata = getEnvBool("JWT_REQUIRE_HTTPS_METADATA", cfg.Jwt.RequireHTTPSMetadata)
	cfg.Jwt.SaveToken = getEnvBool("JWT_SAVE_TOKEN", cfg.Jwt.SaveToken)

	cfg.FileStorage.UploadPath = getEnv("FILE_UPLOAD_PATH", cfg.FileStorage.UploadPath)
	cfg.FileStorage.BaseURL = getEnv("FILE_BASE_URL", cfg.FileStorage.BaseURL)
	cfg.FileStorage.MaxFileSize = int64(getEnvInt("FILE_MAX_SIZE", int(cfg.FileStorage.MaxFileSize)))
	cfg.FileStorage.AllowedExtensions = getEnvList("FILE_ALLOWED_EXTENSIONS", cfg.FileStorage.AllowedExtensions)
	cfg.FileStorage.ThumbnailWidth = getEnvInt("FILE_THUMBNAIL_WIDTH", cfg.FileStorage.ThumbnailWidth)
	cfg.FileStorage.ThumbnailHeight = getEnvInt("FILE_THUMBNAIL_HEIGHT", cfg.FileStorage.ThumbnailHeight)
	cfg.FileStorage.ThumbnailQuality = getEnvInt("FILE_THUMBNAIL_QUALITY", cfg.FileStorage.ThumbnailQuality)

	cfg.Cors.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", cfg.Cors.AllowedOrigins)

	cfg.MetadataDbDir = getEnv("DATABASE_DIRECTORY", cfg.MetadataDbDir)
	cfg.MetadataDbFile = getEnv("DATABASE_FILE", cfg.MetadataDbFile)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)

	cfg.SPADistDir = getEnv("SPA_DIST_DIR", cfg.SPADistDir)
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt keeps the fallback when the variable is unset. A value that does
// not parse is logged and ignored; the options validators reject bad ranges.
func getEnvInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		customLog.Warnf("Invalid %s '%s', keeping %d. Error: %v", key, raw, fallback, err)
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		customLog.Warnf("Invalid %s '%s', keeping %v. Error: %v", key, raw, fallback, err)
		return fallback
	}
	return v
}

func getEnvList(key string, fallback []string) []string {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
