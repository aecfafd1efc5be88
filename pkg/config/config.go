package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Session   SessionConfig
	Uploads   UploadConfig
	RateLimit RateLimitConfig
	Bootstrap BootstrapConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type SessionConfig struct {
	LifetimeHours int
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
	S3Bucket string
	S3Region string
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
	OrgName       string
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (j *JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryHours) * time.Hour
}

func (s *SessionConfig) Lifetime() time.Duration {
	return time.Duration(s.LifetimeHours) * time.Hour
}

func (u *UploadConfig) UseS3() bool {
	return u.S3Bucket != ""
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "campusdesk")
	v.SetDefault("DATABASE_PASSWORD", "campusdesk_secret")
	v.SetDefault("DATABASE_NAME", "campusdesk")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("SESSION_LIFETIME_HOURS", 24)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
	v.SetDefault("UPLOAD_S3_BUCKET", "")
	v.SetDefault("UPLOAD_S3_REGION", "us-east-1")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("BOOTSTRAP_ADMIN_EMAIL", "admin@campusdesk.local")
	v.SetDefault("BOOTSTRAP_ADMIN_PASSWORD", "changeme123")
	v.SetDefault("BOOTSTRAP_ADMIN_NAME", "System Administrator")
	v.SetDefault("BOOTSTRAP_ORG_NAME", "Default Organization")

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetInt("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			AllowedOrigins: splitOrigins(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DATABASE_HOST"),
			Port:     v.GetInt("DATABASE_PORT"),
			User:     v.GetString("DATABASE_USER"),
			Password: v.GetString("DATABASE_PASSWORD"),
			Name:     v.GetString("DATABASE_NAME"),
			SSLMode:  v.GetString("DATABASE_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Session: SessionConfig{
			LifetimeHours: v.GetInt("SESSION_LIFETIME_HOURS"),
		},
		Uploads: UploadConfig{
			Dir:      v.GetString("UPLOAD_DIR"),
			MaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
			S3Bucket: v.GetString("UPLOAD_S3_BUCKET"),
			S3Region: v.GetString("UPLOAD_S3_REGION"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Bootstrap: BootstrapConfig{
			AdminEmail:    v.GetString("BOOTSTRAP_ADMIN_EMAIL"),
			AdminPassword: v.GetString("BOOTSTRAP_ADMIN_PASSWORD"),
			AdminName:     v.GetString("BOOTSTRAP_ADMIN_NAME"),
			OrgName:       v.GetString("BOOTSTRAP_ORG_NAME"),
		},
	}

	return cfg, nil
}

func splitOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
