package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Upload   UploadConfig
	Mail     MailConfig
	Refresh  RefreshConfig
}

type ServerConfig struct {
	Addr string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

type UploadConfig struct {
	// imgbb 圖片上傳 API
	Endpoint string
	APIKey   string
}

type MailConfig struct {
	// 主服務呼叫 relay 用
	RelayURL string

	// relay 服務本身的 SMTP 設定
	SMTPHost   string
	SMTPPort   string
	SMTPUser   string
	SMTPPass   string
	From       string
	ListenAddr string
}

type RefreshConfig struct {
	// CronSpec 是背景刷新活動列表的 cron 排程 (例如 "*/5 * * * *")
	CronSpec string
}

func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: getEnv("SERVER_ADDR", ":8080"),
		},
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
		},
		Upload: UploadConfig{
			Endpoint: getEnv("IMGBB_ENDPOINT", "https://api.imgbb.com/1/upload"),
			APIKey:   getEnv("IMGBB_API_KEY", ""),
		},
		Mail: MailConfig{
			RelayURL:   getEnv("EMAIL_API_URL", ""),
			SMTPHost:   getEnv("SMTP_HOST", ""),
			SMTPPort:   getEnv("SMTP_PORT", "587"),
			SMTPUser:   getEnv("SMTP_USER", ""),
			SMTPPass:   getEnv("SMTP_PASS", ""),
			From:       getEnv("EMAIL_FROM", ""),
			ListenAddr: getEnv("MAIL_RELAY_ADDR", ":4000"),
		},
		Refresh: RefreshConfig{
			CronSpec: getEnv("REFRESH_CRON", "*/5 * * * *"),
		},
	}
}

func LoadTestConfig() *Config {
	cfg := LoadConfig()

	// 測試 DB 用 5433 port
	cfg.Database = DatabaseConfig{
		Host:     "localhost",
		Port:     "5433",
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	// 測試 Redis 用 6380 port
	cfg.Redis = RedisConfig{
		Host:     "localhost",
		Port:     "6380",
		Password: "",
		DB:       1,
	}

	return cfg
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
