package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMySQL = "mysql"
	StoreRedis = "redis"
)

type Config struct {
	Addr         string
	JWTSecret    string
	SessionTTL   time.Duration
	SessionStore string
	CookieSecure bool

	MySQLDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI    string
	MongoDBName string

	SiteURL  string
	LogLevel string
}

// Load reads the env file named by START (if any) and then the environment.
func Load() (*Config, error) {
	/*
		START picks the env file: .env-local for a local database,
		.env.docker inside compose. Without it only the real environment is read.
	*/
	if file := os.Getenv("START"); file != "" {
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("env file %s: %w", file, err)
		}
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:          getenv("ADDR", ":8082"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionStore:  getenv("SESSION_STORE", StoreMySQL),
		MySQLDSN:      os.Getenv("MYSQL_DSN"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDBName:   os.Getenv("MONGO_DB_NAME"),
		SiteURL:       getenv("SITE_URL", "http://localhost:8082"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(getenv("SESSION_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}
	if cfg.RedisDB, err = strconv.Atoi(getenv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.CookieSecure, err = strconv.ParseBool(getenv("COOKIE_SECURE", "false")); err != nil {
		return nil, fmt.Errorf("COOKIE_SECURE: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set in environment")
	}
	if cfg.MySQLDSN == "" {
		return nil, errors.New("MYSQL_DSN is not set in environment")
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is not set in environment")
	}
	if cfg.MongoDBName == "" {
		return nil, errors.New("MONGO_DB_NAME is not set in environment")
	}
	switch cfg.SessionStore {
	case StoreMySQL, StoreRedis:
	default:
		return nil, fmt.Errorf("SESSION_STORE must be %q or %q, got %q", StoreMySQL, StoreRedis, cfg.SessionStore)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
