package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server      Server
	Database    Database
	Redis       Redis
	Auth        Auth
	Leaderboard Leaderboard
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Redis is optional; an empty Addr disables the leaderboard cache.
type Redis struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type Auth struct {
	JWTSecret      string
	TokenTTL       time.Duration
	GoogleClientID string
	// AllowDevLogin enables the password-free /auth/dev-login endpoint.
	AllowDevLogin bool
}

type Leaderboard struct {
	TopN int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("REDIS_TTL_SECONDS", 30)
	viper.SetDefault("TOKEN_TTL_HOURS", 24)
	viper.SetDefault("ALLOW_DEV_LOGIN", false)
	viper.SetDefault("LEADERBOARD_TOP_N", 10)

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.Redis.TTL = time.Duration(viper.GetInt("REDIS_TTL_SECONDS")) * time.Second

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	config.Auth.TokenTTL = time.Duration(viper.GetInt("TOKEN_TTL_HOURS")) * time.Hour
	config.Auth.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	config.Auth.AllowDevLogin = viper.GetBool("ALLOW_DEV_LOGIN")

	config.Leaderboard.TopN = viper.GetInt("LEADERBOARD_TOP_N")

	log.Info().Str("port", config.Server.Port).Str("db_host", config.Database.Host).Msg("Config loaded")
	return &config, nil
}
