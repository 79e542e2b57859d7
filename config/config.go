package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
		// websocket origins, comma separated in ALLOWED_ORIGINS; empty allows all
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"app"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Mongo struct {
		URI      string `mapstructure:"uri"`
		DB       string `mapstructure:"db"`
		ForceTLS bool   `mapstructure:"force_tls"`
		Insecure bool   `mapstructure:"insecure_tls"`
	} `mapstructure:"mongo"`
	Postgres struct {
		URI string `mapstructure:"uri"`
	} `mapstructure:"postgres"`
	Redis struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"redis"`
	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		JWTIssuer string        `mapstructure:"jwt_issuer"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`
	Cache struct {
		TTL    time.Duration `mapstructure:"ttl"`
		Prefix string        `mapstructure:"prefix"`
	} `mapstructure:"cache"`
	GCS struct {
		Bucket string `mapstructure:"bucket"`
	} `mapstructure:"gcs"`
}

// Load reads .env, an optional config.yaml from paths (default "."), then
// environment variables, which win.
func Load(paths ...string) (Settings, error) {
	var s Settings

	if err := godotenv.Load(); err != nil {
		log.Println("note: .env file not found, using environment")
	}

	v := viper.New()
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("mongo.db", "devconnect")
	v.SetDefault("auth.jwt_issuer", "devconnect")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.prefix", "devconnect:")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return s, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	binds := map[string][]string{
		"app.port":            {"PORT", "APP_PORT"},
		"app.env":             {"GO_ENV", "APP_ENV"},
		"app.allowed_origins": {"ALLOWED_ORIGINS"},
		"log.level":           {"LOG_LEVEL"},
		"mongo.uri":           {"MONGO_URI"},
		"mongo.db":            {"MONGO_DB"},
		"mongo.force_tls":     {"MONGO_FORCE_TLS_CONFIG"},
		"mongo.insecure_tls":  {"MONGO_INSECURE_TLS"},
		"postgres.uri":        {"POSTGRES_URI"},
		"redis.addr":          {"REDIS_ADDR", "REDIS_URI", "REDIS_URL"},
		"auth.jwt_secret":     {"JWT_SECRET"},
		"auth.jwt_issuer":     {"JWT_ISSUER"},
		"auth.token_ttl":      {"TOKEN_TTL"},
		"cache.ttl":           {"CACHE_TTL"},
		"gcs.bucket":          {"GCS_BUCKET"},
	}
	for key, envs := range binds {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return s, err
		}
	}

	if err := v.Unmarshal(&s); err != nil {
		return s, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	var errs []error
	if s.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGO_URI is not set"))
	}
	if s.Postgres.URI == "" {
		errs = append(errs, errors.New("POSTGRES_URI is not set"))
	}
	if s.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	return errors.Join(errs...)
}

func (s Settings) Production() bool {
	return s.App.Env == "production"
}
