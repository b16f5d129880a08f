package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Data        DataConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Cache       CacheConfig
	OpenWeather OpenWeatherConfig
	Log         LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// DataConfig selects the catalog/series source. Source is "file" or "postgres".
type DataConfig struct {
	Source         string
	TrailsPath     string
	WeatherPath    string
	ExportDir      string
	ForecastDays   int
	RefreshOnStart bool
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	WeatherStatsTTL time.Duration
}

type OpenWeatherConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout int
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Running purely off environment variables is fine.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Data: DataConfig{
			Source:         viper.GetString("DATA_SOURCE"),
			TrailsPath:     viper.GetString("DATA_TRAILS_PATH"),
			WeatherPath:    viper.GetString("DATA_WEATHER_PATH"),
			ExportDir:      viper.GetString("DATA_EXPORT_DIR"),
			ForecastDays:   viper.GetInt("DATA_FORECAST_DAYS"),
			RefreshOnStart: viper.GetBool("DATA_REFRESH_ON_START"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("REDIS_ENABLED"),
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			WeatherStatsTTL: time.Duration(viper.GetInt("WEATHER_STATS_CACHE_TTL")) * time.Second,
		},
		OpenWeather: OpenWeatherConfig{
			BaseURL:        viper.GetString("OPENWEATHER_BASE_URL"),
			APIKey:         viper.GetString("OPENWEATHER_API_KEY"),
			RequestTimeout: viper.GetInt("OPENWEATHER_REQUEST_TIMEOUT"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Data.Source == "" {
		cfg.Data.Source = "file"
	}
	if cfg.Data.TrailsPath == "" {
		cfg.Data.TrailsPath = "data/trails.csv"
	}
	if cfg.Data.WeatherPath == "" {
		cfg.Data.WeatherPath = "data/weather.csv"
	}
	if cfg.Data.ExportDir == "" {
		cfg.Data.ExportDir = "exports"
	}
	if cfg.Data.ForecastDays == 0 {
		cfg.Data.ForecastDays = 5
	}
	if cfg.Cache.WeatherStatsTTL == 0 {
		cfg.Cache.WeatherStatsTTL = 10 * time.Minute
	}
	if cfg.OpenWeather.BaseURL == "" {
		cfg.OpenWeather.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if cfg.OpenWeather.RequestTimeout == 0 {
		cfg.OpenWeather.RequestTimeout = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
