package config

import (
	"github.com/ilyakaznacheev/cleanenv"
)

// Config agrupa toda la configuración del proceso.
// Todo viene por env; sin flags (el deploy actual no los usa).
type Config struct {
	AppName   string `env:"APP_NAME" env-default:"clinic-records"`
	Port      string `env:"PORT" env-default:"8080"`
	DBDSN     string `env:"DB_DSN"` // vacío => repos in-memory (modo dev)
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"text"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
