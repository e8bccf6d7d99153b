package config

import "github.com/Skotchmaster/logistics_shop/pkg/config"

type ServiceConfig struct {
	config.Config
	LoginRPS   float64
	LoginBurst int
}

func Load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "auth"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	return ServiceConfig{
		Config:     cfg,
		LoginRPS:   float64(config.EnvIntDefault("LOGIN_RATE_PER_MIN", 10)) / 60,
		LoginBurst: config.EnvIntDefault("LOGIN_BURST", 5),
	}
}
