package config

import "github.com/Skotchmaster/logistics_shop/pkg/config"

type ServiceConfig struct {
	config.Config
	CatalogURL string
}

func Load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "cart"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	catalogURL := config.EnvDefault("CATALOG_URL", "")
	config.MustNonEmpty(catalogURL, "CATALOG_URL")

	return ServiceConfig{Config: cfg, CatalogURL: catalogURL}
}
