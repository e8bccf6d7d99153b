package config

import "github.com/Skotchmaster/logistics_shop/pkg/config"

type ServiceConfig struct {
	config.Config
	CatalogURL string
}

func Load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "order"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	// Stock is only decremented by the catalog's order_created consumer.
	config.MustNonEmptyList(cfg.KafkaBrokers, "KAFKA_BROKERS")

	catalogURL := config.EnvDefault("CATALOG_URL", "")
	config.MustNonEmpty(catalogURL, "CATALOG_URL")

	return ServiceConfig{Config: cfg, CatalogURL: catalogURL}
}
