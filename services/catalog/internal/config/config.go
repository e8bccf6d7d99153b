package config

import (
	"os"

	"github.com/Skotchmaster/logistics_shop/pkg/config"
)

type ServiceConfig struct {
	config.Config
	ESURL         string
	ESUser        string
	ESPassword    string
	ESIndex       string
	UploadDir     string
	UploadPrefix  string
	ConsumerGroup string
}

func Load() ServiceConfig {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "catalog"
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	// Stock is only decremented by the catalog's order_created consumer.
	config.MustNonEmptyList(cfg.KafkaBrokers, "KAFKA_BROKERS")

	return ServiceConfig{
		Config:        cfg,
		ESURL:         os.Getenv("ES_URL"),
		ESUser:        os.Getenv("ES_USER"),
		ESPassword:    os.Getenv("ES_PASSWORD"),
		ESIndex:       config.EnvDefault("ES_INDEX", "products"),
		UploadDir:     config.EnvDefault("UPLOAD_DIR", "uploads"),
		UploadPrefix:  config.EnvDefault("UPLOAD_URL_PREFIX", "/uploads"),
		ConsumerGroup: config.EnvDefault("KAFKA_GROUP_ID", "catalog-stock"),
	}
}
