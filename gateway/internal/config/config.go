package config

import "github.com/Skotchmaster/logistics_shop/pkg/config"

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	AuthURL    string
	CatalogURL string
	CartURL    string
	OrderURL   string

	CORSOrigins []string
	JWTSecret   []byte
}

func Load() Config {
	base := config.Load()
	if base.ServiceName == "" {
		base.ServiceName = "gateway"
	}
	cfg := Config{
		ServiceName: base.ServiceName,
		ServerPort:  base.ServerPort,
		LogLevel:    base.LogLevel,
		AuthURL:     config.EnvDefault("AUTH_URL", ""),
		CatalogURL:  config.EnvDefault("CATALOG_URL", ""),
		CartURL:     config.EnvDefault("CART_URL", ""),
		OrderURL:    config.EnvDefault("ORDER_URL", ""),
		CORSOrigins: config.CSV(config.EnvDefault("CORS_ORIGINS", "*")),
		JWTSecret:   base.JWTSecret,
	}

	config.MustNonEmpty(cfg.AuthURL, "AUTH_URL")
	config.MustNonEmpty(cfg.CatalogURL, "CATALOG_URL")
	config.MustNonEmpty(cfg.CartURL, "CART_URL")
	config.MustNonEmpty(cfg.OrderURL, "ORDER_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	return cfg
}
