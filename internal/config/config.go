package config

import "github.com/caarlos0/env"

type Config struct {
	HTTPAddress string `json:"http_address" env:"HTTP_ADDRESS" envDefault:":8080"`
	LogLevel    string `json:"log_level" env:"LOG_LEVEL" envDefault:"info"`

	// Empty DSN selects the in-memory store.
	DatabaseDSN string `json:"database_dsn" env:"DATABASE_DSN"`

	// No brokers disables event publication.
	KafkaBrokers []string `json:"kafka_brokers" env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `json:"kafka_topic" env:"KAFKA_TOPIC_TRANSACTIONS" envDefault:"sales.transactions.created"`

	HighRiskThreshold string `json:"high_risk_threshold" env:"HIGH_RISK_THRESHOLD" envDefault:"10000.00"`
}

func MustNewConfig() *Config {
	c := &Config{}
	env.Parse(c)

	return c
}
