package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"reconciler"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address        string `envconfig:"RECONCILER_ADDRESS" default:":3443"`
	MetricsAddress string `envconfig:"RECONCILER_METRICS_ADDRESS" default:":8080"`
	BaseUrl        string `envconfig:"RECONCILER_BASE_URL" default:"https://localhost:3443"`
	LogLevel       string `envconfig:"RECONCILER_LOG_LEVEL" default:"info"`
	CorsOrigins    string `envconfig:"RECONCILER_CORS_ORIGINS" default:"*"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a config suitable for local testing against sqlite.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: ":memory:",
		},
		Service: &svcConfig{
			Address:  ":3443",
			LogLevel: "debug",
		},
	}
}
