// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration, loaded once at startup from a
// yaml file and overridable through environment variables for container
// deployments.
type Config struct {
	App struct {
		Name      string `yaml:"name"`
		Port      int    `yaml:"port"`
		PrettyLog bool   `yaml:"prettyLog"`
		Currency  string `yaml:"currency"`
	} `yaml:"app"`

	Infra struct {
		Mysql struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Kafka struct {
			Brokers              []string `yaml:"brokers"`
			PaymentSuccessTopic  string   `yaml:"paymentSuccessTopic"`
			PaymentConsumerGroup string   `yaml:"paymentConsumerGroup"`
		} `yaml:"kafka"`
		Redis struct {
			Addr string `yaml:"addr"`
		} `yaml:"redis"`
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Nacos struct {
			ServerAddrs string `yaml:"serverAddrs"`
			Namespace   string `yaml:"namespace"`
			Group       string `yaml:"group"`
		} `yaml:"nacos"`
	} `yaml:"infra"`

	Gateway struct {
		CatalogService string `yaml:"catalogService"`
		PaymentService string `yaml:"paymentService"`
		TimeoutMS      int    `yaml:"timeoutMs"`
	} `yaml:"gateway"`
}

var currentConfig atomic.Pointer[Config]

// LoadConfig reads the yaml file at path (CONFIG_FILE wins over the argument)
// and publishes the result for GetCurrentConfig. A missing file is not fatal;
// the defaults plus environment overrides are enough for local runs.
func LoadConfig(path string) (*Config, error) {
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		path = p
	}

	cfg := defaultConfig()
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}

	applyEnvOverrides(cfg)
	currentConfig.Store(cfg)
	return cfg, nil
}

// GetCurrentConfig returns the last loaded configuration.
func GetCurrentConfig() *Config {
	if cfg := currentConfig.Load(); cfg != nil {
		return cfg
	}
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	currentConfig.Store(cfg)
	return cfg
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "order-service"
	cfg.App.Port = 8080
	cfg.App.Currency = "usd"
	cfg.Infra.Mysql.DSN = "root:root@tcp(localhost:3306)/oms?charset=utf8mb4&parseTime=True&loc=UTC"
	cfg.Infra.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Infra.Kafka.PaymentSuccessTopic = "payment.succeeded"
	cfg.Infra.Kafka.PaymentConsumerGroup = "order-service"
	cfg.Infra.Redis.Addr = "localhost:6379"
	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Infra.Nacos.ServerAddrs = "localhost:8848"
	cfg.Infra.Nacos.Group = "DEFAULT_GROUP"
	cfg.Gateway.CatalogService = "products-service"
	cfg.Gateway.PaymentService = "payments-service"
	cfg.Gateway.TimeoutMS = 5000
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		cfg.Infra.Mysql.DSN = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Infra.Kafka.Brokers = splitCSV(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Infra.Redis.Addr = v
	}
	if v := os.Getenv("JAEGER_ENDPOINT"); v != "" {
		cfg.Infra.Jaeger.Endpoint = v
	}
	if v := os.Getenv("NACOS_SERVER_ADDRS"); v != "" {
		cfg.Infra.Nacos.ServerAddrs = v
	}
	if v := os.Getenv("NACOS_NAMESPACE"); v != "" {
		cfg.Infra.Nacos.Namespace = v
	}
	if v := os.Getenv("NACOS_GROUP"); v != "" {
		cfg.Infra.Nacos.Group = v
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
