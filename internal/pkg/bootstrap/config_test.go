package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	require.Equal(t, "order-service", cfg.App.Name)
	require.Equal(t, 8080, cfg.App.Port)
	require.Equal(t, "usd", cfg.App.Currency)
	require.Equal(t, "payment.succeeded", cfg.Infra.Kafka.PaymentSuccessTopic)
	require.Equal(t, 5000, cfg.Gateway.TimeoutMS)
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
app:
  port: 9999
  currency: eur
infra:
  kafka:
    brokers: [broker-1:9092, broker-2:9092]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	t.Setenv("MYSQL_DSN", "user:pw@tcp(db:3306)/orders")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, 9999, cfg.App.Port)
	require.Equal(t, "eur", cfg.App.Currency)
	require.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Infra.Kafka.Brokers)
	require.Equal(t, "user:pw@tcp(db:3306)/orders", cfg.Infra.Mysql.DSN)
	require.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_RejectsMalformedYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: ["), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
}
