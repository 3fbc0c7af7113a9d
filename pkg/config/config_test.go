package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liquidacion-api/internal/domain"
	"github.com/jhoicas/liquidacion-api/pkg/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secreto-de-prueba")
	t.Setenv("SETTLEMENT_FEE_MARKER", "공간")
	t.Setenv("SETTLEMENT_WORK_USAGE_REASON", "작업사용")
	t.Setenv("SETTLEMENT_DEFAULT_COMMISSION_PERCENT", "70")
	t.Setenv("SETTLEMENT_EXECUTIVE_RATIOS", "김대표:4, 이이사:3, 박실장:3")
}

func TestLoad_ValoresPorDefecto(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverMongoDB, cfg.Store.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, time.Hour, cfg.Settlement.CacheTTL)
	assert.True(t, decimal.RequireFromString("0.22").Equal(cfg.Settlement.FeeRate))
	assert.True(t, decimal.NewFromInt(20).Equal(cfg.Settlement.CompanyCutPercent))
	assert.True(t, decimal.NewFromInt(70).Equal(cfg.Settlement.DefaultCommissionPercent))
	assert.Equal(t, "공간", cfg.Settlement.FeeMarker)
	require.Len(t, cfg.Settlement.ExecutiveRatios, 3)
	assert.True(t, decimal.NewFromInt(4).Equal(cfg.Settlement.ExecutiveRatios["김대표"]))
}

func TestLoad_Sobrescrituras(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORE_DRIVER", "POSTGRES")
	t.Setenv("SETTLEMENT_CACHE_TTL", "15m")
	t.Setenv("SETTLEMENT_FEE_RATE", "0.1")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Settlement.CacheTTL)
	assert.True(t, decimal.RequireFromString("0.1").Equal(cfg.Settlement.FeeRate))
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_ErroresDeConfiguracion(t *testing.T) {
	cases := map[string]map[string]string{
		"driver desconocido":         {"STORE_DRIVER": "sqlite"},
		"secreto JWT vacío":          {"JWT_SECRET": ""},
		"tasa ilegible":              {"SETTLEMENT_FEE_RATE": "veintidós"},
		"ttl inválido":               {"SETTLEMENT_CACHE_TTL": "una hora"},
		"comisión por defecto vacía": {"SETTLEMENT_DEFAULT_COMMISSION_PERCENT": ""},
		"proporción sin número":      {"SETTLEMENT_EXECUTIVE_RATIOS": "김대표"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			require.Error(t, err)
			assert.True(t, domain.IsConfigurationError(err), "%v", err)
		})
	}
}

func TestParseRatios(t *testing.T) {
	r, err := config.ParseRatios("")
	require.NoError(t, err)
	assert.Empty(t, r)

	r, err = config.ParseRatios("김대표:4,이이사:3.5")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3.5").Equal(r["이이사"]))

	for _, bad := range []string{"김대표:0", "김대표:-1", ":3", "김대표:4,김대표:3"} {
		_, err := config.ParseRatios(bad)
		assert.True(t, domain.IsConfigurationError(err), bad)
	}
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "ops", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/ops?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
