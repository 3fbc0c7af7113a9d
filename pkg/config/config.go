package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/jhoicas/liquidacion-api/internal/domain"
)

// Drivers de almacén soportados.
const (
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	JWT        JWTConfig
	Store      StoreConfig
	Settlement SettlementConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de JWT. El sujeto del token identifica la sesión.
type JWTConfig struct {
	Secret string
	Issuer string
}

// StoreConfig almacén de documentos que respalda la liquidación.
type StoreConfig struct {
	Driver       string // mongodb | postgres
	MongoURI     string
	MongoDBName  string
	Postgres     DBConfig
	QueryTimeout time.Duration
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve DATABASE_URL si está definido, si no el DSN construido.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN connection string con la contraseña escapada.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// SettlementConfig superficie configurable del motor de liquidación.
type SettlementConfig struct {
	FeeMarker                string
	FeeRate                  decimal.Decimal
	CompanyCutPercent        decimal.Decimal
	ExecutiveRatios          map[string]decimal.Decimal
	DefaultCommissionPercent decimal.Decimal
	CacheTTL                 time.Duration
	WorkUsageReason          string
}

// Load lee la configuración desde variables de entorno (y opcionalmente .env / config.env).
// Las env vars tienen prioridad. Un valor numérico ilegible devuelve ConfigurationError.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // opcional

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // opcional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "liquidacion-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "liquidacion-api"),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(getString(v, "STORE_DRIVER", DriverMongoDB)),
			MongoURI:    getString(v, "MONGODB_URI", "mongodb://localhost:27017"),
			MongoDBName: getString(v, "MONGODB_DB_NAME", "operations"),
			Postgres: DBConfig{
				DatabaseURL: getString(v, "DATABASE_URL", ""),
				Host:        getString(v, "DB_HOST", "localhost"),
				Port:        getInt(v, "DB_PORT", 5432),
				User:        getString(v, "DB_USER", "postgres"),
				Password:    getString(v, "DB_PASSWORD", ""),
				DBName:      getString(v, "DB_NAME", "operations"),
				SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			},
		},
		Settlement: SettlementConfig{
			FeeMarker:       getString(v, "SETTLEMENT_FEE_MARKER", ""),
			WorkUsageReason: getString(v, "SETTLEMENT_WORK_USAGE_REASON", ""),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, &domain.ConfigurationError{Key: "JWT_SECRET", Reason: "obligatorio"}
	}
	if cfg.Store.Driver != DriverMongoDB && cfg.Store.Driver != DriverPostgres {
		return nil, &domain.ConfigurationError{Key: "STORE_DRIVER", Reason: "debe ser mongodb o postgres, recibido " + strconv.Quote(cfg.Store.Driver)}
	}

	var err error
	if cfg.Store.QueryTimeout, err = getDuration(v, "STORE_QUERY_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	s := &cfg.Settlement
	if s.FeeRate, err = getDecimal(v, "SETTLEMENT_FEE_RATE", "0.22"); err != nil {
		return nil, err
	}
	if s.CompanyCutPercent, err = getDecimal(v, "SETTLEMENT_COMPANY_CUT_PERCENT", "20"); err != nil {
		return nil, err
	}
	if s.DefaultCommissionPercent, err = getDecimal(v, "SETTLEMENT_DEFAULT_COMMISSION_PERCENT", ""); err != nil {
		return nil, err
	}
	if s.CacheTTL, err = getDuration(v, "SETTLEMENT_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if s.ExecutiveRatios, err = ParseRatios(getString(v, "SETTLEMENT_EXECUTIVE_RATIOS", "")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseRatios interpreta "nombre:proporción,nombre:proporción" (ej. "김대표:4,이이사:3,박실장:3").
// Texto vacío devuelve una tabla vacía; el motor la rechaza al inicializar.
func ParseRatios(raw string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		i := strings.LastIndex(item, ":")
		if i <= 0 {
			return nil, &domain.ConfigurationError{Key: "SETTLEMENT_EXECUTIVE_RATIOS", Reason: "entrada sin proporción " + strconv.Quote(item)}
		}
		name := strings.TrimSpace(item[:i])
		r, err := decimal.NewFromString(strings.TrimSpace(item[i+1:]))
		if err != nil || !r.IsPositive() {
			return nil, &domain.ConfigurationError{Key: "SETTLEMENT_EXECUTIVE_RATIOS", Reason: "proporción inválida " + strconv.Quote(item)}
		}
		if _, dup := out[name]; dup {
			return nil, &domain.ConfigurationError{Key: "SETTLEMENT_EXECUTIVE_RATIOS", Reason: "nombre repetido " + strconv.Quote(name)}
		}
		out[name] = r
	}
	return out, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return strings.TrimSpace(v.GetString(key))
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

// getDecimal def vacío significa obligatorio.
func getDecimal(v *viper.Viper, key, def string) (decimal.Decimal, error) {
	raw := getString(v, key, def)
	if raw == "" {
		return decimal.Zero, &domain.ConfigurationError{Key: key, Reason: "valor obligatorio"}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &domain.ConfigurationError{Key: key, Reason: "número ilegible " + strconv.Quote(raw)}
	}
	return d, nil
}

func getDuration(v *viper.Viper, key string, def time.Duration) (time.Duration, error) {
	if !v.IsSet(key) {
		return def, nil
	}
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, &domain.ConfigurationError{Key: key, Reason: "duración inválida " + strconv.Quote(raw)}
	}
	return d, nil
}
