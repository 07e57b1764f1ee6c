package config

import (
	"fmt"
	"os"
	"reflect"
	"sync"
)

var cfg *Config
var once sync.Once

// Config is the configuration for the application
type Config struct {
	Server
	PostgreSQL
	Checkout
	Flutterwave
	PayPal
	Expiry
}

// Server is the configuration for the server
type Server struct {
	Port string `env:"PORT" envDefault:"8080"`
}

// Addr returns the address for the server
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%s", "0.0.0.0", s.Port)
}

// PostgreSQL is the configuration for the database
type PostgreSQL struct {
	Driver          string `env:"DB_DRIVER" envDefault:"postgres"`
	Host            string `env:"DB_HOST" envDefault:"localhost"`
	Port            string `env:"DB_PORT" envDefault:"5432"`
	Database        string `env:"DB_DATABASE" envDefault:"checkout_service"`
	Username        string `env:"DB_USERNAME" envDefault:"checkout_service"`
	Password        string `env:"DB_PASSWORD" envDefault:"checkout_service"`
	SSLMode         string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConnAttempts string `env:"DB_MAX_CONN_ATTEMPTS" envDefault:"5"`
}

// DSN returns the DSN for the database
func (c PostgreSQL) DSN() string {
	return fmt.Sprintf("%s://%s:%s@%s:%s/%s?sslmode=%s",
		c.Driver,
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

// Checkout holds the settlement defaults: the fixed tax surcharge added to
// every cart total, the charge currency, and the base URL return links are
// built from.
type Checkout struct {
	Tax      string `env:"CHECKOUT_TAX" envDefault:"4.00"`
	Currency string `env:"CHECKOUT_CURRENCY" envDefault:"NGN"`
	BaseURL  string `env:"CHECKOUT_BASE_URL" envDefault:"http://localhost:3000"`
}

type Flutterwave struct {
	SecretKey string `env:"FLUTTERWAVE_SECRET_KEY" envDefault:""`
	APIBase   string `env:"FLUTTERWAVE_API_BASE" envDefault:"https://api.flutterwave.com"`
}

type PayPal struct {
	Mode         string `env:"PAYPAL_MODE" envDefault:"sandbox"`
	ClientID     string `env:"PAYPAL_CLIENT_ID" envDefault:""`
	ClientSecret string `env:"PAYPAL_CLIENT_SECRET" envDefault:""`
}

// Expiry configures the sweep that fails abandoned pending transactions.
// Interval and MaxAge are minutes.
type Expiry struct {
	Interval string `env:"EXPIRY_INTERVAL" envDefault:"10"`
	MaxAge   string `env:"EXPIRY_MAX_AGE" envDefault:"60"`
}

// Load loads the configuration from environment variables
func Load() *Config {
	once.Do(func() {
		cfg = &Config{}
		cfgType := reflect.TypeOf(*cfg)
		cfgValue := reflect.ValueOf(cfg).Elem()

		for i := 0; i < cfgType.NumField(); i++ {
			field := cfgType.Field(i)
			fieldValue := cfgValue.Field(i)
			for j := 0; j < field.Type.NumField(); j++ {
				subField := field.Type.Field(j)
				envVar := subField.Tag.Get("env")
				envDefault := subField.Tag.Get("envDefault")
				value := getEnv(envVar, envDefault)

				fieldValue.Field(j).SetString(value)
			}
		}
	})

	return cfg
}

// getEnv retrieves the value of the environment variable named by the key or returns the defaultValue if not set
func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = defaultValue
	}
	return value
}
