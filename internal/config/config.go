package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	ServerPort int
	LogLevel   string
	LogFormat  string // json or console

	AllowedOrigins []string

	// Jenga credentials
	MerchantCode   string
	ConsumerSecret string
	APIKey         string

	// Jenga endpoints
	AuthURL         string
	GatewayURL      string
	UpstreamTimeout time.Duration // 0 means no timeout

	// Payment payload fields the gateway requires but the donor never supplies
	CallbackURL        string
	ProductType        string
	ProductDescription string
	PaymentTimeLimit   string
	PostalCode         string
	Address            string
	Email              string
	CountryCode        string
	SecondaryReference string
}

// Load reads configuration from the environment, after merging a .env file
// from the working directory if one exists. Variables already set in the
// environment take precedence over the file.
func Load() *Config {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config using lookup in place of os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) *Config {
	e := env{lookup: lookup}

	return &Config{
		ServerPort:         e.getInt("SERVER_PORT", 3000),
		LogLevel:           e.get("LOG_LEVEL", "info"),
		LogFormat:          e.get("LOG_FORMAT", "json"),
		AllowedOrigins:     e.getList("ALLOWED_ORIGINS"),
		MerchantCode:       e.get("MERCHANT_CODE", ""),
		ConsumerSecret:     e.get("JENGA_CONSUMER_SECRET", ""),
		APIKey:             e.get("JENGA_API_KEY", ""),
		AuthURL:            strings.TrimRight(e.get("JENGA_AUTH_URL", "https://uat.finserve.africa"), "/"),
		GatewayURL:         strings.TrimRight(e.get("JENGA_GATEWAY_URL", "https://v3-uat.jengapgw.io"), "/"),
		UpstreamTimeout:    e.getDuration("UPSTREAM_TIMEOUT", 0),
		CallbackURL:        e.get("CALLBACK_URL", "http://localhost:3000/callback"),
		ProductType:        e.get("PRODUCT_TYPE", "Donation"),
		ProductDescription: e.get("PRODUCT_DESCRIPTION", "Donation Description"),
		PaymentTimeLimit:   e.get("PAYMENT_TIME_LIMIT", "15mins"),
		PostalCode:         e.get("CUSTOMER_POSTAL_CODE", "00100"),
		Address:            e.get("CUSTOMER_ADDRESS", "123 Tom Mboya Street, Nairobi"),
		Email:              e.get("CUSTOMER_EMAIL", "donor@example.com"),
		CountryCode:        e.get("COUNTRY_CODE", "KE"),
		SecondaryReference: e.get("SECONDARY_REFERENCE", "SecRef123"),
	}
}

// Missing returns the names of credential variables that are unset.
func (c *Config) Missing() []string {
	var missing []string
	if c.MerchantCode == "" {
		missing = append(missing, "MERCHANT_CODE")
	}
	if c.ConsumerSecret == "" {
		missing = append(missing, "JENGA_CONSUMER_SECRET")
	}
	if c.APIKey == "" {
		missing = append(missing, "JENGA_API_KEY")
	}
	return missing
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

type env struct {
	lookup func(string) (string, bool)
}

func (e env) get(key, defaultValue string) string {
	if value, exists := e.lookup(key); exists {
		return value
	}
	return defaultValue
}

func (e env) getInt(key string, defaultValue int) int {
	if value, exists := e.lookup(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (e env) getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := e.lookup(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func (e env) getList(key string) []string {
	value, exists := e.lookup(key)
	if !exists || value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
