package config

import (
	"reflect"
	"testing"
	"time"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg := FromLookup(lookupFrom(nil))

	if cfg.ServerPort != 3000 {
		t.Errorf("ServerPort = %d, want 3000", cfg.ServerPort)
	}
	if cfg.CallbackURL != "http://localhost:3000/callback" {
		t.Errorf("CallbackURL = %q", cfg.CallbackURL)
	}
	if cfg.AuthURL != "https://uat.finserve.africa" {
		t.Errorf("AuthURL = %q", cfg.AuthURL)
	}
	if cfg.GatewayURL != "https://v3-uat.jengapgw.io" {
		t.Errorf("GatewayURL = %q", cfg.GatewayURL)
	}
	if cfg.UpstreamTimeout != 0 {
		t.Errorf("UpstreamTimeout = %v, want 0", cfg.UpstreamTimeout)
	}
	if cfg.PaymentTimeLimit != "15mins" || cfg.CountryCode != "KE" || cfg.SecondaryReference != "SecRef123" {
		t.Errorf("unexpected payload defaults: %+v", cfg)
	}
	if cfg.Addr() != ":3000" {
		t.Errorf("Addr = %q", cfg.Addr())
	}

	want := []string{"MERCHANT_CODE", "JENGA_CONSUMER_SECRET", "JENGA_API_KEY"}
	if got := cfg.Missing(); !reflect.DeepEqual(got, want) {
		t.Errorf("Missing = %v, want %v", got, want)
	}
}

func TestOverrides(t *testing.T) {
	cfg := FromLookup(lookupFrom(map[string]string{
		"SERVER_PORT":           "8081",
		"MERCHANT_CODE":         "M1",
		"JENGA_CONSUMER_SECRET": "sec",
		"JENGA_API_KEY":         "key",
		"JENGA_GATEWAY_URL":     "http://gw.local/",
		"UPSTREAM_TIMEOUT":      "5s",
		"ALLOWED_ORIGINS":       " https://a.example , ,https://b.example",
		"CALLBACK_URL":          "https://relay.example/callback",
	}))

	if cfg.ServerPort != 8081 {
		t.Errorf("ServerPort = %d", cfg.ServerPort)
	}
	if cfg.GatewayURL != "http://gw.local" {
		t.Errorf("GatewayURL = %q, want trailing slash trimmed", cfg.GatewayURL)
	}
	if cfg.UpstreamTimeout != 5*time.Second {
		t.Errorf("UpstreamTimeout = %v", cfg.UpstreamTimeout)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	if cfg.CallbackURL != "https://relay.example/callback" {
		t.Errorf("CallbackURL = %q", cfg.CallbackURL)
	}
	if m := cfg.Missing(); len(m) != 0 {
		t.Errorf("Missing = %v, want none", m)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	cfg := FromLookup(lookupFrom(map[string]string{
		"SERVER_PORT":      "abc",
		"UPSTREAM_TIMEOUT": "soon",
	}))
	if cfg.ServerPort != 3000 {
		t.Errorf("ServerPort = %d, want default", cfg.ServerPort)
	}
	if cfg.UpstreamTimeout != 0 {
		t.Errorf("UpstreamTimeout = %v, want default", cfg.UpstreamTimeout)
	}
}
