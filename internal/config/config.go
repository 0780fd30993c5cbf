// Package config provides configuration for the listgate mail-policy gateway.
//
// Configuration is environment-variable first (the gateway is meant to run
// as a long-lived daemon fed by a process manager or container orchestrator);
// an optional YAML file can supply the same keys for local development.
package config

import (
	"os"
)

// Config is the top-level configuration for listgate.
type Config struct {
	// StoreURI is the DSN for the authoritative store (sqlite file path or
	// "file::memory:?cache=shared" for ephemeral runs).
	StoreURI string `yaml:"store_uri" mapstructure:"store_uri" validate:"required"`

	// StoreModuleName identifies this deployment inside the processed-by
	// modification the gateway stamps on accepted messages (§4.1).
	StoreModuleName string `yaml:"store_module_name" mapstructure:"store_module_name" validate:"required"`

	// GatewayBindAddress is the address the MTA hook / user-sync HTTP
	// listener binds to, e.g. "127.0.0.1:8025".
	GatewayBindAddress string `yaml:"gateway_bind_address" mapstructure:"gateway_bind_address" validate:"required,hostname_port"`

	// IDP configures the OIDC identity provider consulted by the admin
	// read-path UI. None of these are read by the core hook/sync path.
	IDPBaseURL      string `yaml:"idp_base_url" mapstructure:"idp_base_url" validate:"omitempty,url"`
	IDPIssuerURL    string `yaml:"idp_issuer_url" mapstructure:"idp_issuer_url" validate:"omitempty,url"`
	IDPClientID     string `yaml:"idp_client_id" mapstructure:"idp_client_id"`
	AdminRedirectURI string `yaml:"admin_redirect_uri" mapstructure:"admin_redirect_uri" validate:"omitempty,url"`
	OAuthScopes     string `yaml:"oauth_scopes" mapstructure:"oauth_scopes"`

	// LogLevel sets the minimum slog level. Valid: debug, info, warn, error.
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogRedactIPs, when true, writes client_ip in audit logs and
	// mta_connection_log/mta_message_log rows as "[REDACTED]" (§6).
	LogRedactIPs bool `yaml:"log_redact_ips" mapstructure:"log_redact_ips"`

	// HookTimeout bounds the wall-clock time Evaluate+store commit may take
	// for a single hook call (§5). Default 30s.
	HookTimeout string `yaml:"hook_timeout" mapstructure:"hook_timeout" validate:"omitempty"`

	// AdminCredentialHashes is a comma-separated list of argon2id hashes
	// (as produced by `listgate hash-key`). A bearer credential that
	// verifies against any entry resolves to an admin principal (§9).
	AdminCredentialHashes []string `yaml:"admin_credential_hashes" mapstructure:"admin_credential_hashes"`

	// ResolverCacheSize is the size setting for the category-resolution LRU
	// cache (policy.ResolverCache). SetDefaults replaces 0 with 4096. No
	// component reads this value: the store adapters build no resolver cache.
	ResolverCacheSize int `yaml:"resolver_cache_size" mapstructure:"resolver_cache_size" validate:"omitempty,min=0"`

	// AdminRateLimit is loaded and defaulted (120) but no component reads
	// it: the admin HTTP surface's limiter is fixed at 60 requests per
	// minute per client IP (ambient web hygiene, not a mail-domain policy —
	// see SPEC_FULL.md Non-goals).
	AdminRateLimit int `yaml:"admin_rate_limit" mapstructure:"admin_rate_limit" validate:"omitempty,min=1"`

	// DevMode relaxes nothing about policy evaluation; it only widens
	// logging and seeds a permissive local admin credential when no
	// AdminCredentialHashes are configured, so a fresh checkout is usable.
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// SetDefaults applies sensible defaults for optional fields.
func (c *Config) SetDefaults() {
	if c.StoreURI == "" {
		c.StoreURI = "./listgate.db"
	}
	if c.StoreModuleName == "" {
		c.StoreModuleName = "listgate"
	}
	if c.GatewayBindAddress == "" {
		c.GatewayBindAddress = "127.0.0.1:8025"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.HookTimeout == "" {
		c.HookTimeout = "30s"
	}
	if c.ResolverCacheSize == 0 {
		c.ResolverCacheSize = 4096
	}
	if c.AdminRateLimit == 0 {
		c.AdminRateLimit = 120
	}
}

// SetDevDefaults seeds a usable local admin credential when DevMode is set
// and no credential hashes were configured, mirroring the teacher's
// dev-mode-fills-auth convention.
func (c *Config) SetDevDefaults() {
	if !c.DevMode {
		return
	}
	if len(c.AdminCredentialHashes) == 0 {
		// argon2id hash of "dev-admin"; for local iteration only.
		c.AdminCredentialHashes = []string{
			"$argon2id$v=19$m=47104,t=1,p=1$UkVQTEFDRV9TQUxU$6OZ+yX1uq5Vb3u2VZC6P3jvvvTtL1E7N4F0K5kM8rfA",
		}
	}
	if c.LogLevel == "" || c.LogLevel == "info" {
		c.LogLevel = "debug"
	}
}

// userConfigDir returns a user-local config directory candidate, kept
// as a helper so loader.go's search list stays a one-line-per-path table.
func userConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
