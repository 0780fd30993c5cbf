package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// InitViper initializes Viper with the configuration file and environment
// variables. If configFile is empty, it searches standard locations for
// listgate.yaml/.yml. Env vars are unprefixed per §6 — STORE_URI, not
// LISTGATE_STORE_URI — so existing deployment tooling can set them directly.
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		viper.SetConfigName("listgate")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindEnvKeys()
}

func findConfigFile() string {
	paths := []string{"."}
	if home := userConfigDir(); home != "" {
		paths = append(paths, filepath.Join(home, ".listgate"))
	}
	paths = append(paths, "/etc/listgate")
	return findConfigFileInPaths(paths)
}

// findConfigFileInPaths searches the given directories for listgate.yaml or
// .yml, preferring .yaml. Extension must be explicit so a same-named binary
// in the current directory is never mistaken for a config file.
func findConfigFileInPaths(paths []string) string {
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "listgate"+ext)
			if fileExists(path) {
				return path
			}
		}
	}
	return ""
}

// bindEnvKeys binds every config key by its exact env var name so Viper's
// unprefixed AutomaticEnv picks it up without relying on name mangling.
func bindEnvKeys() {
	_ = viper.BindEnv("store_uri", "STORE_URI")
	_ = viper.BindEnv("store_module_name", "STORE_MODULE_NAME")
	_ = viper.BindEnv("gateway_bind_address", "GATEWAY_BIND_ADDRESS")
	_ = viper.BindEnv("idp_base_url", "IDP_BASE_URL")
	_ = viper.BindEnv("idp_issuer_url", "IDP_ISSUER_URL")
	_ = viper.BindEnv("idp_client_id", "IDP_CLIENT_ID")
	_ = viper.BindEnv("admin_redirect_uri", "ADMIN_REDIRECT_URI")
	_ = viper.BindEnv("oauth_scopes", "OAUTH_SCOPES")
	_ = viper.BindEnv("log_level", "LOG_LEVEL")
	_ = viper.BindEnv("log_redact_ips", "LOG_REDACT_IPS")
	_ = viper.BindEnv("hook_timeout", "HOOK_TIMEOUT")
	_ = viper.BindEnv("admin_rate_limit", "ADMIN_RATE_LIMIT")
	_ = viper.BindEnv("resolver_cache_size", "RESOLVER_CACHE_SIZE")
	_ = viper.BindEnv("dev_mode", "DEV_MODE")
	// admin_credential_hashes is a comma-separated list; Viper's decoder
	// splits the env string on every comma, and LoadConfigRaw reassembles
	// the hashes.
	_ = viper.BindEnv("admin_credential_hashes", "ADMIN_CREDENTIAL_HASHES")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadConfig reads config file + environment, applies defaults, validates.
func LoadConfig() (*Config, error) {
	cfg, err := LoadConfigRaw()
	if err != nil {
		return nil, err
	}
	cfg.SetDevDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigRaw reads config file + environment and applies defaults, but
// does not validate. Use when CLI flags may still override DevMode.
func LoadConfigRaw() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// admin_credential_hashes arrives comma-joined (or already cut at every
	// comma) when sourced from ADMIN_CREDENTIAL_HASHES. PHC hashes carry
	// commas of their own (m=...,t=...,p=...), so entries are separated only
	// where a comma is followed by the next hash's leading '$'.
	if len(cfg.AdminCredentialHashes) > 0 {
		parts := strings.Split(strings.Join(cfg.AdminCredentialHashes, ","), ",$")
		for i := 1; i < len(parts); i++ {
			parts[i] = "$" + parts[i]
		}
		cfg.AdminCredentialHashes = parts
	}

	cfg.SetDefaults()
	return &cfg, nil
}

// ConfigFileUsed returns the path of the configuration file that was loaded,
// or "" when running on environment variables alone.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
