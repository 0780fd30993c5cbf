package config

import (
	"strings"
	"testing"
)

func minimalValidConfig() *Config {
	cfg := &Config{
		StoreURI:              "./test.db",
		StoreModuleName:       "listgate-test",
		GatewayBindAddress:    "127.0.0.1:8025",
		LogLevel:              "info",
		HookTimeout:           "30s",
		AdminCredentialHashes: []string{"$argon2id$v=19$m=47104,t=1,p=1$c2FsdA$aGFzaA"},
	}
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()

	cfg := minimalValidConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestValidate_MissingStoreURI(t *testing.T) {
	t.Parallel()

	cfg := minimalValidConfig()
	cfg.StoreURI = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for missing store_uri")
	}
}

func TestValidate_BadBindAddress(t *testing.T) {
	t.Parallel()

	cfg := minimalValidConfig()
	cfg.GatewayBindAddress = "not-a-host-port"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for malformed gateway_bind_address")
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	t.Parallel()

	cfg := minimalValidConfig()
	cfg.LogLevel = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for invalid log_level")
	}
}

func TestValidate_BadHookTimeout(t *testing.T) {
	t.Parallel()

	cfg := minimalValidConfig()
	cfg.HookTimeout = "soon"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for malformed hook_timeout")
	}
	if !strings.Contains(err.Error(), "hook_timeout") {
		t.Errorf("error %q does not mention hook_timeout", err.Error())
	}
}

func TestValidate_RequiresAdminCredentialOutsideDevMode(t *testing.T) {
	t.Parallel()

	cfg := minimalValidConfig()
	cfg.AdminCredentialHashes = nil
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error when no admin_credential_hashes and dev_mode is false")
	}
}

func TestValidate_DevModeAllowsMissingAdminCredential(t *testing.T) {
	t.Parallel()

	cfg := minimalValidConfig()
	cfg.AdminCredentialHashes = nil
	cfg.DevMode = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error in dev_mode: %v", err)
	}
}
