package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.SetDefaults()

	if cfg.StoreURI != "./listgate.db" {
		t.Errorf("StoreURI = %q, want %q", cfg.StoreURI, "./listgate.db")
	}
	if cfg.GatewayBindAddress != "127.0.0.1:8025" {
		t.Errorf("GatewayBindAddress = %q, want %q", cfg.GatewayBindAddress, "127.0.0.1:8025")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.HookTimeout != "30s" {
		t.Errorf("HookTimeout = %q, want %q", cfg.HookTimeout, "30s")
	}
	if cfg.ResolverCacheSize != 4096 {
		t.Errorf("ResolverCacheSize = %d, want 4096", cfg.ResolverCacheSize)
	}
}

func TestConfig_SetDefaults_PreservesExistingValues(t *testing.T) {
	t.Parallel()

	cfg := Config{
		StoreURI:           "postgres-style-dsn-irrelevant-here",
		GatewayBindAddress: ":9090",
		HookTimeout:        "5s",
		ResolverCacheSize:  128,
	}
	cfg.SetDefaults()

	if cfg.StoreURI != "postgres-style-dsn-irrelevant-here" {
		t.Errorf("StoreURI was overwritten: got %q", cfg.StoreURI)
	}
	if cfg.GatewayBindAddress != ":9090" {
		t.Errorf("GatewayBindAddress was overwritten: got %q", cfg.GatewayBindAddress)
	}
	if cfg.HookTimeout != "5s" {
		t.Errorf("HookTimeout was overwritten: got %q", cfg.HookTimeout)
	}
	if cfg.ResolverCacheSize != 128 {
		t.Errorf("ResolverCacheSize was overwritten: got %d", cfg.ResolverCacheSize)
	}
}

func TestConfig_SetDevDefaults_SeedsAdminCredential(t *testing.T) {
	t.Parallel()

	cfg := Config{DevMode: true}
	cfg.SetDevDefaults()

	if len(cfg.AdminCredentialHashes) == 0 {
		t.Fatal("expected a seeded admin credential hash in dev mode")
	}
}

func TestConfig_SetDevDefaults_NoOpWithoutDevMode(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	cfg.SetDevDefaults()

	if len(cfg.AdminCredentialHashes) != 0 {
		t.Error("SetDevDefaults should not seed credentials outside dev mode")
	}
}

func TestFindConfigFileInPaths_EmptyDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	got := findConfigFileInPaths([]string{dir})
	if got != "" {
		t.Errorf("findConfigFileInPaths(empty dir) = %q, want empty", got)
	}
}

func TestFindConfigFileInPaths_MatchesYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "listgate.yaml")
	_ = os.WriteFile(cfgPath, []byte("store_uri: ./x.db\n"), 0644)

	got := findConfigFileInPaths([]string{dir})
	if got != cfgPath {
		t.Errorf("findConfigFileInPaths = %q, want %q", got, cfgPath)
	}
}

func TestFindConfigFileInPaths_MatchesYML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "listgate.yml")
	_ = os.WriteFile(cfgPath, []byte("store_uri: ./x.db\n"), 0644)

	got := findConfigFileInPaths([]string{dir})
	if got != cfgPath {
		t.Errorf("findConfigFileInPaths = %q, want %q", got, cfgPath)
	}
}

func TestFindConfigFileInPaths_IgnoresNoExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "listgate"), []byte("\x7fELF binary"), 0755)

	got := findConfigFileInPaths([]string{dir})
	if got != "" {
		t.Errorf("findConfigFileInPaths matched binary = %q, want empty", got)
	}
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := Config{
		StoreURI:           "/var/lib/listgate/store.db",
		StoreModuleName:    "solawi",
		GatewayBindAddress: "0.0.0.0:8025",
		LogLevel:           "warn",
		LogRedactIPs:       true,
		HookTimeout:        "15s",
		AdminCredentialHashes: []string{
			"$argon2id$v=19$m=47104,t=1,p=1$aaaa$bbbb",
		},
		ResolverCacheSize: 2048,
		AdminRateLimit:    30,
	}

	out, err := yaml.Marshal(&cfg)
	if err != nil {
		t.Fatalf("yaml.Marshal() error: %v", err)
	}

	var got Config
	if err := yaml.Unmarshal(out, &got); err != nil {
		t.Fatalf("yaml.Unmarshal() error: %v", err)
	}

	if got.StoreURI != cfg.StoreURI || got.GatewayBindAddress != cfg.GatewayBindAddress ||
		got.LogLevel != cfg.LogLevel || got.HookTimeout != cfg.HookTimeout ||
		got.ResolverCacheSize != cfg.ResolverCacheSize || got.AdminRateLimit != cfg.AdminRateLimit ||
		got.LogRedactIPs != cfg.LogRedactIPs || len(got.AdminCredentialHashes) != len(cfg.AdminCredentialHashes) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, cfg)
	}
}

func TestFindConfigFileInPaths_PrefersYAMLOverYML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "listgate.yaml")
	ymlPath := filepath.Join(dir, "listgate.yml")
	_ = os.WriteFile(yamlPath, []byte("store_uri: ./a.db\n"), 0644)
	_ = os.WriteFile(ymlPath, []byte("store_uri: ./b.db\n"), 0644)

	got := findConfigFileInPaths([]string{dir})
	if got != yamlPath {
		t.Errorf("findConfigFileInPaths = %q, want %q (.yaml preferred)", got, yamlPath)
	}
}
