package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIBaseURL != "https://localhost:3000/api" {
		t.Errorf("unexpected default api_base_url: %q", cfg.APIBaseURL)
	}
	if cfg.PollTimeout != 50 || cfg.SubmitTimeout != 30 {
		t.Errorf("unexpected default timeouts: %d/%d", cfg.PollTimeout, cfg.SubmitTimeout)
	}
	if cfg.Admin.Enabled {
		t.Error("admin server should be disabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lifebot.yml")
	content := `bot_token: "123:abc"
bot_secret: "shh"
api_base_url: "https://life.example.com/api"
poll_timeout: 10
admin:
  enabled: true
  port: 9000
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BotToken != "123:abc" || cfg.BotSecret != "shh" {
		t.Errorf("credentials not loaded: %+v", cfg)
	}
	if cfg.APIBaseURL != "https://life.example.com/api" {
		t.Errorf("api_base_url not loaded: %q", cfg.APIBaseURL)
	}
	if cfg.PollTimeout != 10 {
		t.Errorf("poll_timeout not loaded: %d", cfg.PollTimeout)
	}
	if !cfg.Admin.Enabled || cfg.Admin.Port != 9000 {
		t.Errorf("admin settings not loaded: %+v", cfg.Admin)
	}
	// Values absent from the file keep their defaults.
	if cfg.SubmitTimeout != 30 {
		t.Errorf("submit_timeout default lost: %d", cfg.SubmitTimeout)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lifebot.yml")
	if err := os.WriteFile(path, []byte("bot_token: \"from-file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LIFEBOT_BOT_TOKEN", "from-env")
	t.Setenv("LIFEBOT_ADMIN__PORT", "7777")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BotToken != "from-env" {
		t.Errorf("expected env override, got %q", cfg.BotToken)
	}
	if cfg.Admin.Port != 7777 {
		t.Errorf("expected nested env override, got %d", cfg.Admin.Port)
	}
}

func TestValidateRequiresCredentials(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing bot_token")
	}

	cfg.BotToken = "123:abc"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing bot_secret")
	}

	cfg.BotSecret = "shh"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BotToken = "t"
	cfg.BotSecret = "s"

	cfg.PollTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero poll_timeout")
	}
	cfg.PollTimeout = 50

	cfg.Admin.Enabled = true
	cfg.Admin.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid admin port")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lifebot.yml")
	cfg := DefaultConfig()
	cfg.BotToken = "123:abc"
	cfg.BotSecret = "shh"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.BotToken != "123:abc" || loaded.BotSecret != "shh" {
		t.Errorf("round trip lost credentials: %+v", loaded)
	}
}
