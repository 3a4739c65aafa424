package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv("NVIDIA_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("PORT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil {
		t.Fatal("explicit missing file should be an error")
	}

	// Default path missing is fine — chdir into an empty dir.
	wd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if chdirErr := os.Chdir(t.TempDir()); chdirErr != nil {
		t.Fatalf("chdir: %v", chdirErr)
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("default port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Audio.CaptureCommand != "sox" {
		t.Errorf("default capture command = %q, want sox", cfg.Audio.CaptureCommand)
	}
	if cfg.AuthEnabled() {
		t.Error("auth should be disabled with no secret configured")
	}
}

func TestLoad_YAMLAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mercury.yml")
	yml := `
server:
  port: 6000
  uploads_dir: /srv/uploads
audio:
  settle_delay_ms: 250
families:
  nemotron:
    markdown_hint: true
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "7000")
	t.Setenv("NVIDIA_API_KEY", "nvapi-test")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// env beats file
	if cfg.Server.Port != 7000 {
		t.Errorf("port = %d, want env override 7000", cfg.Server.Port)
	}
	// file beats defaults
	if cfg.Server.UploadsDir != "/srv/uploads" {
		t.Errorf("uploads dir = %q, want /srv/uploads", cfg.Server.UploadsDir)
	}
	if cfg.Audio.SettleDelayMS != 250 {
		t.Errorf("settle delay = %d, want 250", cfg.Audio.SettleDelayMS)
	}
	// untouched defaults survive a partial file
	if cfg.Audio.TTSServer != "0.0.0.0:50051" {
		t.Errorf("tts server = %q, want default", cfg.Audio.TTSServer)
	}
	if cfg.NVIDIAAPIKey != "nvapi-test" {
		t.Errorf("nvidia key = %q, want nvapi-test", cfg.NVIDIAAPIKey)
	}
	if !cfg.Family("nemotron").MarkdownHint {
		t.Error("nemotron markdown_hint should be true")
	}
	if cfg.Family("unknown").MarkdownHint {
		t.Error("unknown family should be zero-valued")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mercury.yml")
	if err := os.WriteFile(path, []byte("server: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestAuthEnabled(t *testing.T) {
	cfg := Defaults()
	cfg.Auth.JWTSecret = "s"
	if cfg.AuthEnabled() {
		t.Error("secret without password hash must not enable auth")
	}
	cfg.Auth.PasswordHash = "$2a$12$hash"
	if !cfg.AuthEnabled() {
		t.Error("secret + hash should enable auth")
	}
}
