package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	BaseURL string        `split_words:"true" default:"https://example.test"`
	Token   string        `split_words:"true" required:"true"`
	Timeout time.Duration `split_words:"true" default:"5s"`
}

func TestNewReadsEnvFileWithoutOverridingProcessEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "SAMPLE_TOKEN=from-file\nSAMPLE_BASE_URL=https://file.test\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("SAMPLE_BASE_URL", "https://process.test")
	SetEnvFile(path)
	t.Cleanup(func() {
		SetEnvFile("")
		os.Unsetenv("SAMPLE_TOKEN")
	})

	conf, err := New[sampleConfig]("SAMPLE")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Token != "from-file" {
		t.Fatalf("Token = %q, want from-file", conf.Token)
	}
	if conf.BaseURL != "https://process.test" {
		t.Fatalf("BaseURL = %q, want process value", conf.BaseURL)
	}
	if conf.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v, want default 5s", conf.Timeout)
	}
}

func TestNewMissingRequired(t *testing.T) {
	SetEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	t.Cleanup(func() { SetEnvFile("") })

	if _, err := New[sampleConfig]("NOPE"); err == nil {
		t.Fatal("expected error for missing env file")
	}
}

func TestMustNewPanicsOnError(t *testing.T) {
	SetEnvFile("")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing required value")
		}
	}()
	_ = MustNew[sampleConfig]("ABSENT_PREFIX")
}
