package config

import (
	"strings"
	"testing"
)

func TestValidateYAMLContent(t *testing.T) {
	t.Parallel()

	content := []byte(`
org:
  id: "org-1"
  name: "Tienda Test"
ai:
  enabled: true
  api_key: "test-key"
  timeout_seconds: 15
import:
  max_file_size_mb: 5
`)

	cfg, err := ValidateYAMLContent(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Org.ID != "org-1" {
		t.Fatalf("unexpected org id: %q", cfg.Org.ID)
	}
	if !cfg.AI.Enabled || cfg.AI.APIKey != "test-key" {
		t.Fatalf("ai config not loaded: %+v", cfg.AI)
	}
	if cfg.AI.AITimeout().Seconds() != 15 {
		t.Fatalf("unexpected timeout: %v", cfg.AI.AITimeout())
	}
	if cfg.Import.MaxFileSizeBytes() != 5<<20 {
		t.Fatalf("unexpected size cap: %d", cfg.Import.MaxFileSizeBytes())
	}
}

func TestValidateYAMLContentDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("org:\n  id: \"org-1\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AI.Enabled {
		t.Fatal("ai should be disabled by default")
	}
	if cfg.AI.Model != "gemini-2.0-flash" {
		t.Fatalf("unexpected default model: %q", cfg.AI.Model)
	}
	if cfg.Import.MaxFileSizeMB != 10 {
		t.Fatalf("unexpected default size cap: %d", cfg.Import.MaxFileSizeMB)
	}
}

func TestValidateYAMLContentRejectsMissingOrg(t *testing.T) {
	t.Parallel()

	_, err := ValidateYAMLContent([]byte("ai:\n  enabled: false\n"))
	if err == nil {
		t.Fatal("missing org.id must fail validation")
	}
}

func TestValidateYAMLContentRejectsEnabledAIWithoutKey(t *testing.T) {
	t.Parallel()

	_, err := ValidateYAMLContent([]byte("org:\n  id: \"org-1\"\nai:\n  enabled: true\n"))
	if err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Fatalf("want api key validation error, got %v", err)
	}
}

func TestExampleYAMLIsValid(t *testing.T) {
	t.Parallel()

	if _, err := ValidateYAMLContent([]byte(ExampleYAML())); err != nil {
		t.Fatalf("example config must validate: %v", err)
	}
}
