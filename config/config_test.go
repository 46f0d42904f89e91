package config

import (
	"strings"
	"testing"
)

func TestValidateYAMLContent_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("log:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected log level from content, got %q", cfg.Log.Level)
	}
	if cfg.Database.Path != DefaultDatabasePath() {
		t.Fatalf("expected default database path, got %q", cfg.Database.Path)
	}
	if cfg.Entry.DefaultHours != DefaultEntryHours {
		t.Fatalf("expected default hours %v, got %v", DefaultEntryHours, cfg.Entry.DefaultHours)
	}
	if cfg.Export.Directory != "." {
		t.Fatalf("expected default export directory, got %q", cfg.Export.Directory)
	}
}

func TestValidateYAMLContent_AcceptsExampleTemplate(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Fatalf("unexpected log level %q", cfg.Log.Level)
	}
}

func TestValidateYAMLContent_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "unknown log level", content: "log:\n  level: loud\n", want: "Level"},
		{name: "too many default hours", content: "entry:\n  default_hours: 25\n", want: "DefaultHours"},
		{name: "negative default hours", content: "entry:\n  default_hours: -1\n", want: "DefaultHours"},
		{name: "empty database path", content: "database:\n  path: \"\"\n", want: "Path"},
		{name: "broken yaml", content: "log: [\n", want: "read config content"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ValidateYAMLContent([]byte(tc.content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
