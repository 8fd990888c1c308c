package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/msto63/arcanequest/foundation/arcane/parser"
	"github.com/msto63/arcanequest/foundation/arcane/scanner"
	"github.com/msto63/arcanequest/foundation/arcane/semantic"
	mdwerror "github.com/msto63/arcanequest/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{90 * time.Second}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "1m30s" {
		t.Errorf("MarshalText() = %v, want 1m30s", string(result))
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.General.Name != "arcq" {
		t.Errorf("General.Name = %v, want arcq", cfg.General.Name)
	}
	if cfg.General.LogLevel != "info" || cfg.General.LogFormat != "text" {
		t.Errorf("General log settings = %v/%v", cfg.General.LogLevel, cfg.General.LogFormat)
	}
	if cfg.Frontend.TabWidth != 4 {
		t.Errorf("Frontend.TabWidth = %v, want 4", cfg.Frontend.TabWidth)
	}
	if cfg.Frontend.IndentMode != "multiple" || cfg.Frontend.Division != "always-float" || cfg.Frontend.ExpressionParser != "cascade" {
		t.Errorf("Frontend = %+v", cfg.Frontend)
	}
	if cfg.Server.Port != 9310 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server address = %v", cfg.ServerAddress())
	}
	if cfg.Server.ShutdownTimeout.Duration != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v", cfg.Server.ShutdownTimeout.Duration)
	}
	if cfg.History.Enabled {
		t.Error("History should be disabled by default")
	}
	if cfg.Retention() != 30*24*time.Hour {
		t.Errorf("Retention() = %v", cfg.Retention())
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "arcq.toml",
			content: `
[general]
log_level = "debug"

[frontend]
tab_width = 8
indent_mode = "exact"
division = "promote"
expression_parser = "climbing"
sync_keywords = ["attack", "quest"]

[server]
port = 9400
keepalive = "30s"

[history]
enabled = true
path = "/tmp/history.db"
`,
		},
		{
			name: "yaml",
			file: "arcq.yaml",
			content: `
general:
  log_level: debug
frontend:
  tab_width: 8
  indent_mode: exact
  division: promote
  expression_parser: climbing
  sync_keywords: [attack, quest]
server:
  port: 9400
  keepalive: 30s
history:
  enabled: true
  path: /tmp/history.db
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if cfg.General.LogLevel != "debug" {
				t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
			}
			if cfg.Server.Port != 9400 || cfg.Server.Keepalive.Duration != 30*time.Second {
				t.Errorf("Server = %+v", cfg.Server)
			}
			if !cfg.History.Enabled || cfg.History.Path != "/tmp/history.db" {
				t.Errorf("History = %+v", cfg.History)
			}
			// untouched values keep their defaults
			if cfg.Server.Host != "127.0.0.1" || cfg.General.Name != "arcq" {
				t.Errorf("defaults not applied: %+v", cfg)
			}

			opts := cfg.FrontendOptions()
			if opts.Scanner.TabWidth != 8 || opts.Scanner.IndentMode != scanner.IndentExact {
				t.Errorf("scanner options = %+v", opts.Scanner)
			}
			if opts.Semantic.Division != semantic.DivisionPromote {
				t.Errorf("division = %v", opts.Semantic.Division)
			}
			if opts.Parser.Expression != parser.ExprClimbing {
				t.Errorf("expression parser = %v", opts.Parser.Expression)
			}
			if len(opts.Parser.SyncKeywords) != 2 || opts.Parser.SyncKeywords[0] != "attack" {
				t.Errorf("sync keywords = %v", opts.Parser.SyncKeywords)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
		code mdwerror.Code
	}{
		{"missing file", filepath.Join(dir, "absent.toml"), mdwerror.CodeMissingConfig},
		{"broken toml", write("broken.toml", "[general\n"), mdwerror.CodeInvalidConfig},
		{"bad indent mode", write("indent.toml", "[frontend]\nindent_mode = \"wide\"\n"), mdwerror.CodeInvalidConfig},
		{"bad port", write("port.yaml", "server:\n  port: 70000\n"), mdwerror.CodeInvalidConfig},
		{"bad sync keyword", write("sync.toml", "[frontend]\nsync_keywords = [\"banana\"]\n"), mdwerror.CodeInvalidConfig},
		{"bad duration", write("duration.toml", "[server]\nkeepalive = \"soon\"\n"), mdwerror.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if !mdwerror.HasCode(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestConfig_applyEnv(t *testing.T) {
	t.Setenv("ARCQ_TAB_WIDTH", "2")
	t.Setenv("ARCQ_DIVISION", "promote")
	t.Setenv("ARCQ_SERVER_PORT", "9555")
	t.Setenv("ARCQ_HISTORY_ENABLED", "true")

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		t.Fatalf("applyEnv() error = %v", err)
	}
	if cfg.Frontend.TabWidth != 2 || cfg.Frontend.Division != "promote" {
		t.Errorf("Frontend = %+v", cfg.Frontend)
	}
	if cfg.Server.Port != 9555 || !cfg.History.Enabled {
		t.Errorf("Server.Port = %d, History.Enabled = %v", cfg.Server.Port, cfg.History.Enabled)
	}

	t.Setenv("ARCQ_SERVER_PORT", "many")
	if err := Default().applyEnv(); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("applyEnv() error = %v, want invalid config", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("[general]\nname = \"custom\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("ARCQ_CONFIG", path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.General.Name != "custom" {
		t.Errorf("General.Name = %v, want custom", cfg.General.Name)
	}
}

func TestDefault_Validate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
	opts := Default().FrontendOptions()
	if opts.Parser.SyncKeywords != nil {
		t.Error("default sync keywords should be left to the parser")
	}
}
