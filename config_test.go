package nova

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/kr/pretty"
)

func TestLoadConfigOverridesDefaults(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`
max_call_depth: 64
stack_size: 32
instruction_limit: 1000
include_root: scripts
log_level: debug
color: never
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	expected := Config{
		MaxCallDepth:     64,
		StackSize:        32,
		InstructionLimit: 1000,
		IncludeRoot:      "scripts",
		LogLevel:         "debug",
		Color:            "never",
	}
	if diff := pretty.Diff(cfg, expected); len(diff) > 0 {
		t.Fatalf("unexpected config: %v", diff)
	}
	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v (%v)", level, err)
	}
}

func TestLoadConfigPartialAndEmpty(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader("stack_size: 16\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	expected := DefaultConfig()
	expected.StackSize = 16
	if diff := pretty.Diff(cfg, expected); len(diff) > 0 {
		t.Fatalf("unexpected config: %v", diff)
	}

	cfg, err = LoadConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if diff := pretty.Diff(cfg, DefaultConfig()); len(diff) > 0 {
		t.Fatalf("expected defaults, got: %v", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		src      string
		expected []string
	}{
		{"max_depth: 3\n", []string{"field max_depth not found"}},
		{"stack_size: [1]\n", []string{"config: parse"}},
		{
			"max_call_depth: 0\nstack_size: -1\ninstruction_limit: -5\nlog_level: loud\ncolor: sometimes\n",
			[]string{
				"max_call_depth must be positive, got 0",
				"stack_size must be positive, got -1",
				"instruction_limit must not be negative, got -5",
				`log_level "loud" is not a known level`,
				`color must be auto, always or never, got "sometimes"`,
			},
		},
	}
	for _, tt := range tests {
		_, err := LoadConfig(strings.NewReader(tt.src))
		if err == nil {
			t.Fatalf("%q: expected error", tt.src)
		}
		for _, want := range tt.expected {
			if !strings.Contains(err.Error(), want) {
				t.Fatalf("%q: expected error containing %q, got %q", tt.src, want, err.Error())
			}
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	fs := memfs.New()
	if err := util.WriteFile(fs, "nova.yaml", []byte("max_call_depth: 100\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfigFile(fs, "nova.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxCallDepth != 100 {
		t.Fatalf("expected 100, got %d", cfg.MaxCallDepth)
	}
	if _, err := LoadConfigFile(fs, "missing.yaml"); err == nil || !strings.Contains(err.Error(), "config: open missing.yaml") {
		t.Fatalf("expected open error, got %v", err)
	}
	if err := util.WriteFile(fs, "bad.yaml", []byte("color: red\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfigFile(fs, "bad.yaml"); err == nil || !strings.HasPrefix(err.Error(), "bad.yaml: config: invalid") {
		t.Fatalf("expected validation error prefixed with path, got %v", err)
	}
}
