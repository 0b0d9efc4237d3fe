package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/mattstanbrell/amped/src/docmeta"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "amped.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Source.Root != DefaultSourceRoot {
		t.Errorf("source root = %q", cfg.Source.Root)
	}
	if cfg.Output.Root != DefaultOutputRoot {
		t.Errorf("output root = %q", cfg.Output.Root)
	}
	if !slices.Equal(cfg.Sanitize.Platforms, docmeta.Platforms) {
		t.Errorf("platforms = %v, want full vocabulary", cfg.Sanitize.Platforms)
	}
	if *cfg.Sanitize.DisableBuiltinRules {
		t.Error("built-in rules should be enabled by default")
	}
	if !*cfg.Sanitize.AuditImports {
		t.Error("audit should be enabled by default")
	}
	if cfg.Serve.Transport != TransportStdio {
		t.Errorf("serve transport = %q", cfg.Serve.Transport)
	}
	if cfg.Serve.HTTP.Addr != DefaultHTTPAddr || cfg.Serve.HTTP.Path != DefaultHTTPPath {
		t.Errorf("http defaults = %+v", cfg.Serve.HTTP)
	}
	if cfg.Chunk.Deployment != DefaultChunkDeployment || cfg.Chunk.MinTokens != DefaultChunkMinTokens {
		t.Errorf("chunk defaults = %+v", cfg.Chunk)
	}
	if !slices.Equal(cfg.Source.SkipPatterns, DefaultSkipPatterns) {
		t.Errorf("skip patterns = %v", cfg.Source.SkipPatterns)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `{
		"source": {"root": "/docs", "skipPatterns": ["drafts/"]},
		"output": {"root": "/out"},
		"sanitize": {
			"platforms": ["react", "vue"],
			"customRemovalPatterns": ["^import\\s+internal\\b.*\\n"]
		},
		"overrides": {
			"vue": {"auditImports": false}
		},
		"serve": {"transport": "http", "http": {"addr": ":9090"}},
		"chunk": {"deployment": "gpt-4o", "minTokens": 250}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Source.Root != "/docs" {
		t.Errorf("source root = %q", cfg.Source.Root)
	}
	if !slices.Equal(cfg.Source.SkipPatterns, []string{"drafts/"}) {
		t.Errorf("skip patterns = %v", cfg.Source.SkipPatterns)
	}
	if !slices.Equal(cfg.Sanitize.Platforms, []string{"react", "vue"}) {
		t.Errorf("platforms = %v", cfg.Sanitize.Platforms)
	}
	if cfg.Serve.Transport != TransportHTTP || cfg.Serve.HTTP.Addr != ":9090" {
		t.Errorf("serve = %+v", cfg.Serve)
	}
	// Unset HTTP path still gets its default.
	if cfg.Serve.HTTP.Path != DefaultHTTPPath {
		t.Errorf("http path = %q", cfg.Serve.HTTP.Path)
	}
	if cfg.Chunk.Deployment != "gpt-4o" || cfg.Chunk.MinTokens != 250 {
		t.Errorf("chunk = %+v", cfg.Chunk)
	}
	if cfg.Chunk.MaxCompletionTokens != DefaultChunkMaxTokens {
		t.Errorf("max completion tokens = %d", cfg.Chunk.MaxCompletionTokens)
	}
	if cfg.Overrides["vue"] == nil || *cfg.Overrides["vue"].AuditImports {
		t.Errorf("overrides = %+v", cfg.Overrides)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoad_InvalidTransport(t *testing.T) {
	path := writeConfig(t, `{"serve": {"transport": "grpc"}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid transport")
	}
}

func TestLoad_UnknownPlatform(t *testing.T) {
	path := writeConfig(t, `{"sanitize": {"platforms": ["fortran"]}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown platform")
	}
}

func TestLoad_InvalidRemovalPattern(t *testing.T) {
	path := writeConfig(t, `{"sanitize": {"customRemovalPatterns": ["[invalid"]}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid removal pattern")
	}
}

func TestLoad_InvalidOverridePattern(t *testing.T) {
	path := writeConfig(t, `{"overrides": {"react": {"customRemovalPatterns": ["[invalid"]}}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid override pattern")
	}
}

func TestLoad_UnknownOverridePlatform(t *testing.T) {
	path := writeConfig(t, `{"overrides": {"basic": {}}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown override platform")
	}
}

func TestLoad_NegativeMinTokens(t *testing.T) {
	path := writeConfig(t, `{"chunk": {"minTokens": -1}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for negative minTokens")
	}
}

func TestMerge_NilOverrideKeepsGlobal(t *testing.T) {
	global := &SanitizeConfig{
		Platforms:           []string{"react"},
		DisableBuiltinRules: boolPtr(false),
		AuditImports:        boolPtr(true),
	}

	merged := Merge(global, nil)
	if !slices.Equal(merged.Platforms, []string{"react"}) || !*merged.AuditImports {
		t.Errorf("merged = %+v", merged)
	}
}

func TestMerge_OverrideWins(t *testing.T) {
	global := &SanitizeConfig{
		DisableBuiltinRules:   boolPtr(false),
		AuditImports:          boolPtr(true),
		CustomRemovalPatterns: []string{"global"},
	}
	override := &SanitizeConfig{
		AuditImports:          boolPtr(false),
		CustomRemovalPatterns: []string{"override"},
	}

	merged := Merge(global, override)
	if *merged.AuditImports {
		t.Error("override audit setting lost")
	}
	if *merged.DisableBuiltinRules {
		t.Error("global built-in setting lost")
	}
	if !slices.Equal(merged.CustomRemovalPatterns, []string{"override"}) {
		t.Errorf("patterns = %v", merged.CustomRemovalPatterns)
	}
}
