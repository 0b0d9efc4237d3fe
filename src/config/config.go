// Package config loads the converter configuration from JSON, applies
// defaults, and validates it once at startup. Removal patterns are
// compiled during validation so a malformed pattern is a fatal
// configuration error, never a per-document failure.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/mattstanbrell/amped/src/docmeta"
)

// Config is the top-level converter configuration loaded from JSON.
type Config struct {
	Source    SourceConfig               `json:"source"`
	Output    OutputConfig               `json:"output"`
	Sanitize  SanitizeConfig             `json:"sanitize"`
	Overrides map[string]*SanitizeConfig `json:"overrides,omitempty"`
	Serve     ServeConfig                `json:"serve"`
	Chunk     ChunkConfig                `json:"chunk"`
}

// SourceConfig locates the docs tree to convert.
type SourceConfig struct {
	Root         string   `json:"root"`                   // workspace containing src/pages
	SkipPatterns []string `json:"skipPatterns,omitempty"` // gitignore-style directory skips
}

// OutputConfig locates the converted markdown tree.
type OutputConfig struct {
	Root string `json:"root"` // e.g. "llms-docs"
}

// SanitizeConfig controls import removal and auditing. At the root
// level it provides global defaults; per-platform entries in Overrides
// override the global field-by-field.
type SanitizeConfig struct {
	Platforms             []string `json:"platforms,omitempty"`
	DisableBuiltinRules   *bool    `json:"disableBuiltinRules,omitempty"`
	CustomRemovalPatterns []string `json:"customRemovalPatterns,omitempty"`
	AuditImports          *bool    `json:"auditImports,omitempty"`
}

// ServeConfig controls how MCP clients connect to the docs server.
type ServeConfig struct {
	Transport string     `json:"transport"` // "stdio" or "http"
	HTTP      HTTPConfig `json:"http"`
}

// HTTPConfig holds HTTP listener settings.
type HTTPConfig struct {
	Addr string `json:"addr"` // e.g. ":8080"
	Path string `json:"path"` // e.g. "/mcp"
}

// ChunkConfig controls the LLM chunk proposer.
type ChunkConfig struct {
	Deployment          string `json:"deployment"`
	MinTokens           int    `json:"minTokens"`
	MaxCompletionTokens int    `json:"maxCompletionTokens"`
}

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	DefaultSourceRoot = "."
	DefaultOutputRoot = "llms-docs"
	DefaultHTTPAddr   = ":8080"
	DefaultHTTPPath   = "/mcp"

	DefaultChunkDeployment = "o3-mini"
	DefaultChunkMinTokens  = 500
	DefaultChunkMaxTokens  = 4096
)

// DefaultSkipPatterns name the directories the converter never
// descends into. Brackets are escaped because skip patterns use
// gitignore matching, where an unescaped bracket is a character class.
var DefaultSkipPatterns = []string{"gen1/", `\[category\]/`}

// Load reads and parses a JSON config file, applies defaults, and
// validates. A missing file is not an error: the defaults stand alone.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Optional config; run on defaults.
	case err != nil:
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Source.Root == "" {
		cfg.Source.Root = DefaultSourceRoot
	}
	if cfg.Source.SkipPatterns == nil {
		cfg.Source.SkipPatterns = DefaultSkipPatterns
	}
	if cfg.Output.Root == "" {
		cfg.Output.Root = DefaultOutputRoot
	}

	if len(cfg.Sanitize.Platforms) == 0 {
		cfg.Sanitize.Platforms = docmeta.Platforms
	}
	if cfg.Sanitize.DisableBuiltinRules == nil {
		cfg.Sanitize.DisableBuiltinRules = boolPtr(false)
	}
	if cfg.Sanitize.AuditImports == nil {
		cfg.Sanitize.AuditImports = boolPtr(true)
	}

	if cfg.Serve.Transport == "" {
		cfg.Serve.Transport = TransportStdio
	}
	if cfg.Serve.HTTP.Addr == "" {
		cfg.Serve.HTTP.Addr = DefaultHTTPAddr
	}
	if cfg.Serve.HTTP.Path == "" {
		cfg.Serve.HTTP.Path = DefaultHTTPPath
	}

	if cfg.Chunk.Deployment == "" {
		cfg.Chunk.Deployment = DefaultChunkDeployment
	}
	if cfg.Chunk.MinTokens == 0 {
		cfg.Chunk.MinTokens = DefaultChunkMinTokens
	}
	if cfg.Chunk.MaxCompletionTokens == 0 {
		cfg.Chunk.MaxCompletionTokens = DefaultChunkMaxTokens
	}
}

func validate(cfg Config) error {
	if cfg.Serve.Transport != TransportStdio && cfg.Serve.Transport != TransportHTTP {
		return fmt.Errorf("serve transport must be %q or %q, got %q",
			TransportStdio, TransportHTTP, cfg.Serve.Transport)
	}

	for i, p := range cfg.Sanitize.Platforms {
		if !docmeta.IsPlatform(p) {
			return fmt.Errorf("sanitize.platforms[%d]: unknown platform %q", i, p)
		}
	}

	// Validate custom removal patterns are valid regexes.
	for i, pattern := range cfg.Sanitize.CustomRemovalPatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("sanitize.customRemovalPatterns[%d]: invalid regex %q: %w", i, pattern, err)
		}
	}

	for platform, override := range cfg.Overrides {
		if !docmeta.IsPlatform(platform) {
			return fmt.Errorf("overrides: unknown platform %q", platform)
		}
		if override == nil {
			continue
		}
		for i, pattern := range override.CustomRemovalPatterns {
			if _, err := regexp.Compile(pattern); err != nil {
				return fmt.Errorf("overrides[%s].customRemovalPatterns[%d]: invalid regex %q: %w",
					platform, i, pattern, err)
			}
		}
	}

	if cfg.Chunk.MinTokens < 0 {
		return fmt.Errorf("chunk.minTokens must not be negative, got %d", cfg.Chunk.MinTokens)
	}

	return nil
}

// Merge returns a SanitizeConfig with per-platform overrides applied on
// top of global defaults. Fields that are nil in the override use the
// global value.
func Merge(global, override *SanitizeConfig) SanitizeConfig {
	if override == nil {
		return *global
	}

	merged := *global

	if len(override.Platforms) > 0 {
		merged.Platforms = override.Platforms
	}
	if override.DisableBuiltinRules != nil {
		merged.DisableBuiltinRules = override.DisableBuiltinRules
	}
	if len(override.CustomRemovalPatterns) > 0 {
		merged.CustomRemovalPatterns = override.CustomRemovalPatterns
	}
	if override.AuditImports != nil {
		merged.AuditImports = override.AuditImports
	}

	return merged
}

func boolPtr(b bool) *bool { return &b }
