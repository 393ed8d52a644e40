package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LanguageConfig is structgraph's file-classification table: the data that
// drives the Chunker's atomic/logic/config decision (spec §4.2). It is data
// rather than hardcoded constants, generalizing the teacher's per-language
// YAML chunker registry (chunker.LoadAllLanguageConfigs) down to the single
// decorator-based framework language this spec targets.
type LanguageConfig struct {
	// Name is a human-readable label for this language profile.
	Name string `yaml:"name" mapstructure:"name"`

	// SourceExtension is the file extension candidate files must end with,
	// e.g. ".ts" (spec §4.3 step 1).
	SourceExtension string `yaml:"source_extension" mapstructure:"source_extension"`

	// TestSpecSuffix excludes files by suffix only, regardless of
	// directory (spec §9 open question, intentional by design).
	TestSpecSuffix string `yaml:"test_spec_suffix" mapstructure:"test_spec_suffix"`

	// AtomicSuffixes are the pre-extension suffixes that make a file
	// atomic: indexed as one full-text chunk (spec §4.2).
	AtomicSuffixes []string `yaml:"atomic_suffixes" mapstructure:"atomic_suffixes"`

	// ConfigMarkers are pre-extension suffixes / bare filenames identifying
	// module/bootstrap files, chunked as logic but called out distinctly
	// (spec §4.2: "Config (module/bootstrap files)").
	ConfigMarkers []string `yaml:"config_markers" mapstructure:"config_markers"`

	// TreeSitterGrammar names the tree-sitter grammar used to parse this
	// language, mirroring the teacher's tree_sitter.grammar field.
	TreeSitterGrammar string `yaml:"tree_sitter_grammar" mapstructure:"tree_sitter_grammar"`
}

// DefaultLanguageConfig is the decorator/class/DI server-framework profile
// this spec targets: TypeScript-shaped source, Nest-style module files,
// atomic data-shape suffixes for DTOs/entities/interfaces/enums/types.
func DefaultLanguageConfig() LanguageConfig {
	return LanguageConfig{
		Name:            "decorator-di-server",
		SourceExtension: ".ts",
		TestSpecSuffix:  ".spec.ts",
		AtomicSuffixes: []string{
			".dto", ".entity", ".interface", ".enum", ".type",
		},
		ConfigMarkers: []string{
			".module", "main",
		},
		TreeSitterGrammar: "typescript",
	}
}

// ParseLanguageConfig parses YAML data into a LanguageConfig, normalizing
// suffixes to lowercase the way the teacher's ParseLanguageConfig
// normalizes extensions.
func ParseLanguageConfig(data []byte) (*LanguageConfig, error) {
	var cfg LanguageConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse language config: %w", err)
	}
	for i, s := range cfg.AtomicSuffixes {
		cfg.AtomicSuffixes[i] = strings.ToLower(s)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadLanguageConfig reads and parses a language configuration file. If path
// does not exist, the embedded default profile is returned — mirroring the
// teacher's source-relative default fallback for getEmbeddedLanguagesDir.
func LoadLanguageConfig(path string) (*LanguageConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		def := DefaultLanguageConfig()
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read language config %s: %w", path, err)
	}
	return ParseLanguageConfig(data)
}

// Validate checks that all fields required for chunking are present.
func (c *LanguageConfig) Validate() error {
	var missing []string
	if c.SourceExtension == "" {
		missing = append(missing, "source_extension")
	}
	if c.TreeSitterGrammar == "" {
		missing = append(missing, "tree_sitter_grammar")
	}
	if len(missing) > 0 {
		return fmt.Errorf("language config missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsAtomicPath reports whether relPath (before the source extension) ends
// with one of the configured atomic suffixes (spec §4.2).
func (c *LanguageConfig) IsAtomicPath(relPath string) bool {
	stem := strings.TrimSuffix(relPath, c.SourceExtension)
	for _, suf := range c.AtomicSuffixes {
		if strings.HasSuffix(strings.ToLower(stem), suf) {
			return true
		}
	}
	return false
}

// IsConfigPath reports whether relPath looks like a module/bootstrap file.
// Markers starting with "." are matched as pre-extension suffixes; any other
// marker must equal the file's base name (before the extension).
func (c *LanguageConfig) IsConfigPath(relPath string) bool {
	stem := strings.TrimSuffix(relPath, c.SourceExtension)
	base := stem
	if idx := strings.LastIndexByte(stem, '/'); idx >= 0 {
		base = stem[idx+1:]
	}
	for _, marker := range c.ConfigMarkers {
		if strings.HasPrefix(marker, ".") {
			if strings.HasSuffix(strings.ToLower(stem), strings.ToLower(marker)) {
				return true
			}
		} else if strings.EqualFold(base, marker) {
			return true
		}
	}
	return false
}

// IsCandidate reports whether relPath is a candidate source file for
// indexProject's enumeration step (spec §4.3 step 1): it ends with the
// source extension and is not a test-spec file.
func (c *LanguageConfig) IsCandidate(relPath string) bool {
	if !strings.HasSuffix(relPath, c.SourceExtension) {
		return false
	}
	return !strings.HasSuffix(relPath, c.TestSpecSuffix)
}
