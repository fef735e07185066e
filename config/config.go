// Package config loads the .l10nsync.yaml project file.
//
// The file is optional. When it is missing, every setting takes the default
// matching the game's repository layout: sources under src/, language files
// under data/languages/.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = ".l10nsync.yaml"

// Defaults.
const (
	DefaultSourceDir    = "src"
	DefaultLanguagesDir = "data/languages"
	DefaultIndexFile    = "index.json"
	DefaultSkipSegment  = "external"
)

// DefaultExtensions lists the source extensions scanned when none are configured.
var DefaultExtensions = []string{".c", ".cpp", ".h"}

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// Config is the top-level .l10nsync.yaml structure.
type Config struct {
	// SourceDir is the source tree to scan, relative to the project root.
	SourceDir string `yaml:"source_dir,omitempty"`
	// LanguagesDir holds one JSON file per language, relative to the project root.
	LanguagesDir string `yaml:"languages_dir,omitempty"`
	// IndexFile is the file name inside LanguagesDir that lists languages
	// and is never rewritten.
	IndexFile string `yaml:"index_file,omitempty"`
	// Extensions are the source file extensions to scan.
	Extensions []string `yaml:"extensions,omitempty"`
	// SkipSegment is a directory name; any path containing it is not scanned.
	SkipSegment string `yaml:"skip_segment,omitempty"`
	// EscapeNonASCII writes non-ASCII characters as \uXXXX escapes.
	EscapeNonASCII *bool `yaml:"escape_non_ascii,omitempty"`
	// FallbackEncoding decodes matched strings that are not valid UTF-8.
	// Empty means invalid UTF-8 is an error.
	FallbackEncoding string `yaml:"fallback_encoding,omitempty"`
	// ArchiveStale keeps translations of strings no longer found in source
	// under "old translations" instead of dropping them.
	ArchiveStale bool `yaml:"archive_stale,omitempty"`

	root string `yaml:"-"`
	path string `yaml:"-"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns the configuration used when no config file exists.
func Default(rootDir string) *Config {
	c := &Config{}
	c.applyDefaults()
	c.root = rootDir
	return c
}

// Load reads and validates .l10nsync.yaml from rootDir.
// A missing file yields the defaults.
func Load(rootDir string) (*Config, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(rootDir), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	c.applyDefaults()
	c.root = rootDir
	c.path = path

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.SourceDir == "" {
		c.SourceDir = DefaultSourceDir
	}
	if c.LanguagesDir == "" {
		c.LanguagesDir = DefaultLanguagesDir
	}
	if c.IndexFile == "" {
		c.IndexFile = DefaultIndexFile
	}
	if c.SkipSegment == "" {
		c.SkipSegment = DefaultSkipSegment
	}
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), DefaultExtensions...)
	}
	for i, ext := range c.Extensions {
		ext = strings.TrimSpace(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
	if c.EscapeNonASCII == nil {
		escape := true
		c.EscapeNonASCII = &escape
	}
}

func (c *Config) validate() error {
	for i, ext := range c.Extensions {
		if ext == "" {
			return fmt.Errorf("extension #%d is empty", i+1)
		}
	}
	if strings.ContainsAny(c.SkipSegment, `/\`) {
		return fmt.Errorf("skip_segment %q must be a single directory name", c.SkipSegment)
	}
	if strings.ContainsAny(c.IndexFile, `/\`) {
		return fmt.Errorf("index_file %q must be a file name, not a path", c.IndexFile)
	}
	if c.FallbackEncoding != "" {
		enc, err := ianaindex.IANA.Encoding(c.FallbackEncoding)
		if err != nil {
			return fmt.Errorf("unknown fallback_encoding %q: %w", c.FallbackEncoding, err)
		}
		if enc == nil {
			return fmt.Errorf("fallback_encoding %q is not supported", c.FallbackEncoding)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Resolved paths
// ---------------------------------------------------------------------------

// Path returns the config file path, or "" when defaults are in use.
func (c *Config) Path() string {
	return c.path
}

// AbsSourceDir returns the source directory joined with the project root.
func (c *Config) AbsSourceDir() string {
	return c.resolve(c.SourceDir)
}

// AbsLanguagesDir returns the languages directory joined with the project root.
func (c *Config) AbsLanguagesDir() string {
	return c.resolve(c.LanguagesDir)
}

// AbsIndexFile returns the index file path.
func (c *Config) AbsIndexFile() string {
	return filepath.Join(c.AbsLanguagesDir(), c.IndexFile)
}

// Escape reports whether non-ASCII characters are escaped on write.
func (c *Config) Escape() bool {
	return c.EscapeNonASCII == nil || *c.EscapeNonASCII
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.root, filepath.FromSlash(p))
}
