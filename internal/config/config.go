// Package config loads the YAML configuration of an ingestion run and applies
// command-line overrides on top of it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/IgorBayerl/swift-report-ingest/internal/parser"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser/filtering"
	"github.com/IgorBayerl/swift-report-ingest/internal/utils"
)

// Default report patterns, relative to the base directory.
const (
	DefaultCoveragePattern  = "sonar-reports/coverage*.xml"
	DefaultOCLintPattern    = "sonar-reports/*oclint.xml"
	DefaultSwiftLintPattern = "sonar-reports/*swiftlint.txt"
	DefaultTailorPattern    = "sonar-reports/*tailor.txt"
)

// patternSeparators split a report setting into several glob patterns.
var patternSeparators = []rune{',', ';'}

type Config struct {
	BaseDir    string   `yaml:"base_dir"`
	Logger     Logger   `yaml:"logger"`
	Reports    Reports  `yaml:"reports"`
	Disabled   []string `yaml:"disabled"`
	Exclusions []string `yaml:"exclusions"`
	Output     Output   `yaml:"output"`
}

type Logger struct {
	Level      string `yaml:"level"`
	JSONFormat bool   `yaml:"json_format"`
}

// Reports holds one pattern setting per report kind. A setting may list
// several glob patterns separated by ',' or ';'.
type Reports struct {
	Coverage  string `yaml:"coverage"`
	OCLint    string `yaml:"oclint"`
	SwiftLint string `yaml:"swiftlint"`
	Tailor    string `yaml:"tailor"`
}

// Output names the files written after a run. Empty means not written.
type Output struct {
	Sarif    string `yaml:"sarif"`
	Coverage string `yaml:"coverage"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		BaseDir: ".",
		Logger:  Logger{Level: "INFO"},
		Reports: Reports{
			Coverage:  DefaultCoveragePattern,
			OCLint:    DefaultOCLintPattern,
			SwiftLint: DefaultSwiftLintPattern,
			Tailor:    DefaultTailorPattern,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if err := validateConfigPath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML from r over the defaults. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func validateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// applyDefaults restores defaults for settings a file explicitly blanked.
func (c *Config) applyDefaults() {
	d := Default()
	if c.BaseDir == "" {
		c.BaseDir = d.BaseDir
	}
	if c.Reports.Coverage == "" {
		c.Reports.Coverage = d.Reports.Coverage
	}
	if c.Reports.OCLint == "" {
		c.Reports.OCLint = d.Reports.OCLint
	}
	if c.Reports.SwiftLint == "" {
		c.Reports.SwiftLint = d.Reports.SwiftLint
	}
	if c.Reports.Tailor == "" {
		c.Reports.Tailor = d.Reports.Tailor
	}
}

// Patterns returns the glob patterns configured for kind.
func (c *Config) Patterns(kind parser.Kind) []string {
	var setting string
	switch kind {
	case parser.KindCoverage:
		setting = c.Reports.Coverage
	case parser.KindOCLint:
		setting = c.Reports.OCLint
	case parser.KindSwiftLint:
		setting = c.Reports.SwiftLint
	case parser.KindTailor:
		setting = c.Reports.Tailor
	}
	return utils.SplitThatEnsuresGlobsAreSafe(setting, patternSeparators)
}

// EnabledKinds returns the report kinds not listed in Disabled, in
// processing order. Disabled must have passed Validate.
func (c *Config) EnabledKinds() []parser.Kind {
	disabled, _ := parser.ParseKinds(c.Disabled)
	var kinds []parser.Kind
	for _, k := range parser.Kinds {
		skip := false
		for _, d := range disabled {
			if d == k {
				skip = true
				break
			}
		}
		if !skip {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Filter compiles the exclusions into a project file filter. Entries
// without a leading '+' or '-' are treated as exclusions.
func (c *Config) Filter() (*filtering.DefaultFilter, error) {
	filters := make([]string, 0, len(c.Exclusions))
	for _, e := range c.Exclusions {
		if e == "" {
			continue
		}
		if e[0] != '+' && e[0] != '-' {
			e = "-" + e
		}
		filters = append(filters, e)
	}
	return filtering.NewDefaultFilter(filters, true)
}
