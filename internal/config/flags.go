package config

import (
	"github.com/spf13/pflag"
)

// Overrides holds command-line values that replace file settings. Only flags
// the user actually set are applied.
type Overrides struct {
	flags *pflag.FlagSet

	baseDir    string
	logLevel   string
	coverage   string
	oclint     string
	swiftlint  string
	tailor     string
	disabled   []string
	exclusions []string
	sarifOut   string
	coverOut   string
}

// BindFlags registers the override flags on fs.
func BindFlags(fs *pflag.FlagSet) *Overrides {
	o := &Overrides{flags: fs}
	fs.StringVar(&o.baseDir, "base-dir", "", "project base directory (default from config, else the working directory)")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: TRACE, DEBUG, INFO, WARN, ERROR or OFF")
	fs.StringVar(&o.coverage, "coverage-report", "", "glob pattern(s) of Cobertura coverage reports")
	fs.StringVar(&o.oclint, "oclint-report", "", "glob pattern(s) of OCLint XML reports")
	fs.StringVar(&o.swiftlint, "swiftlint-report", "", "glob pattern(s) of SwiftLint text reports")
	fs.StringVar(&o.tailor, "tailor-report", "", "glob pattern(s) of Tailor text reports")
	fs.StringSliceVar(&o.disabled, "disable", nil, "report kinds to skip (coverage, oclint, swiftlint, tailor)")
	fs.StringSliceVar(&o.exclusions, "exclude", nil, "project file filters, e.g. -Pods/*")
	fs.StringVar(&o.sarifOut, "sarif-output", "", "write findings as SARIF to this file")
	fs.StringVar(&o.coverOut, "coverage-output", "", "write generic coverage XML to this file")
	return o
}

// Apply copies every flag that was set on the command line into cfg.
func (o *Overrides) Apply(cfg *Config) {
	set := func(name string, dst *string, v string) {
		if o.flags.Changed(name) {
			*dst = v
		}
	}
	set("base-dir", &cfg.BaseDir, o.baseDir)
	set("log-level", &cfg.Logger.Level, o.logLevel)
	set("coverage-report", &cfg.Reports.Coverage, o.coverage)
	set("oclint-report", &cfg.Reports.OCLint, o.oclint)
	set("swiftlint-report", &cfg.Reports.SwiftLint, o.swiftlint)
	set("tailor-report", &cfg.Reports.Tailor, o.tailor)
	set("sarif-output", &cfg.Output.Sarif, o.sarifOut)
	set("coverage-output", &cfg.Output.Coverage, o.coverOut)
	if o.flags.Changed("disable") {
		cfg.Disabled = o.disabled
	}
	if o.flags.Changed("exclude") {
		cfg.Exclusions = append(cfg.Exclusions, o.exclusions...)
	}
	cfg.applyDefaults()
}
