package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// LevelEnvVar overrides the configured log level when set.
const LevelEnvVar = "REPORTINGEST_LOG_LEVEL"

// VerbosityLevel defines the logging verbosity.
type VerbosityLevel int

const (
	Verbose VerbosityLevel = iota
	Info
	Warning
	Error
	Off
)

var verbosityNames = map[VerbosityLevel]string{
	Verbose: "Verbose",
	Info:    "Info",
	Warning: "Warning",
	Error:   "Error",
	Off:     "Off",
}

func (v VerbosityLevel) String() string {
	if name, ok := verbosityNames[v]; ok {
		return name
	}
	return fmt.Sprintf("VerbosityLevel(%d)", int(v))
}

// ParseVerbosity converts a case-insensitive verbosity name into a VerbosityLevel.
func ParseVerbosity(s string) (VerbosityLevel, error) {
	for level, name := range verbosityNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return level, nil
		}
	}
	return Info, fmt.Errorf("invalid verbosity %q (expected Verbose, Info, Warning, Error or Off)", s)
}

// HclogLevel maps the verbosity onto the logger's level scale.
func (v VerbosityLevel) HclogLevel() hclog.Level {
	switch v {
	case Verbose:
		return hclog.Debug
	case Warning:
		return hclog.Warn
	case Error:
		return hclog.Error
	case Off:
		return hclog.Off
	default:
		return hclog.Info
	}
}

// Options controls NewLogger.
type Options struct {
	Name string
	// Level is the configured level name (TRACE, DEBUG, INFO, WARN, ERROR, OFF).
	Level      string
	JSONFormat bool
	// Verbosity, when set, takes precedence over the environment and Level.
	Verbosity *VerbosityLevel
	// Output defaults to os.Stderr.
	Output io.Writer
}

// NewLogger creates the root logger. The level comes from the verbosity flag,
// then the REPORTINGEST_LOG_LEVEL environment variable, then the configured
// level, and defaults to INFO.
func NewLogger(opts Options) hclog.Logger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:        opts.Name,
		DisableTime: true,
		JSONFormat:  opts.JSONFormat,
		Output:      output,
		Level:       determineLogLevel(opts),
	})
}

func determineLogLevel(opts Options) hclog.Level {
	if opts.Verbosity != nil {
		return opts.Verbosity.HclogLevel()
	}
	if env := os.Getenv(LevelEnvVar); env != "" {
		return parseLogLevel(env)
	}
	return parseLogLevel(opts.Level)
}

// parseLogLevel converts a string level to hclog.Level. Unknown or empty
// values mean INFO.
func parseLogLevel(levelStr string) hclog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "WARN", "WARNING":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	case "OFF":
		return hclog.Off
	default:
		return hclog.Info
	}
}

// ValidLevel reports whether s is empty or a level name NewLogger understands.
func ValidLevel(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "TRACE", "DEBUG", "INFO", "WARN", "WARNING", "ERROR", "OFF":
		return true
	}
	return false
}
