// Package config defines the data structures related to configuration and
// includes functions for loading, validating and watching the config.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/billet-recovery/internal/recovery"
	"github.com/iwvelando/billet-recovery/pkg/constants"
	"github.com/iwvelando/billet-recovery/pkg/validation"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for billet-recovery.
type Configuration struct {
	Logging LoggingConfig              `yaml:"logging,omitempty" mapstructure:"logging"`
	Output  OutputConfig               `yaml:"output,omitempty" mapstructure:"output"`
	Process recovery.ProcessParameters `yaml:"process,omitempty" mapstructure:"process"`
	Audit   AuditConfig                `yaml:"audit,omitempty" mapstructure:"audit"`
	Server  ServerConfig               `yaml:"server,omitempty" mapstructure:"server"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// AuditConfig controls the append-only CSV log of optimization runs.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled,omitempty" mapstructure:"enabled"`
	Path    string `yaml:"path,omitempty" mapstructure:"path"`
}

// ServerConfig defines runtime parameters for the HTTP server.
type ServerConfig struct {
	Address       string `yaml:"address,omitempty" mapstructure:"address"`
	MaxUploadSize string `yaml:"maxUploadSize,omitempty" mapstructure:"maxUploadSize"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("process.cutLength", 0.0)
	v.SetDefault("process.numHoles", 1)
	v.SetDefault("process.kgPerMeter", 0.0)
	v.SetDefault("process.causticEtching", false)
	v.SetDefault("process.buttWeight", constants.DefaultButtWeight)
	v.SetDefault("audit.enabled", false)
	v.SetDefault("audit.path", constants.DefaultAuditFile)
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxUploadSize", fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes))
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A missing file is only tolerated for the default
// config path, in which case defaults and environment overrides apply.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if !(configPath == constants.DefaultConfigFile && errors.Is(err, fs.ErrNotExist)) {
			return nil, eris.Wrapf(err, "error reading config file %s", configPath)
		}
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "error reading config data")
	}

	v := newViper()
	if len(bytes.TrimSpace(data)) > 0 {
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, eris.Wrap(err, "error reading config data")
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, eris.Wrap(err, "unable to decode into struct")
	}
	configuration.Normalize()
	return &configuration, nil
}

// Normalize trims and lower-cases enumerated values and fills empty ones.
func (c *Configuration) Normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	if c.Audit.Enabled && strings.TrimSpace(c.Audit.Path) == "" {
		c.Audit.Path = constants.DefaultAuditFile
	}
	if strings.TrimSpace(c.Server.Address) == "" {
		c.Server.Address = constants.DefaultServerAddress
	}
}

// Validate returns an error for settings that cannot be used. Process
// parameters are not checked here: they may be supplied later on the command
// line or per request, and the optimizer validates them itself.
func (c *Configuration) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if _, err := validation.ParseSize(c.Server.MaxUploadSize); err != nil {
		return err
	}
	return nil
}

// ValidateConfiguration returns non-fatal warnings about the configuration.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	p := c.Process
	if p.CutLength > constants.MaxExtrusionLength {
		warnings = append(warnings, fmt.Sprintf("Cut length %.3f m is longer than the %.0f m extrusion limit; no piece can be cut",
			p.CutLength, constants.MaxExtrusionLength))
	}
	if p.ButtWeight >= constants.CandidateLengths[len(constants.CandidateLengths)-1]*constants.ConversionFactor {
		warnings = append(warnings, fmt.Sprintf("Butt weight %.1f kg is at least the weight of the shortest billet", p.ButtWeight))
	}
	if c.Audit.Enabled {
		if dir := filepath.Dir(c.Audit.Path); dir != "." {
			if _, err := os.Stat(dir); err != nil {
				warnings = append(warnings, fmt.Sprintf("Audit directory %s does not exist yet and will be created", dir))
			}
		}
	}
	return warnings
}

