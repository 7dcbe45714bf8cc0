package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/toyz/beangen/internal/errors"
	"github.com/toyz/beangen/internal/generator"
	"github.com/toyz/beangen/internal/utils"
)

// ConfigFileName is the config file looked up in the working directory
const ConfigFileName = "beangen.yaml"

// EnvPrefix prefixes environment overrides, e.g. BEANGEN_SUFFIX
const EnvPrefix = "BEANGEN_"

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for annotated Go files
	Directories []string `koanf:"directories"`

	// ModuleName is the custom module name for import paths
	// If empty, will be determined from go.mod file
	ModuleName string `koanf:"module"`

	// Output is the name of the file generated in each package
	Output string `koanf:"output"`

	// Suffix is appended to entity names to form the generated struct names
	Suffix string `koanf:"suffix"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `koanf:"verbose"`

	// Quiet limits output to errors
	Quiet bool `koanf:"quiet"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		Directories: []string{"./..."},
		Output:      utils.DefaultGeneratedFile,
		Suffix:      generator.DefaultSuffix,
	}
}

// LoadConfig loads configuration from defaults, the config file, environment
// variables and flags, later sources taking precedence. An empty cfgFile
// looks for beangen.yaml in the working directory.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := k.Load(confmap.Provider(map[string]any{
		"directories": defaults.Directories,
		"output":      defaults.Output,
		"suffix":      defaults.Suffix,
		"verbose":     false,
		"quiet":       false,
	}, "."), nil); err != nil {
		return nil, errors.WrapConfigurationError("defaults", "load", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(ConfigFileName); err == nil {
			cfgFile = ConfigFileName
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, errors.WrapConfigurationError(cfgFile, "read", err).
				WithSuggestion("Check the YAML syntax of " + filepath.Base(cfgFile))
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, errors.WrapConfigurationError("environment", "load", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.WrapConfigurationError("flags", "load", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.WrapConfigurationError("beangen", "decode", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the naming options
func (c *Config) Validate() error {
	chains := []struct {
		value string
		chain *utils.ValidatorChain[string]
	}{
		{c.Output, utils.NewValidatorChain(
			utils.NotEmpty("output"),
			utils.HasSuffix("output", ".go"),
			utils.IsFileName("output"),
			utils.Custom("output", "must not be a test file", func(s string) bool {
				return !strings.HasSuffix(s, "_test.go")
			}),
		)},
		{c.Suffix, utils.NewValidatorChain(
			utils.NotEmpty("suffix"),
			utils.IsValidGoIdentifier("suffix"),
		)},
	}

	for _, v := range chains {
		if err := v.chain.Validate(v.value); err != nil {
			return errors.Wrap(errors.ConfigurationErrorCode, err.Error(), err).
				WithSuggestion(fmt.Sprintf("Set a valid value in %s, with a flag or a %s variable", ConfigFileName, EnvPrefix+"*"))
		}
	}
	if c.Verbose && c.Quiet {
		return errors.New(errors.ConfigurationErrorCode, "verbose and quiet are mutually exclusive")
	}
	return nil
}

// Level maps the verbosity options onto a diagnostic level
func (c *Config) Level() utils.DiagnosticLevel {
	switch {
	case c.Quiet:
		return utils.DiagnosticError
	case c.Verbose:
		return utils.DiagnosticVerbose
	default:
		return utils.DiagnosticInfo
	}
}

// GeneratorOptions returns the code generator options of the config
func (c *Config) GeneratorOptions() generator.Options {
	return generator.Options{OutputFile: c.Output, Suffix: c.Suffix}
}
