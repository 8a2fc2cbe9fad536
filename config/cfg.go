package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/rupor-github/gencfg"
	yaml "gopkg.in/yaml.v3"

	"cssvm/common"
	"cssvm/factory"
	"cssvm/keywords"
	"cssvm/resolve"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	EngineConfig struct {
		Medium                 string            `yaml:"medium" validate:"required"`
		MediumFontSize         float64           `yaml:"medium_font_size" validate:"gt=0"`
		PixelUnitToMillimeter  float64           `yaml:"pixel_unit_to_millimeter" validate:"gt=0"`
		InheritFallback        resolve.Fallback  `yaml:"inherit_fallback"`
		PresentationAttributes bool              `yaml:"presentation_attributes"`
		UserAgentStylesheet    string            `yaml:"user_agent_stylesheet" sanitize:"assure_file_access"`
		UserStylesheet         string            `yaml:"user_stylesheet" sanitize:"assure_file_access"`
		SystemColors           map[string]string `yaml:"system_colors"`
	}

	SnapshotConfig struct {
		Format         common.SnapshotFormat `yaml:"format"`
		PseudoElements []string              `yaml:"pseudo_elements" validate:"dive,oneof=before after ::before ::after :before :after"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Engine    EngineConfig   `yaml:"engine"`
		Snapshot  SnapshotConfig `yaml:"snapshot"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// checkConfig performs validations which cannot be expressed with tags.
func checkConfig(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}
	for name, hex := range cfg.Engine.SystemColors {
		if _, known := keywords.SystemColors.Lookup(name); !known {
			sl.ReportError(cfg.Engine.SystemColors, "SystemColors", "system_colors", "systemcolor", name)
			continue
		}
		if _, err := parseHexColor(hex); err != nil {
			sl.ReportError(cfg.Engine.SystemColors, "SystemColors", "system_colors", "rrggbb", name)
		}
	}
	if !cfg.Engine.InheritFallback.IsValid() {
		sl.ReportError(cfg.Engine.InheritFallback, "InheritFallback", "inherit_fallback", "fallback", "")
	}
	if !cfg.Snapshot.Format.IsValid() {
		sl.ReportError(cfg.Snapshot.Format, "Format", "format", "snapshotformat", "")
	}
}

func parseHexColor(s string) ([3]uint8, error) {
	var c [3]uint8
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("color %q is not in #rrggbb form", s)
	}
	for i := range c {
		n, err := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return c, fmt.Errorf("color %q is not in #rrggbb form: %w", s, err)
		}
		c[i] = uint8(n)
	}
	return c, nil
}

// FactoryOptions converts engine settings for the value factories.
func (conf *EngineConfig) FactoryOptions() factory.Options {
	var opts factory.Options
	if len(conf.SystemColors) == 0 {
		return opts
	}
	opts.SystemColors = make(factory.SystemColors, len(conf.SystemColors))
	for name, hex := range conf.SystemColors {
		// validated on load
		if c, err := parseHexColor(hex); err == nil {
			opts.SystemColors[strings.ToLower(name)] = c
		}
	}
	return opts
}

// ResolverOptions converts engine settings for the relative value resolvers.
func (conf *EngineConfig) ResolverOptions() resolve.Options {
	return resolve.Options{
		MediumFontSize:        conf.MediumFontSize,
		PixelUnitToMillimeter: conf.PixelUnitToMillimeter,
		InheritFallback:       conf.InheritFallback,
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkConfig)); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
