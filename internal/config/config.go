// Package config contains configuration options for the dbval command-line
// tools, loaded from a JSON or YAML file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a serialization format a configuration file can be written in.
type Format int

const (
	NoFormat Format = iota
	JSON
	YAML
)

func (f Format) String() string {
	switch f {
	case NoFormat:
		return "NoFormat"
	case JSON:
		return "JSON"
	case YAML:
		return "YAML"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extensions returns the file extensions, without the leading dot, that
// indicate a file in format f.
func (f Format) Extensions() []string {
	switch f {
	case JSON:
		return []string{"json"}
	case YAML:
		return []string{"yaml", "yml"}
	default:
		return nil
	}
}

// Output formats accepted for Config.Output.
const (
	OutputTable = "table"
	OutputYAML  = "yaml"
)

// Config is the configuration of dbvalctl.
type Config struct {
	// Driver is the database/sql driver name. "sqlite" is modernc.org/sqlite
	// and "sqlite3" is mattn/go-sqlite3.
	Driver string

	// Database is the data source name passed to the driver, usually a file
	// path.
	Database string

	// LogFile, if set, receives a full trace log in addition to stderr.
	LogFile string

	// Output is how query results are printed; one of OutputTable or
	// OutputYAML.
	Output string

	// Format is the format the config was loaded from. It is NoFormat for a
	// Config that was not loaded from a file.
	Format Format
}

// Default returns the Config used when no file is given.
func Default() Config {
	return Config{
		Driver:   "sqlite",
		Database: ":memory:",
		Output:   OutputTable,
	}
}

// FillDefaults returns a copy of cfg with every unset member replaced by its
// default value.
func (cfg Config) FillDefaults() Config {
	def := Default()

	if cfg.Driver == "" {
		cfg.Driver = def.Driver
	}
	if cfg.Database == "" {
		cfg.Database = def.Database
	}
	if cfg.Output == "" {
		cfg.Output = def.Output
	}

	return cfg
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be
// used, call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	switch cfg.Driver {
	case "sqlite", "sqlite3":
	default:
		return fmt.Errorf("driver: must be one of 'sqlite' or 'sqlite3' but is %q", cfg.Driver)
	}
	if cfg.Database == "" {
		return fmt.Errorf("database: must not be empty")
	}
	switch cfg.Output {
	case OutputTable, OutputYAML:
	default:
		return fmt.Errorf("output: must be one of %q or %q but is %q", OutputTable, OutputYAML, cfg.Output)
	}
	return nil
}

type marshaledConfig struct {
	Driver   string `yaml:"driver" json:"driver"`
	Database string `yaml:"database" json:"database"`
	LogFile  string `yaml:"log_file,omitempty" json:"log_file,omitempty"`
	Output   string `yaml:"output" json:"output"`
}

func decode(f Format, data []byte) (Config, error) {
	var mc marshaledConfig
	var err error

	switch f {
	case JSON:
		err = json.Unmarshal(data, &mc)
	case YAML:
		err = yaml.Unmarshal(data, &mc)
	default:
		return Config{}, fmt.Errorf("cannot unmarshal data in format %q", f.String())
	}

	if err != nil {
		return Config{}, err
	}

	return Config{
		Driver:   mc.Driver,
		Database: mc.Database,
		LogFile:  mc.LogFile,
		Output:   mc.Output,
		Format:   f,
	}, nil
}

func encode(f Format, cfg Config) ([]byte, error) {
	mc := marshaledConfig{
		Driver:   cfg.Driver,
		Database: cfg.Database,
		LogFile:  cfg.LogFile,
		Output:   cfg.Output,
	}

	switch f {
	case JSON:
		return json.Marshal(mc)
	case YAML:
		return yaml.Marshal(mc)
	default:
		return nil, fmt.Errorf("cannot marshal data in format %q", f.String())
	}
}

// SupportedFormats returns a list of formats that the config module supports
// decoding. Includes all but NoFormat.
func SupportedFormats() []Format {
	return []Format{JSON, YAML}
}

// DetectFormat detects the format of a given configuration file and returns the
// Format that can decode it. Returns NoFormat if the format could not be
// detected.
func DetectFormat(file string) Format {
	ext := strings.ToLower(filepath.Ext(file))
	ext = strings.TrimPrefix(ext, ".")

	for _, f := range SupportedFormats() {
		for _, checkedExt := range f.Extensions() {
			if ext == checkedExt {
				return f
			}
		}
	}

	return NoFormat
}

// Dump dumps the configuration into the bytes of a formatted file. It uses the
// format cfg was loaded with, or YAML if it was not loaded from a file.
//
// This function will cause a panic if there is a problem marshaling the config
// data in its format.
func Dump(cfg Config) []byte {
	f := cfg.Format
	if f == NoFormat {
		f = YAML
	}
	b, err := encode(f, cfg)
	if err != nil {
		panic(fmt.Sprintf("format encoding failed: %v", err))
	}
	return b
}

// Load loads a configuration from a JSON or YAML file. The format of the file
// is determined by examining its extension; files ending in .json are parsed as
// JSON files, and files ending in .yaml or .yml are parsed as YAML files. Other
// extensions are not supported. The extension is not case-sensitive.
//
// Unset values in the file are filled with their defaults and the result is
// validated.
func Load(file string) (Config, error) {
	f := DetectFormat(file)
	if f == NoFormat {
		return Config{}, fmt.Errorf("%s: incompatible format; must be a .json, .yaml, or .yml file", file)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", file, err)
	}

	cfg, err := decode(f, data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", file, err)
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", file, err)
	}

	return cfg, nil
}
