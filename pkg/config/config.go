// Package config loads reboot settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the CLI reads. Flags override file values.
type Config struct {
	LogLevel      string        `yaml:"log_level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format        string        `yaml:"format" validate:"oneof=auto text script"`
	Kernel        string        `yaml:"kernel" validate:"oneof=sdfx manifold"`
	MeshCells     int           `yaml:"mesh_cells" validate:"gte=8,lte=1024"`
	ScriptTimeout time.Duration `yaml:"script_timeout" validate:"gt=0"`
	ProgressEvery int           `yaml:"progress_every" validate:"gte=0"`
	InitRadius    int64         `yaml:"init_radius" validate:"gte=0,lte=200"`
	MetricsFile   string        `yaml:"metrics_file"`
}

var validate = validator.New()

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:      "info",
		Format:        "auto",
		Kernel:        "sdfx",
		MeshCells:     64,
		ScriptTimeout: 5 * time.Second,
		ProgressEvery: 100,
		InitRadius:    50,
	}
}

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads path over Default and validates the result. An empty path
// returns the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode unmarshals data over cfg and validates it.
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse the config: %w", err)
	}
	return cfg.Validate()
}

// Encode writes cfg to w as YAML.
func Encode(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode the config: %w", err)
	}
	return enc.Close()
}

// Write saves cfg as YAML, e.g. to bootstrap a config file.
func Write(path string, cfg Config) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(f, cfg)
}
