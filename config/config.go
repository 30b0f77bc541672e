package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/lmercat/socsim/core/factory"
)

// Config is the full simulator configuration: battery and solver settings,
// the device component profile, the usage scenario, the sensitivity matrix
// and the result sinks.
type Config struct {
	Simulation  SimulationConfig       `json:"simulation"`
	Components  ComponentsConfig       `json:"components"`
	Schedule    ScheduleConfig         `json:"schedule"`
	Sensitivity SensitivityConfig      `json:"sensitivity"`
	Sinks       []factory.ModuleConfig `json:"sinks"`
	Logging     LoggingConfig          `json:"logging"`
}

// Load reads the configuration file, applies SOCSIM_-prefixed environment
// overrides, fills defaults and validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("SOCSIM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "socsim_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Simulation.SetDefaults()
	cfg.Components.SetDefaults()
	cfg.Sensitivity.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Simulation.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Schedule.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Sensitivity.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
