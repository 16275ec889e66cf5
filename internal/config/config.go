// Package config aggregates every tunable threshold of the ingestion
// and analysis core, loaded from an optional file over tuned defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/app"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/analysis"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/profile"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/structure"
)

const envPrefix = "CSV_AGENT"

// Config is the aggregate configuration tree.
type Config struct {
	Detector   structure.DetectorConfig   `json:"detector" mapstructure:"detector"`
	Classifier structure.ClassifierConfig `json:"classifier" mapstructure:"classifier"`
	Profiler   profile.Config             `json:"profiler" mapstructure:"profiler"`
	Pipeline   app.Config                 `json:"pipeline" mapstructure:"pipeline"`
	Analysis   analysis.Config            `json:"analysis" mapstructure:"analysis"`
}

// Default returns the tuned defaults for every component.
func Default() Config {
	return Config{
		Detector:   structure.DefaultDetectorConfig(),
		Classifier: structure.DefaultClassifierConfig(),
		Profiler:   profile.DefaultConfig(),
		Pipeline:   app.DefaultConfig(),
		Analysis:   analysis.DefaultConfig(),
	}
}

// Load overlays an optional config file and CSV_AGENT_* environment
// variables onto the defaults. An empty path loads defaults plus
// environment only.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
