package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"fleetstats/internal/core"
	"fleetstats/internal/stats"
)

// EngineOptions is the YAML shape of the engine-options file. Every field is
// optional; unset fields keep the env-derived value. The interval thresholds
// are heuristics and deliberately operator-tunable.
type EngineOptions struct {
	Unit                  string  `yaml:"unit" validate:"omitempty,oneof=L/100km km/L G/100mi km/G mi/L"`
	BaseCurrency          string  `yaml:"baseCurrency" validate:"omitempty,alpha,len=3"`
	MaxIntervalDistanceKm float64 `yaml:"maxIntervalDistanceKm" validate:"omitempty,gt=0"`
	MaxIntervalGapDays    float64 `yaml:"maxIntervalGapDays" validate:"omitempty,gt=0"`
}

var validate = validator.New()

// LoadOptionsFile reads and validates an engine-options YAML file.
func LoadOptionsFile(path string) (*EngineOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options file: %w", err)
	}

	var opts EngineOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parse options file: %w", err)
	}
	if err := validate.Struct(&opts); err != nil {
		return nil, fmt.Errorf("invalid options file %s: %w", path, err)
	}
	return &opts, nil
}

func (o *EngineOptions) apply(base stats.Options) stats.Options {
	if o.Unit != "" {
		base.Unit = core.ConsumptionUnit(o.Unit)
	}
	if o.BaseCurrency != "" {
		base.BaseCurrency = o.BaseCurrency
	}
	if o.MaxIntervalDistanceKm > 0 {
		base.MaxIntervalDistanceKm = o.MaxIntervalDistanceKm
	}
	if o.MaxIntervalGapDays > 0 {
		base.MaxIntervalGapDays = o.MaxIntervalGapDays
	}
	return base
}
