package domain

import (
	"fmt"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// weightTolerance is how far the weight sum may drift from 1.0 before the
// vector is rejected.
const weightTolerance = 0.01

var validate = validator.New()

// Weights is the named weight vector applied to the seven factors. Each
// weight is in [0,1] and the vector must sum to 1.0 within tolerance.
// Weights are validated at engine construction and never mutated during
// a scoring pass.
type Weights struct {
	Urgency    float64 `yaml:"urgency" validate:"gte=0,lte=1"`
	Importance float64 `yaml:"importance" validate:"gte=0,lte=1"`
	Effort     float64 `yaml:"effort" validate:"gte=0,lte=1"`
	Alignment  float64 `yaml:"alignment" validate:"gte=0,lte=1"`
	Momentum   float64 `yaml:"momentum" validate:"gte=0,lte=1"`
	Energy     float64 `yaml:"energy" validate:"gte=0,lte=1"`
	Context    float64 `yaml:"context" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the stock weight profile.
func DefaultWeights() Weights {
	return Weights{
		Urgency:    0.25,
		Importance: 0.20,
		Effort:     0.15,
		Alignment:  0.15,
		Momentum:   0.10,
		Energy:     0.10,
		Context:    0.05,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Urgency + w.Importance + w.Effort + w.Alignment + w.Momentum + w.Energy + w.Context
}

// Validate checks weight ranges and that the vector sums to 1.0 within
// tolerance. Returns a ConfigurationError on failure.
func (w Weights) Validate() error {
	if err := validate.Struct(w); err != nil {
		return &ConfigurationError{Reason: fmt.Sprintf("weight out of range: %v", err)}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return &ConfigurationError{
			Reason: fmt.Sprintf("weights must sum to 1.0 (±%.2f), got %.4f", weightTolerance, sum),
		}
	}
	return nil
}

// LoadWeights reads a weight profile from a YAML file. Missing factors
// default to zero, so profiles must be complete to pass validation.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, fmt.Errorf("failed to read weights file: %w", err)
	}

	var w Weights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return Weights{}, &ConfigurationError{Reason: fmt.Sprintf("invalid weights file %s: %v", path, err)}
	}

	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}
