package task

import (
	"errors"
	"strings"
)

// ErrInvalidEnergy indicates an unrecognized energy level name.
var ErrInvalidEnergy = errors.New("energy level must be one of: low, medium, high, peak")

// Energy represents the energy level a task demands. Levels are ordered
// so the distance between two levels is meaningful.
type Energy int

const (
	EnergyLow Energy = iota + 1
	EnergyMedium
	EnergyHigh
	EnergyPeak
)

func (e Energy) String() string {
	switch e {
	case EnergyLow:
		return "low"
	case EnergyMedium:
		return "medium"
	case EnergyHigh:
		return "high"
	case EnergyPeak:
		return "peak"
	default:
		return "unknown"
	}
}

// ParseEnergy converts a string to an Energy level.
func ParseEnergy(s string) (Energy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return EnergyLow, nil
	case "medium":
		return EnergyMedium, nil
	case "high":
		return EnergyHigh, nil
	case "peak":
		return EnergyPeak, nil
	default:
		return 0, ErrInvalidEnergy
	}
}

// EnergyFromScale maps a 1-10 self-reported energy rating onto the four
// levels: 1-3 low, 4-6 medium, 7-8 high, 9-10 peak.
func EnergyFromScale(rating int) (Energy, error) {
	switch {
	case rating >= 1 && rating <= 3:
		return EnergyLow, nil
	case rating >= 4 && rating <= 6:
		return EnergyMedium, nil
	case rating >= 7 && rating <= 8:
		return EnergyHigh, nil
	case rating >= 9 && rating <= 10:
		return EnergyPeak, nil
	default:
		return 0, errors.New("energy rating must be between 1 and 10")
	}
}

// Gap returns the absolute distance in levels between two energies.
func (e Energy) Gap(other Energy) int {
	d := int(e) - int(other)
	if d < 0 {
		d = -d
	}
	return d
}
