package domain

import (
	"fmt"
	"strings"
)

// LengthUnit is a unit of length accepted at the service boundary
type LengthUnit string

// WeightUnit is a unit of weight accepted at the service boundary
type WeightUnit string

const (
	LengthUnitInch       LengthUnit = "inch"
	LengthUnitCentimeter LengthUnit = "cm"

	WeightUnitPound    WeightUnit = "lb"
	WeightUnitKilogram WeightUnit = "kg"
)

// Conversion factors from the canonical units (inch, pound)
const (
	CentimetersPerInch = 2.54
	KilogramsPerPound  = 0.453592
)

// IsValid checks if the length unit is supported
func (u LengthUnit) IsValid() bool {
	return u == LengthUnitInch || u == LengthUnitCentimeter
}

// IsValid checks if the weight unit is supported
func (u WeightUnit) IsValid() bool {
	return u == WeightUnitPound || u == WeightUnitKilogram
}

var lengthAliases = map[string]LengthUnit{
	"in":          LengthUnitInch,
	"inch":        LengthUnitInch,
	"inches":      LengthUnitInch,
	"cm":          LengthUnitCentimeter,
	"centimeter":  LengthUnitCentimeter,
	"centimeters": LengthUnitCentimeter,
}

var weightAliases = map[string]WeightUnit{
	"lb":        WeightUnitPound,
	"lbs":       WeightUnitPound,
	"pound":     WeightUnitPound,
	"pounds":    WeightUnitPound,
	"kg":        WeightUnitKilogram,
	"kgs":       WeightUnitKilogram,
	"kilogram":  WeightUnitKilogram,
	"kilograms": WeightUnitKilogram,
}

// ParseLengthUnit resolves a user supplied unit name such as "inches" or "CM"
func ParseLengthUnit(s string) (LengthUnit, error) {
	if u, ok := lengthAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return u, nil
	}
	return "", NewValidationError("lengthUnit", fmt.Sprintf("unsupported length unit %q", s))
}

// ParseWeightUnit resolves a user supplied unit name such as "lbs" or "Kg"
func ParseWeightUnit(s string) (WeightUnit, error) {
	if u, ok := weightAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return u, nil
	}
	return "", NewValidationError("weightUnit", fmt.Sprintf("unsupported weight unit %q", s))
}

// ConvertLength converts a length between inches and centimeters.
// It is total: unknown units are treated as the canonical inch.
func ConvertLength(value float64, from, to LengthUnit) float64 {
	if from == to {
		return value
	}
	if to == LengthUnitCentimeter {
		return value * CentimetersPerInch
	}
	return value / CentimetersPerInch
}

// ConvertWeight converts a weight between pounds and kilograms.
// It is total: unknown units are treated as the canonical pound.
func ConvertWeight(value float64, from, to WeightUnit) float64 {
	if from == to {
		return value
	}
	if to == WeightUnitKilogram {
		return value * KilogramsPerPound
	}
	return value / KilogramsPerPound
}

// UnitSystem is the pair of units a caller reads and writes values in
type UnitSystem struct {
	Length LengthUnit `json:"length" yaml:"length"`
	Weight WeightUnit `json:"weight" yaml:"weight"`
}

// Canonical is the storage unit system
var Canonical = UnitSystem{Length: LengthUnitInch, Weight: WeightUnitPound}

// Metric is the centimeter/kilogram unit system
var Metric = UnitSystem{Length: LengthUnitCentimeter, Weight: WeightUnitKilogram}

// ParseUnitSystem parses a length/weight pair. Empty parts fall back to the defaults.
func ParseUnitSystem(length, weight string, defaults UnitSystem) (UnitSystem, error) {
	us := defaults
	if length != "" {
		l, err := ParseLengthUnit(length)
		if err != nil {
			return UnitSystem{}, err
		}
		us.Length = l
	}
	if weight != "" {
		w, err := ParseWeightUnit(weight)
		if err != nil {
			return UnitSystem{}, err
		}
		us.Weight = w
	}
	return us, nil
}

// LengthToCanonical converts a length in this system to inches
func (us UnitSystem) LengthToCanonical(v float64) float64 {
	return ConvertLength(v, us.Length, LengthUnitInch)
}

// WeightToCanonical converts a weight in this system to pounds
func (us UnitSystem) WeightToCanonical(v float64) float64 {
	return ConvertWeight(v, us.Weight, WeightUnitPound)
}

// LengthFromCanonical converts inches to this system's length unit
func (us UnitSystem) LengthFromCanonical(v float64) float64 {
	return ConvertLength(v, LengthUnitInch, us.Length)
}

// WeightFromCanonical converts pounds to this system's weight unit
func (us UnitSystem) WeightFromCanonical(v float64) float64 {
	return ConvertWeight(v, WeightUnitPound, us.Weight)
}

// DimensionsToCanonical converts dimensions expressed in this system to inches
func (us UnitSystem) DimensionsToCanonical(d Dimensions) Dimensions {
	return Dimensions{
		Length: us.LengthToCanonical(d.Length),
		Width:  us.LengthToCanonical(d.Width),
		Height: us.LengthToCanonical(d.Height),
	}
}

// DimensionsFromCanonical converts canonical dimensions into this system
func (us UnitSystem) DimensionsFromCanonical(d Dimensions) Dimensions {
	return Dimensions{
		Length: us.LengthFromCanonical(d.Length),
		Width:  us.LengthFromCanonical(d.Width),
		Height: us.LengthFromCanonical(d.Height),
	}
}
