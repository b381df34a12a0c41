package domain

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertLength(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		from  LengthUnit
		to    LengthUnit
		want  float64
	}{
		{"inch to cm", 10, LengthUnitInch, LengthUnitCentimeter, 25.4},
		{"cm to inch", 25.4, LengthUnitCentimeter, LengthUnitInch, 10},
		{"identity inch", 48, LengthUnitInch, LengthUnitInch, 48},
		{"identity cm", 12.5, LengthUnitCentimeter, LengthUnitCentimeter, 12.5},
		{"zero", 0, LengthUnitInch, LengthUnitCentimeter, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ConvertLength(tt.value, tt.from, tt.to), 1e-9)
		})
	}
}

func TestConvertWeight(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		from  WeightUnit
		to    WeightUnit
		want  float64
	}{
		{"lb to kg", 100, WeightUnitPound, WeightUnitKilogram, 45.3592},
		{"kg to lb", 0.453592, WeightUnitKilogram, WeightUnitPound, 1},
		{"identity lb", 2.5, WeightUnitPound, WeightUnitPound, 2.5},
		{"identity kg", 7, WeightUnitKilogram, WeightUnitKilogram, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ConvertWeight(tt.value, tt.from, tt.to), 1e-9)
		})
	}
}

func TestConversion_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := []float64{0, 1e-6, 1, 2.54, 48, 1000, 123456.789}
	for i := 0; i < 200; i++ {
		values = append(values, rng.Float64()*1e6)
	}

	for _, v := range values {
		back := ConvertLength(ConvertLength(v, LengthUnitInch, LengthUnitCentimeter), LengthUnitCentimeter, LengthUnitInch)
		assertRelative(t, v, back)
		back = ConvertLength(ConvertLength(v, LengthUnitCentimeter, LengthUnitInch), LengthUnitInch, LengthUnitCentimeter)
		assertRelative(t, v, back)

		back = ConvertWeight(ConvertWeight(v, WeightUnitPound, WeightUnitKilogram), WeightUnitKilogram, WeightUnitPound)
		assertRelative(t, v, back)
		back = ConvertWeight(ConvertWeight(v, WeightUnitKilogram, WeightUnitPound), WeightUnitPound, WeightUnitKilogram)
		assertRelative(t, v, back)
	}
}

func assertRelative(t *testing.T, want, got float64) {
	t.Helper()
	if want == 0 {
		assert.Equal(t, 0.0, got)
		return
	}
	assert.LessOrEqual(t, math.Abs(got-want)/math.Abs(want), 1e-9, "want %v got %v", want, got)
}

func TestParseUnits(t *testing.T) {
	lengthCases := map[string]LengthUnit{
		"in": LengthUnitInch, "Inches": LengthUnitInch, " inch ": LengthUnitInch,
		"CM": LengthUnitCentimeter, "centimeters": LengthUnitCentimeter,
	}
	for in, want := range lengthCases {
		got, err := ParseLengthUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	weightCases := map[string]WeightUnit{
		"lbs": WeightUnitPound, "Pound": WeightUnitPound,
		"kg": WeightUnitKilogram, "KILOGRAMS": WeightUnitKilogram,
	}
	for in, want := range weightCases {
		got, err := ParseWeightUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLengthUnit("furlong")
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = ParseWeightUnit("stone")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestParseUnitSystem_Defaults(t *testing.T) {
	us, err := ParseUnitSystem("", "kg", Canonical)
	require.NoError(t, err)
	assert.Equal(t, UnitSystem{Length: LengthUnitInch, Weight: WeightUnitKilogram}, us)

	us, err = ParseUnitSystem("cm", "", Canonical)
	require.NoError(t, err)
	assert.Equal(t, UnitSystem{Length: LengthUnitCentimeter, Weight: WeightUnitPound}, us)

	_, err = ParseUnitSystem("yards", "", Canonical)
	assert.Error(t, err)
}

func TestUnitSystem_Dimensions(t *testing.T) {
	d := Metric.DimensionsToCanonical(Dimensions{Length: 25.4, Width: 50.8, Height: 2.54})
	assert.InDelta(t, 10, d.Length, 1e-9)
	assert.InDelta(t, 20, d.Width, 1e-9)
	assert.InDelta(t, 1, d.Height, 1e-9)

	back := Metric.DimensionsFromCanonical(d)
	assert.InDelta(t, 25.4, back.Length, 1e-9)
	assert.InDelta(t, 2.54, back.Height, 1e-9)
}
