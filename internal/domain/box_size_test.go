package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxSizeSpec_Validate(t *testing.T) {
	valid := BoxSizeSpec{Name: "Small Box", Dimensions: Dimensions{Length: 12, Width: 10, Height: 8}, MaxWeight: 20}

	tests := []struct {
		name   string
		mutate func(s *BoxSizeSpec)
		field  string
	}{
		{"valid", func(s *BoxSizeSpec) {}, ""},
		{"missing name", func(s *BoxSizeSpec) { s.Name = " " }, "name"},
		{"zero length", func(s *BoxSizeSpec) { s.Dimensions.Length = 0 }, "dimensions"},
		{"negative height", func(s *BoxSizeSpec) { s.Dimensions.Height = -2 }, "dimensions"},
		{"zero max weight", func(s *BoxSizeSpec) { s.MaxWeight = 0 }, "maxWeight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid
			tt.mutate(&spec)
			err := spec.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestBoxSizeCatalog_AddDeleteList(t *testing.T) {
	c := NewBoxSizeCatalog()
	small, err := c.Add(BoxSizeSpec{Name: "Small Box", Dimensions: Dimensions{Length: 30.48, Width: 25.4, Height: 20.32}, MaxWeight: 9.07184, Units: Metric})
	require.NoError(t, err)
	large, err := c.Add(BoxSizeSpec{Name: "Large Box", Dimensions: Dimensions{Length: 24, Width: 18, Height: 18}, MaxWeight: 50})
	require.NoError(t, err)

	assert.InDelta(t, 12, small.Length, 1e-9)
	assert.InDelta(t, 20, small.MaxWeight, 1e-9)
	assert.Equal(t, []*BoxSize{small, large}, c.List())

	require.NoError(t, c.Delete(small.BoxSizeID))
	assert.Equal(t, []*BoxSize{large}, c.List())
	assert.ErrorIs(t, c.Delete(small.BoxSizeID), ErrBoxSizeNotFound)

	_, err = c.Add(BoxSizeSpec{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, c.List(), 1)
}

func TestBoxSizeCatalog_Suggest(t *testing.T) {
	c := NewBoxSizeCatalog()
	large, _ := c.Add(BoxSizeSpec{Name: "Large", Dimensions: Dimensions{Length: 24, Width: 18, Height: 18}, MaxWeight: 50})
	medium, _ := c.Add(BoxSizeSpec{Name: "Medium", Dimensions: Dimensions{Length: 18, Width: 14, Height: 12}, MaxWeight: 30})
	_, _ = c.Add(BoxSizeSpec{Name: "Flat", Dimensions: Dimensions{Length: 20, Width: 20, Height: 2}, MaxWeight: 5})

	tests := []struct {
		name string
		item PackingItem
		want *BoxSize
		err  error
	}{
		{"fits medium when rotated", PackingItem{UnitWeight: 10, Dimensions: Dimensions{Length: 12, Width: 17, Height: 13}}, medium, nil},
		{"too heavy for medium", PackingItem{UnitWeight: 40, Dimensions: Dimensions{Length: 10, Width: 10, Height: 10}}, large, nil},
		{"nothing fits", PackingItem{UnitWeight: 1, Dimensions: Dimensions{Length: 30, Width: 1, Height: 1}}, nil, ErrNoBoxFits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := tt.item
			got, err := c.Suggest(&item)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}
