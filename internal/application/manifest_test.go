package application

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wms-platform/pallet-service/internal/domain"
	"github.com/wms-platform/pallet-service/pkg/errors"
)

func buildTestManifest(t *testing.T, us domain.UnitSystem) *ManifestDTO {
	t.Helper()
	catalog := domain.NewItemCatalog()
	registry := domain.NewPalletRegistry(domain.Capacity{Weight: 1000, Height: 48})

	_, err := registry.Add(domain.PalletSpec{Name: "dock-1"})
	require.NoError(t, err)
	_, err = catalog.Add(domain.ItemSpec{Name: "crate", SKU: "CR-1", Category: "tools", Quantity: 4, UnitWeight: 25, Dimensions: domain.Dimensions{Length: 20, Width: 20, Height: 10}})
	require.NoError(t, err)
	_, err = catalog.Add(domain.ItemSpec{Name: "engine", SKU: "EN-1", Category: "parts", Quantity: 1, UnitWeight: 1500, Dimensions: domain.Dimensions{Length: 40, Width: 30, Height: 30}})
	require.NoError(t, err)

	domain.NewAllocationEngine().Run(catalog, registry)
	return BuildManifest(catalog, registry, us, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
}

func TestBuildManifest(t *testing.T) {
	m := buildTestManifest(t, domain.Canonical)

	assert.Equal(t, 2, m.TotalItems)
	assert.InDelta(t, 100.0, m.PackedWeight, 1e-9)
	assert.InDelta(t, 1500.0, m.PendingWeight, 1e-9)
	require.Len(t, m.Pallets, 1)
	assert.Equal(t, "dock-1", m.Pallets[0].Name)
	require.Len(t, m.Pallets[0].Items, 1)
	assert.Equal(t, "crate", m.Pallets[0].Items[0].Name)
	require.Len(t, m.Unallocated, 1)
	assert.Equal(t, "engine", m.Unallocated[0].Name)
}

func TestBuildManifest_MetricUnits(t *testing.T) {
	m := buildTestManifest(t, domain.Metric)

	assert.Equal(t, UnitsDTO{Length: "cm", Weight: "kg"}, m.Units)
	assert.InDelta(t, 100*domain.KilogramsPerPound, m.PackedWeight, 1e-9)
	assert.InDelta(t, 10*domain.CentimetersPerInch, m.Pallets[0].CurrentHeight, 1e-9)
	assert.InDelta(t, 1000*domain.KilogramsPerPound, m.Pallets[0].MaxWeight, 1e-9)
}

func TestMarshalManifest(t *testing.T) {
	m := buildTestManifest(t, domain.Canonical)

	tests := []struct {
		name        string
		format      string
		contentType string
		decode      func([]byte, interface{}) error
	}{
		{"default is json", "", "application/json; charset=utf-8", json.Unmarshal},
		{"json", "JSON", "application/json; charset=utf-8", json.Unmarshal},
		{"yaml", "yaml", "application/yaml; charset=utf-8", yaml.Unmarshal},
		{"yml alias", "yml", "application/yaml; charset=utf-8", yaml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, contentType, err := MarshalManifest(m, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.contentType, contentType)

			var decoded map[string]interface{}
			require.NoError(t, tt.decode(data, &decoded))
			pallets, ok := decoded["pallets"].([]interface{})
			require.True(t, ok)
			require.Len(t, pallets, 1)
			pallet := pallets[0].(map[string]interface{})
			assert.Equal(t, "dock-1", pallet["name"])
			assert.Contains(t, pallet, "items")
		})
	}
}

func TestMarshalManifest_UnsupportedFormat(t *testing.T) {
	_, _, err := MarshalManifest(&ManifestDTO{}, "csv")
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeValidationError, appErr.Code)
	assert.Contains(t, appErr.Details, "format")
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"validation", domain.NewValidationError("name", "is required"), errors.CodeValidationError, 400},
		{"illegal transition", &domain.IllegalTransitionError{From: domain.ItemStatusPending, To: domain.ItemStatusShipped}, errors.CodeIllegalTransition, 409},
		{"item not found", domain.ErrItemNotFound, errors.CodeNotFound, 404},
		{"pallet not found", domain.ErrPalletNotFound, errors.CodeNotFound, 404},
		{"no box fits", domain.ErrNoBoxFits, errors.CodeNotFound, 404},
		{"pallet not empty", domain.ErrPalletNotEmpty, errors.CodeConflict, 409},
		{"pallet shipped", domain.ErrPalletShipped, errors.CodeConflict, 409},
		{"unknown", assert.AnError, errors.CodeInternalError, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := mapDomainError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.HTTPStatus)
		})
	}

	assert.Nil(t, mapDomainError(nil))
}
