package application

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wms-platform/pallet-service/internal/domain"
	"github.com/wms-platform/pallet-service/pkg/errors"
)

// Manifest formats
const (
	ManifestFormatJSON = "json"
	ManifestFormatYAML = "yaml"
)

// BuildManifest projects the catalog and registry into a manifest. Pallets
// appear in registration order and their items in assignment order.
func BuildManifest(catalog *domain.ItemCatalog, registry *domain.PalletRegistry, us domain.UnitSystem, now time.Time) *ManifestDTO {
	summary := domain.Summarize(catalog, registry)
	m := &ManifestDTO{
		GeneratedAt:   now,
		Units:         ToUnitsDTO(us),
		Pallets:       make([]ManifestPalletDTO, 0, registry.Len()),
		Unallocated:   ToItemDTOs(catalog.Pending(), us),
		TotalItems:    catalog.Len(),
		PackedWeight:  us.WeightFromCanonical(summary.PackedWeight),
		PendingWeight: us.WeightFromCanonical(summary.PendingWeight),
	}

	for _, pallet := range registry.List("") {
		items := make([]*domain.PackingItem, 0, len(pallet.ItemIDs))
		for _, itemID := range pallet.ItemIDs {
			if item, err := catalog.Get(itemID); err == nil {
				items = append(items, item)
			}
		}
		m.Pallets = append(m.Pallets, ManifestPalletDTO{
			PalletDTO: *ToPalletDTO(pallet, us),
			Items:     ToItemDTOs(items, us),
		})
	}

	return m
}

// MarshalManifest renders the manifest as JSON or YAML and returns the content type
func MarshalManifest(m *ManifestDTO, format string) ([]byte, string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", ManifestFormatJSON:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode manifest: %w", err)
		}
		return data, "application/json; charset=utf-8", nil
	case ManifestFormatYAML, "yml":
		data, err := yaml.Marshal(m)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode manifest: %w", err)
		}
		return data, "application/yaml; charset=utf-8", nil
	default:
		return nil, "", errors.ErrValidationWithFields("unsupported manifest format", map[string]string{
			"format": "must be json or yaml",
		})
	}
}
