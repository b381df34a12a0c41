// Package seed loads the startup fixture of the pallet service from YAML.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wms-platform/pallet-service/internal/application"
	"github.com/wms-platform/pallet-service/pkg/logging"
)

// Document is the seed file layout. Values are written in Units, falling
// back to the service display units when omitted.
type Document struct {
	Units    application.UnitsInput `yaml:"units"`
	Defaults Defaults               `yaml:"defaults"`
	Pallets  []Pallet               `yaml:"pallets"`
	BoxSizes []BoxSize              `yaml:"boxSizes"`
	Items    []Item                 `yaml:"items"`
}

// Defaults are the limits given to pallets registered without their own
type Defaults struct {
	MaxWeight float64 `yaml:"maxWeight"`
	MaxHeight float64 `yaml:"maxHeight"`
}

type Pallet struct {
	Name      string  `yaml:"name"`
	MaxWeight float64 `yaml:"maxWeight"`
	MaxHeight float64 `yaml:"maxHeight"`
}

type BoxSize struct {
	Name      string  `yaml:"name"`
	Length    float64 `yaml:"length"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	MaxWeight float64 `yaml:"maxWeight"`
}

type Item struct {
	Name       string  `yaml:"name"`
	SKU        string  `yaml:"sku"`
	Category   string  `yaml:"category"`
	Quantity   int     `yaml:"quantity"`
	UnitWeight float64 `yaml:"unitWeight"`
	Length     float64 `yaml:"length"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Priority   string  `yaml:"priority"`
}

// Target is the part of the application service a seed is applied to
type Target interface {
	UpdateSettings(ctx context.Context, cmd application.UpdateSettingsCommand) (*application.SettingsDTO, error)
	AddPallet(ctx context.Context, cmd application.AddPalletCommand) (*application.PalletDTO, error)
	AddBoxSize(ctx context.Context, cmd application.AddBoxSizeCommand) (*application.BoxSizeDTO, error)
	AddItem(ctx context.Context, cmd application.AddItemCommand) (*application.ItemDTO, error)
}

// Load reads and parses a seed file
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a seed document. Unknown keys are rejected.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &doc, nil
}

// Apply writes the document into the service, stopping at the first
// rejected entry. Settings go first so capacities read in the seed units.
func Apply(ctx context.Context, target Target, doc *Document, logger *logging.Logger) error {
	if doc.Units.Length != "" || doc.Units.Weight != "" || doc.Defaults.MaxWeight > 0 || doc.Defaults.MaxHeight > 0 {
		if _, err := target.UpdateSettings(ctx, application.UpdateSettingsCommand{
			Units:            doc.Units,
			DefaultMaxWeight: doc.Defaults.MaxWeight,
			DefaultMaxHeight: doc.Defaults.MaxHeight,
		}); err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
	}

	for _, p := range doc.Pallets {
		if _, err := target.AddPallet(ctx, application.AddPalletCommand{
			Name:      p.Name,
			MaxWeight: p.MaxWeight,
			MaxHeight: p.MaxHeight,
			Units:     doc.Units,
		}); err != nil {
			return fmt.Errorf("seed pallet %q: %w", p.Name, err)
		}
	}

	for _, b := range doc.BoxSizes {
		if _, err := target.AddBoxSize(ctx, application.AddBoxSizeCommand{
			Name:       b.Name,
			Dimensions: application.DimensionsInput{Length: b.Length, Width: b.Width, Height: b.Height},
			MaxWeight:  b.MaxWeight,
			Units:      doc.Units,
		}); err != nil {
			return fmt.Errorf("seed box size %q: %w", b.Name, err)
		}
	}

	for _, i := range doc.Items {
		if _, err := target.AddItem(ctx, application.AddItemCommand{
			Name:       i.Name,
			SKU:        i.SKU,
			Category:   i.Category,
			Quantity:   i.Quantity,
			UnitWeight: i.UnitWeight,
			Dimensions: application.DimensionsInput{Length: i.Length, Width: i.Width, Height: i.Height},
			Priority:   i.Priority,
			Units:      doc.Units,
		}); err != nil {
			return fmt.Errorf("seed item %q: %w", i.SKU, err)
		}
	}

	logger.Info("Seed applied",
		"pallets", len(doc.Pallets),
		"boxSizes", len(doc.BoxSizes),
		"items", len(doc.Items),
	)
	return nil
}
