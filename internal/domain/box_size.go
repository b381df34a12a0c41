package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BoxSize is a reference carton used for packaging estimates.
// It plays no part in pallet allocation.
type BoxSize struct {
	BoxSizeID string    `bson:"boxSizeId"`
	Name      string    `bson:"name"`
	Length    float64   `bson:"length"`    // inches
	Width     float64   `bson:"width"`     // inches
	Height    float64   `bson:"height"`    // inches
	MaxWeight float64   `bson:"maxWeight"` // pounds
	Sequence  int64     `bson:"sequence"`
	CreatedAt time.Time `bson:"createdAt"`
}

// Dimensions returns the box's inner dimensions
func (b *BoxSize) Dimensions() Dimensions {
	return Dimensions{Length: b.Length, Width: b.Width, Height: b.Height}
}

// Holds reports whether one unit of the item fits in the box in any orientation
func (b *BoxSize) Holds(item *PackingItem) bool {
	if item.UnitWeight > b.MaxWeight {
		return false
	}
	box := b.Dimensions().sorted()
	it := item.Dimensions.sorted()
	for i := range box {
		if it[i] > box[i] {
			return false
		}
	}
	return true
}

// BoxSizeSpec describes a box size to add
type BoxSizeSpec struct {
	Name       string
	Dimensions Dimensions
	MaxWeight  float64
	Units      UnitSystem
}

// Validate checks the spec
func (s BoxSizeSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if !positive(s.Dimensions.Length) || !positive(s.Dimensions.Width) || !positive(s.Dimensions.Height) {
		return NewValidationError("dimensions", "must be positive numbers")
	}
	if !positive(s.MaxWeight) {
		return NewValidationError("maxWeight", "must be positive")
	}
	return nil
}

// BoxSizeCatalog is the reference table of box sizes
type BoxSizeCatalog struct {
	boxes []*BoxSize
	seq   int64
}

// NewBoxSizeCatalog creates an empty box size catalog
func NewBoxSizeCatalog() *BoxSizeCatalog {
	return &BoxSizeCatalog{boxes: make([]*BoxSize, 0)}
}

// Add validates and appends a box size
func (c *BoxSizeCatalog) Add(spec BoxSizeSpec) (*BoxSize, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	units := spec.Units.withDefaults()
	dims := units.DimensionsToCanonical(spec.Dimensions)

	c.seq++
	box := &BoxSize{
		BoxSizeID: "BOX-" + uuid.New().String(),
		Name:      strings.TrimSpace(spec.Name),
		Length:    dims.Length,
		Width:     dims.Width,
		Height:    dims.Height,
		MaxWeight: units.WeightToCanonical(spec.MaxWeight),
		Sequence:  c.seq,
		CreatedAt: time.Now(),
	}
	c.boxes = append(c.boxes, box)
	return box, nil
}

// Delete removes a box size
func (c *BoxSizeCatalog) Delete(id string) error {
	for idx, box := range c.boxes {
		if box.BoxSizeID == id {
			c.boxes = append(c.boxes[:idx], c.boxes[idx+1:]...)
			return nil
		}
	}
	return ErrBoxSizeNotFound
}

// List returns the box sizes in insertion order
func (c *BoxSizeCatalog) List() []*BoxSize {
	return append([]*BoxSize(nil), c.boxes...)
}

// Suggest returns the smallest box, by volume, that holds one unit of the item.
// Ties keep the earlier box.
func (c *BoxSizeCatalog) Suggest(item *PackingItem) (*BoxSize, error) {
	var best *BoxSize
	for _, box := range c.boxes {
		if !box.Holds(item) {
			continue
		}
		if best == nil || box.Dimensions().Volume() < best.Dimensions().Volume() {
			best = box
		}
	}
	if best == nil {
		return nil, ErrNoBoxFits
	}
	return best, nil
}

// Restore replaces the catalog content with persisted box sizes in insertion order
func (c *BoxSizeCatalog) Restore(boxes []*BoxSize) {
	c.boxes = make([]*BoxSize, 0, len(boxes))
	c.seq = 0
	for _, box := range boxes {
		c.boxes = append(c.boxes, box)
		if box.Sequence > c.seq {
			c.seq = box.Sequence
		}
	}
}
