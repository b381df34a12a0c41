package domain

import "context"

// Snapshot is the persisted state, each list in insertion order
type Snapshot struct {
	Items    []*PackingItem
	Pallets  []*Pallet
	BoxSizes []*BoxSize
}

// IsEmpty reports whether nothing has been persisted yet
func (s *Snapshot) IsEmpty() bool {
	return len(s.Items) == 0 && len(s.Pallets) == 0 && len(s.BoxSizes) == 0
}

// StateRepository persists catalog, registry and box sizes
type StateRepository interface {
	SaveItems(ctx context.Context, items ...*PackingItem) error
	DeleteItem(ctx context.Context, itemID string) error
	SavePallets(ctx context.Context, pallets ...*Pallet) error
	DeletePallet(ctx context.Context, palletID string) error
	SaveBoxSize(ctx context.Context, box *BoxSize) error
	DeleteBoxSize(ctx context.Context, boxSizeID string) error
	Load(ctx context.Context) (*Snapshot, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	PublishAll(ctx context.Context, events []DomainEvent) error
}
