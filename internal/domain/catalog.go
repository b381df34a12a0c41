package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItemCatalog owns the packing items in insertion order.
// It is not safe for concurrent use; callers serialize access.
type ItemCatalog struct {
	items []*PackingItem
	index map[string]*PackingItem
	seq   int64
}

// NewItemCatalog creates an empty catalog
func NewItemCatalog() *ItemCatalog {
	return &ItemCatalog{
		items: make([]*PackingItem, 0),
		index: make(map[string]*PackingItem),
	}
}

// Add validates the spec and appends a new pending item.
// On a validation error the catalog is left untouched.
func (c *ItemCatalog) Add(spec ItemSpec) (*PackingItem, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	c.seq++
	item := newPackingItem("ITM-"+uuid.New().String(), c.seq, spec, time.Now())
	c.items = append(c.items, item)
	c.index[item.ItemID] = item
	return item, nil
}

// Get returns the item with the given id
func (c *ItemCatalog) Get(id string) (*PackingItem, error) {
	item, ok := c.index[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// Len returns the number of items
func (c *ItemCatalog) Len() int {
	return len(c.items)
}

// All returns every item in insertion order
func (c *ItemCatalog) All() []*PackingItem {
	return append([]*PackingItem(nil), c.items...)
}

// Pending returns the pending items in insertion order
func (c *ItemCatalog) Pending() []*PackingItem {
	return c.List(ItemFilter{Status: ItemStatusPending})
}

// Delete removes an item. If it sits on a pallet the pallet totals are
// reversed and the pallet is returned so the caller can persist it.
func (c *ItemCatalog) Delete(id string, registry *PalletRegistry) (*PackingItem, *Pallet, error) {
	item, err := c.Get(id)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	var pallet *Pallet
	if item.IsAssigned() {
		if p, err := registry.Get(item.AssignedPallet); err == nil {
			p.release(item, now)
			pallet = p
		}
	}

	for idx, candidate := range c.items {
		if candidate.ItemID == id {
			c.items = append(c.items[:idx], c.items[idx+1:]...)
			break
		}
	}
	delete(c.index, id)

	item.AddDomainEvent(&ItemDeletedEvent{
		ItemID:    item.ItemID,
		Status:    string(item.Status),
		PalletID:  item.AssignedPallet,
		DeletedAt: now,
	})
	return item, pallet, nil
}

// UpdateStatus applies an externally requested status change
func (c *ItemCatalog) UpdateStatus(id string, status ItemStatus) (*PackingItem, error) {
	item, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	if err := item.RequestStatus(status); err != nil {
		return nil, err
	}
	return item, nil
}

// Categories returns the distinct categories in first-seen order
func (c *ItemCatalog) Categories() []string {
	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, item := range c.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories
}

// Restore replaces the catalog content with previously persisted items,
// which must already be in insertion order.
func (c *ItemCatalog) Restore(items []*PackingItem) {
	c.items = make([]*PackingItem, 0, len(items))
	c.index = make(map[string]*PackingItem, len(items))
	c.seq = 0
	for _, item := range items {
		c.items = append(c.items, item)
		c.index[item.ItemID] = item
		if item.Sequence > c.seq {
			c.seq = item.Sequence
		}
	}
}
