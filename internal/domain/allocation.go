package domain

import (
	"time"

	"github.com/google/uuid"
)

// Assignment records one item placed on one pallet during a run
type Assignment struct {
	ItemID   string
	PalletID string
}

// AllocationResult describes what a single allocation run did.
// Unallocated items are an expected outcome, not an error.
type AllocationResult struct {
	RunID       string
	Assignments []Assignment
	Unallocated []string
	StartedAt   time.Time
	Duration    time.Duration
}

// PackedCount returns the number of items packed by the run
func (r *AllocationResult) PackedCount() int {
	return len(r.Assignments)
}

// AllocationEngine places pending items on pallets with a single first-fit pass
type AllocationEngine struct {
	now func() time.Time
}

// NewAllocationEngine creates an allocation engine
func NewAllocationEngine() *AllocationEngine {
	return &AllocationEngine{now: time.Now}
}

// Run walks pending items in catalog order and puts each on the first pallet,
// in registry order, that can take its weight and height. Items that fit
// nowhere stay pending. Packed items are never revisited or moved, so a
// second run without intervening changes is a no-op.
//
// The caller must hold exclusive access to both the catalog and the registry
// for the whole call; the capacity check and the assignment are one step.
func (e *AllocationEngine) Run(catalog *ItemCatalog, registry *PalletRegistry) *AllocationResult {
	started := e.now()
	result := &AllocationResult{
		RunID:       uuid.New().String(),
		Assignments: make([]Assignment, 0),
		Unallocated: make([]string, 0),
		StartedAt:   started,
	}

	pallets := registry.List("")
	for _, item := range catalog.Pending() {
		placed := false
		for _, pallet := range pallets {
			if pallet.DerivedStatus() != PalletStatusAvailable {
				continue
			}
			if !pallet.Fits(item) {
				continue
			}

			now := e.now()
			if err := item.markPacked(pallet.PalletID, now); err != nil {
				// Pending() only yields pending items
				break
			}
			pallet.assign(item, now)
			result.Assignments = append(result.Assignments, Assignment{ItemID: item.ItemID, PalletID: pallet.PalletID})
			placed = true
			break
		}
		if !placed {
			result.Unallocated = append(result.Unallocated, item.ItemID)
		}
	}

	result.Duration = e.now().Sub(started)
	return result
}

// Event builds the completion event for the run
func (r *AllocationResult) Event(pendingWeight float64) *AllocationCompletedEvent {
	return &AllocationCompletedEvent{
		RunID:            r.RunID,
		PackedCount:      len(r.Assignments),
		UnallocatedCount: len(r.Unallocated),
		PendingWeight:    pendingWeight,
		CompletedAt:      r.StartedAt.Add(r.Duration),
	}
}
