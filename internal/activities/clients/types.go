package clients

import "time"

// AllocationResult is the reply of POST /allocations
type AllocationResult struct {
	RunID            string       `json:"runId"`
	Assignments      []Assignment `json:"assignments"`
	Unallocated      []string     `json:"unallocated"`
	PackedCount      int          `json:"packedCount"`
	UnallocatedCount int          `json:"unallocatedCount"`
	StartedAt        time.Time    `json:"startedAt"`
	DurationMs       float64      `json:"durationMs"`
}

// Assignment is one item placed on one pallet
type Assignment struct {
	ItemID   string `json:"itemId"`
	PalletID string `json:"palletId"`
}

// Pallet is the subset of the pallet representation the workflow needs
type Pallet struct {
	PalletID      string   `json:"palletId"`
	Name          string   `json:"name"`
	Status        string   `json:"status"`
	CurrentWeight float64  `json:"currentWeight"`
	ItemIDs       []string `json:"itemIds"`
	ItemCount     int      `json:"itemCount"`
}

// Summary is the reply of GET /summary
type Summary struct {
	TotalItems      int            `json:"totalItems"`
	TotalPallets    int            `json:"totalPallets"`
	ItemsByStatus   map[string]int `json:"itemsByStatus"`
	PalletsByStatus map[string]int `json:"palletsByStatus"`
	PendingWeight   float64        `json:"pendingWeight"`
	PackedWeight    float64        `json:"packedWeight"`
	ShippedWeight   float64        `json:"shippedWeight"`
}

// errorBody is the error envelope every endpoint returns
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
