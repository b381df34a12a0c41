package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPalletRegistry_Add(t *testing.T) {
	tests := []struct {
		name       string
		spec       PalletSpec
		wantWeight float64
		wantHeight float64
		wantField  string
	}{
		{"defaults", PalletSpec{Name: "P1"}, 1000, 48, ""},
		{"override", PalletSpec{Name: "P2", MaxWeight: 2000, MaxHeight: 60}, 2000, 60, ""},
		{"metric override", PalletSpec{Name: "P3", MaxWeight: 453.592, MaxHeight: 121.92, Units: Metric}, 1000, 48, ""},
		{"missing name", PalletSpec{}, 0, 0, "name"},
		{"negative weight", PalletSpec{Name: "P", MaxWeight: -1}, 0, 0, "maxWeight"},
		{"negative height", PalletSpec{Name: "P", MaxHeight: -1}, 0, 0, "maxHeight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewPalletRegistry(Capacity{Weight: 1000, Height: 48})
			p, err := registry.Add(tt.spec)
			if tt.wantField != "" {
				var vErr *ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, tt.wantField, vErr.Field)
				assert.Equal(t, 0, registry.Len())
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantWeight, p.MaxWeight, 1e-9)
			assert.InDelta(t, tt.wantHeight, p.MaxHeight, 1e-9)
			assert.Zero(t, p.CurrentWeight)
			assert.Zero(t, p.CurrentHeight)
			assert.Empty(t, p.ItemIDs)
			assert.Equal(t, PalletStatusAvailable, p.DerivedStatus())
		})
	}
}

func TestPalletRegistry_CapacityRemaining(t *testing.T) {
	catalog := NewItemCatalog()
	registry := NewPalletRegistry(Capacity{Weight: 1000, Height: 48})
	p := addPallet(t, registry, "P1", 0, 0)
	addItem(t, catalog, "bolts", 2.5, 50, 2)
	NewAllocationEngine().Run(catalog, registry)

	remaining, err := registry.CapacityRemaining(p.PalletID)
	require.NoError(t, err)
	assert.Equal(t, Capacity{Weight: 875, Height: 46}, remaining)

	_, err = registry.CapacityRemaining("PLT-missing")
	assert.ErrorIs(t, err, ErrPalletNotFound)
}

func TestPallet_DerivedStatus(t *testing.T) {
	tests := []struct {
		name   string
		pallet Pallet
		want   PalletStatus
	}{
		{"empty", Pallet{MaxWeight: 100, MaxHeight: 10}, PalletStatusAvailable},
		{"weight reached", Pallet{MaxWeight: 100, MaxHeight: 10, CurrentWeight: 100}, PalletStatusFull},
		{"height reached", Pallet{MaxWeight: 100, MaxHeight: 10, CurrentHeight: 10}, PalletStatusFull},
		{"partly used", Pallet{MaxWeight: 100, MaxHeight: 10, CurrentWeight: 50, CurrentHeight: 5}, PalletStatusAvailable},
		{"shipped wins", Pallet{MaxWeight: 100, MaxHeight: 10, CurrentWeight: 100, Shipped: true}, PalletStatusShipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pallet.DerivedStatus())
		})
	}
}

func TestPalletRegistry_Delete(t *testing.T) {
	catalog := NewItemCatalog()
	registry := NewPalletRegistry(Capacity{Weight: 1000, Height: 48})
	loaded := addPallet(t, registry, "loaded", 0, 0)
	empty := addPallet(t, registry, "empty", 0, 0)
	item := addItem(t, catalog, "box", 10, 1, 1)
	NewAllocationEngine().Run(catalog, registry)

	_, err := registry.Delete(loaded.PalletID)
	assert.ErrorIs(t, err, ErrPalletNotEmpty)
	assert.Equal(t, 2, registry.Len())
	assert.Equal(t, loaded.PalletID, item.AssignedPallet)

	deleted, err := registry.Delete(empty.PalletID)
	require.NoError(t, err)
	assert.Equal(t, empty.PalletID, deleted.PalletID)
	assert.Equal(t, 1, registry.Len())

	_, err = registry.Delete(empty.PalletID)
	assert.ErrorIs(t, err, ErrPalletNotFound)

	// once its item is gone the pallet can be removed
	_, _, err = catalog.Delete(item.ItemID, registry)
	require.NoError(t, err)
	_, err = registry.Delete(loaded.PalletID)
	assert.NoError(t, err)
}

func TestPalletRegistry_Ship(t *testing.T) {
	catalog := NewItemCatalog()
	registry := NewPalletRegistry(Capacity{Weight: 1000, Height: 48})
	p := addPallet(t, registry, "P1", 0, 0)
	empty := addPallet(t, registry, "P2", 0, 0)
	first := addItem(t, catalog, "a", 10, 1, 1)
	second := addItem(t, catalog, "b", 10, 1, 1)
	NewAllocationEngine().Run(catalog, registry)

	_, err := catalog.UpdateStatus(first.ItemID, ItemStatusShipped)
	require.NoError(t, err)

	shippedPallet, changed, err := registry.Ship(p.PalletID, catalog)
	require.NoError(t, err)
	assert.True(t, shippedPallet.Shipped)
	assert.NotNil(t, shippedPallet.ShippedAt)
	assert.Equal(t, []*PackingItem{second}, changed)
	assert.Equal(t, ItemStatusShipped, second.Status)
	assert.Equal(t, PalletStatusShipped, p.DerivedStatus())

	_, _, err = registry.Ship(p.PalletID, catalog)
	assert.ErrorIs(t, err, ErrPalletShipped)

	_, _, err = registry.Ship(empty.PalletID, catalog)
	assert.ErrorIs(t, err, ErrPalletEmpty)
}

func TestPalletRegistry_List(t *testing.T) {
	catalog := NewItemCatalog()
	registry := NewPalletRegistry(Capacity{Weight: 10, Height: 48})
	full := addPallet(t, registry, "full", 0, 0)
	open := addPallet(t, registry, "open", 0, 0)
	addItem(t, catalog, "x", 10, 1, 1)
	NewAllocationEngine().Run(catalog, registry)

	assert.Equal(t, []*Pallet{full, open}, registry.List(""))
	assert.Equal(t, []*Pallet{full}, registry.List(PalletStatusFull))
	assert.Equal(t, []*Pallet{open}, registry.List(PalletStatusAvailable))
}

func TestRestore_KeepsOrderAndSequence(t *testing.T) {
	catalog := NewItemCatalog()
	catalog.Restore([]*PackingItem{
		{ItemID: "ITM-a", Name: "a", Status: ItemStatusPending, Sequence: 3},
		{ItemID: "ITM-b", Name: "b", Status: ItemStatusPending, Sequence: 9},
	})
	next, err := catalog.Add(ItemSpec{Name: "c", SKU: "c", Category: "c", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(10), next.Sequence)

	all := catalog.All()
	require.Len(t, all, 3)
	assert.Equal(t, "ITM-a", all[0].ItemID)
	assert.Equal(t, "ITM-b", all[1].ItemID)

	registry := NewPalletRegistry(Capacity{Weight: 1, Height: 1})
	registry.Restore([]*Pallet{{PalletID: "PLT-a", Sequence: 4, MaxWeight: 1, MaxHeight: 1}})
	p, err := registry.Add(PalletSpec{Name: "next"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.Sequence)
	assert.NotNil(t, registry.List("")[0].ItemIDs)
}

func TestPalletRegistry_SetDefaults(t *testing.T) {
	registry := NewPalletRegistry(Capacity{Weight: 1000, Height: 48})
	first, err := registry.Add(PalletSpec{Name: "before"})
	require.NoError(t, err)

	require.NoError(t, registry.SetDefaults(Capacity{Weight: 1500, Height: 60}))
	second, err := registry.Add(PalletSpec{Name: "after"})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, first.MaxWeight)
	assert.Equal(t, 1500.0, second.MaxWeight)
	assert.Equal(t, 60.0, second.MaxHeight)

	err = registry.SetDefaults(Capacity{Weight: 0, Height: 60})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, Capacity{Weight: 1500, Height: 60}, registry.Defaults())
}
