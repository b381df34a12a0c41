package application

import (
	"github.com/wms-platform/pallet-service/internal/domain"
)

// ToUnitsDTO converts a unit system to its DTO
func ToUnitsDTO(us domain.UnitSystem) UnitsDTO {
	return UnitsDTO{Length: string(us.Length), Weight: string(us.Weight)}
}

// ToDimensionsDTO converts canonical dimensions into the given units
func ToDimensionsDTO(d domain.Dimensions, us domain.UnitSystem) DimensionsDTO {
	converted := us.DimensionsFromCanonical(d)
	return DimensionsDTO{Length: converted.Length, Width: converted.Width, Height: converted.Height}
}

// ToItemDTO converts a domain PackingItem to ItemDTO in the given units
func ToItemDTO(item *domain.PackingItem, us domain.UnitSystem) *ItemDTO {
	if item == nil {
		return nil
	}

	return &ItemDTO{
		ItemID:         item.ItemID,
		Name:           item.Name,
		SKU:            item.SKU,
		Category:       item.Category,
		Quantity:       item.Quantity,
		UnitWeight:     us.WeightFromCanonical(item.UnitWeight),
		TotalWeight:    us.WeightFromCanonical(item.TotalWeight()),
		Dimensions:     ToDimensionsDTO(item.Dimensions, us),
		Priority:       string(item.Priority),
		Status:         string(item.Status),
		AssignedPallet: item.AssignedPallet,
		Units:          ToUnitsDTO(us),
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
		PackedAt:       item.PackedAt,
		ShippedAt:      item.ShippedAt,
	}
}

// ToItemDTOs converts a slice of items
func ToItemDTOs(items []*domain.PackingItem, us domain.UnitSystem) []ItemDTO {
	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		if dto := ToItemDTO(item, us); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}

// ToPalletDTO converts a domain Pallet to PalletDTO in the given units
func ToPalletDTO(pallet *domain.Pallet, us domain.UnitSystem) *PalletDTO {
	if pallet == nil {
		return nil
	}

	remaining := pallet.CapacityRemaining()
	itemIDs := make([]string, len(pallet.ItemIDs))
	copy(itemIDs, pallet.ItemIDs)

	return &PalletDTO{
		PalletID:        pallet.PalletID,
		Name:            pallet.Name,
		Status:          string(pallet.DerivedStatus()),
		MaxWeight:       us.WeightFromCanonical(pallet.MaxWeight),
		MaxHeight:       us.LengthFromCanonical(pallet.MaxHeight),
		CurrentWeight:   us.WeightFromCanonical(pallet.CurrentWeight),
		CurrentHeight:   us.LengthFromCanonical(pallet.CurrentHeight),
		RemainingWeight: us.WeightFromCanonical(remaining.Weight),
		RemainingHeight: us.LengthFromCanonical(remaining.Height),
		ItemIDs:         itemIDs,
		ItemCount:       len(itemIDs),
		Units:           ToUnitsDTO(us),
		CreatedAt:       pallet.CreatedAt,
		ShippedAt:       pallet.ShippedAt,
	}
}

// ToPalletDTOs converts a slice of pallets
func ToPalletDTOs(pallets []*domain.Pallet, us domain.UnitSystem) []PalletDTO {
	dtos := make([]PalletDTO, 0, len(pallets))
	for _, pallet := range pallets {
		if dto := ToPalletDTO(pallet, us); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}

// ToCapacityDTO converts remaining capacity into the given units
func ToCapacityDTO(palletID string, c domain.Capacity, us domain.UnitSystem) *CapacityDTO {
	return &CapacityDTO{
		PalletID:        palletID,
		RemainingWeight: us.WeightFromCanonical(c.Weight),
		RemainingHeight: us.LengthFromCanonical(c.Height),
		Units:           ToUnitsDTO(us),
	}
}

// ToBoxSizeDTO converts a domain BoxSize to BoxSizeDTO in the given units
func ToBoxSizeDTO(box *domain.BoxSize, us domain.UnitSystem) *BoxSizeDTO {
	if box == nil {
		return nil
	}

	dims := ToDimensionsDTO(box.Dimensions(), us)
	return &BoxSizeDTO{
		BoxSizeID:  box.BoxSizeID,
		Name:       box.Name,
		Dimensions: dims,
		Volume:     dims.Length * dims.Width * dims.Height,
		MaxWeight:  us.WeightFromCanonical(box.MaxWeight),
		Units:      ToUnitsDTO(us),
		CreatedAt:  box.CreatedAt,
	}
}

// ToBoxSizeDTOs converts a slice of box sizes
func ToBoxSizeDTOs(boxes []*domain.BoxSize, us domain.UnitSystem) []BoxSizeDTO {
	dtos := make([]BoxSizeDTO, 0, len(boxes))
	for _, box := range boxes {
		if dto := ToBoxSizeDTO(box, us); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}

// ToAllocationResultDTO converts an allocation result
func ToAllocationResultDTO(result *domain.AllocationResult) *AllocationResultDTO {
	assignments := make([]AssignmentDTO, len(result.Assignments))
	for i, a := range result.Assignments {
		assignments[i] = AssignmentDTO{ItemID: a.ItemID, PalletID: a.PalletID}
	}
	unallocated := make([]string, len(result.Unallocated))
	copy(unallocated, result.Unallocated)

	return &AllocationResultDTO{
		RunID:            result.RunID,
		Assignments:      assignments,
		Unallocated:      unallocated,
		PackedCount:      result.PackedCount(),
		UnallocatedCount: len(result.Unallocated),
		StartedAt:        result.StartedAt,
		DurationMs:       float64(result.Duration.Microseconds()) / 1000,
	}
}

// ToSummaryDTO converts a domain summary; weights are rendered in the given units
func ToSummaryDTO(s domain.Summary, us domain.UnitSystem) *SummaryDTO {
	dto := &SummaryDTO{
		ItemsByStatus:   make(map[string]int, len(s.ItemsByStatus)),
		PalletsByStatus: make(map[string]int, len(s.PalletsByStatus)),
		PendingWeight:   us.WeightFromCanonical(s.PendingWeight),
		PackedWeight:    us.WeightFromCanonical(s.PackedWeight),
		ShippedWeight:   us.WeightFromCanonical(s.ShippedWeight),
		Utilization:     make([]PalletUtilizationDTO, 0, len(s.Utilization)),
		Units:           ToUnitsDTO(us),
	}
	for status, n := range s.ItemsByStatus {
		dto.ItemsByStatus[string(status)] = n
		dto.TotalItems += n
	}
	for status, n := range s.PalletsByStatus {
		dto.PalletsByStatus[string(status)] = n
		dto.TotalPallets += n
	}
	for _, u := range s.Utilization {
		dto.Utilization = append(dto.Utilization, PalletUtilizationDTO{
			PalletID:    u.PalletID,
			Name:        u.Name,
			Status:      string(u.Status),
			WeightRatio: u.Weight,
			HeightRatio: u.Height,
		})
	}
	return dto
}

// ToSettingsDTO renders the settings in their own display units
func ToSettingsDTO(us domain.UnitSystem, defaults domain.Capacity) *SettingsDTO {
	return &SettingsDTO{
		Units:            ToUnitsDTO(us),
		DefaultMaxWeight: us.WeightFromCanonical(defaults.Weight),
		DefaultMaxHeight: us.LengthFromCanonical(defaults.Height),
	}
}
