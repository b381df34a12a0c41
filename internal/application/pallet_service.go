package application

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/wms-platform/pallet-service/internal/domain"
	"github.com/wms-platform/pallet-service/pkg/errors"
	"github.com/wms-platform/pallet-service/pkg/logging"
	"github.com/wms-platform/pallet-service/pkg/metrics"
	"github.com/wms-platform/pallet-service/pkg/tracing"
)

// Config holds the startup settings of the service
type Config struct {
	// Display is the unit system responses are rendered in
	Display domain.UnitSystem
	// DefaultCapacity is given to pallets registered without limits, in canonical units
	DefaultCapacity domain.Capacity
}

// DefaultConfig returns imperial display units and a 1000 lb x 48 in pallet
func DefaultConfig() Config {
	return Config{
		Display:         domain.Canonical,
		DefaultCapacity: domain.Capacity{Weight: 1000, Height: 48},
	}
}

// PalletApplicationService owns the catalog, the registry and the box sizes.
// Every operation runs under one mutex, so an allocation run is atomic with
// respect to concurrent adds and deletes. Persistence writes happen under the
// mutex to keep the store in mutation order; events are published after it
// is released.
type PalletApplicationService struct {
	mu       sync.Mutex
	catalog  *domain.ItemCatalog
	registry *domain.PalletRegistry
	boxes    *domain.BoxSizeCatalog
	engine   *domain.AllocationEngine
	display  domain.UnitSystem

	repo      domain.StateRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	logger    *logging.Logger
	tracer    trace.Tracer
}

// NewPalletApplicationService creates the service. repo and publisher may be
// nil when persistence or Kafka is disabled.
func NewPalletApplicationService(
	config Config,
	repo domain.StateRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	logger *logging.Logger,
) *PalletApplicationService {
	display := config.Display
	if display.Length == "" {
		display.Length = domain.LengthUnitInch
	}
	if display.Weight == "" {
		display.Weight = domain.WeightUnitPound
	}

	return &PalletApplicationService{
		catalog:   domain.NewItemCatalog(),
		registry:  domain.NewPalletRegistry(config.DefaultCapacity),
		boxes:     domain.NewBoxSizeCatalog(),
		engine:    domain.NewAllocationEngine(),
		display:   display,
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger.WithComponent("pallet-service"),
		tracer:    tracing.Tracer("pallet-service"),
	}
}

// inLock runs fn under the state mutex and publishes the events it returns
// once the mutex is released
func inLock[T any](ctx context.Context, s *PalletApplicationService, fn func() (T, []domain.DomainEvent, error)) (T, error) {
	result, events, err := func() (T, []domain.DomainEvent, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn()
	}()
	if len(events) > 0 {
		s.publish(ctx, events)
	}
	return result, err
}

func (s *PalletApplicationService) publish(ctx context.Context, events []domain.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAll(ctx, events); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to publish domain events", "count", len(events))
	}
}

// persist runs a write-through. The in-memory state stays authoritative, so a
// failure is logged and counted and never fails the request.
func (s *PalletApplicationService) persist(ctx context.Context, operation string, write func(domain.StateRepository) error) {
	if s.repo == nil {
		return
	}
	if err := write(s.repo); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Persistence write failed", "operation", operation)
		s.metrics.RecordPersistenceFailure(operation)
	}
}

// refreshGauges must be called with the mutex held
func (s *PalletApplicationService) refreshGauges() {
	s.metrics.SetPendingItems(len(s.catalog.Pending()))
	for _, p := range s.registry.List("") {
		u := p.Utilization()
		s.metrics.SetPalletUtilization(p.PalletID, u.Weight, u.Height)
	}
}

// viewUnits resolves per-request display overrides; called with the mutex held
func (s *PalletApplicationService) viewUnits(view View) (domain.UnitSystem, *errors.AppError) {
	us, err := domain.ParseUnitSystem(view.LengthUnit, view.WeightUnit, s.display)
	if err != nil {
		return domain.UnitSystem{}, mapDomainError(err)
	}
	return us, nil
}

// inputUnits resolves the units of a request body; called with the mutex held
func (s *PalletApplicationService) inputUnits(in UnitsInput) (domain.UnitSystem, *errors.AppError) {
	us, err := domain.ParseUnitSystem(in.Length, in.Weight, s.display)
	if err != nil {
		return domain.UnitSystem{}, mapDomainError(err)
	}
	return us, nil
}

func collectItemEvents(items ...*domain.PackingItem) []domain.DomainEvent {
	events := make([]domain.DomainEvent, 0)
	for _, item := range items {
		events = append(events, item.PullDomainEvents()...)
	}
	return events
}

// Items

// AddItem validates the command and appends a pending item to the catalog
func (s *PalletApplicationService) AddItem(ctx context.Context, cmd AddItemCommand) (*ItemDTO, error) {
	return inLock(ctx, s, func() (*ItemDTO, []domain.DomainEvent, error) {
		units, appErr := s.inputUnits(cmd.Units)
		if appErr != nil {
			return nil, nil, appErr
		}
		view, appErr := s.viewUnits(cmd.View)
		if appErr != nil {
			return nil, nil, appErr
		}

		item, err := s.catalog.Add(domain.ItemSpec{
			Name:       cmd.Name,
			SKU:        cmd.SKU,
			Category:   cmd.Category,
			Quantity:   cmd.Quantity,
			UnitWeight: cmd.UnitWeight,
			Dimensions: domain.Dimensions{
				Length: cmd.Dimensions.Length,
				Width:  cmd.Dimensions.Width,
				Height: cmd.Dimensions.Height,
			},
			Priority: domain.Priority(strings.ToLower(strings.TrimSpace(cmd.Priority))),
			Units:    units,
		})
		if err != nil {
			return nil, nil, mapDomainError(err)
		}

		s.persist(ctx, "save_item", func(r domain.StateRepository) error {
			return r.SaveItems(ctx, item)
		})
		s.metrics.RecordItemAdded(item.Category)
		s.refreshGauges()

		s.logger.Event(ctx, "item.added", map[string]any{
			"itemId":      item.ItemID,
			"sku":         item.SKU,
			"category":    item.Category,
			"totalWeight": item.TotalWeight(),
		})

		return ToItemDTO(item, view), collectItemEvents(item), nil
	})
}

// GetItem retrieves an item by ID
func (s *PalletApplicationService) GetItem(ctx context.Context, query GetItemQuery) (*ItemDTO, error) {
	return inLock(ctx, s, func() (*ItemDTO, []domain.DomainEvent, error) {
		view, appErr := s.viewUnits(query.View)
		if appErr != nil {
			return nil, nil, appErr
		}
		item, err := s.catalog.Get(query.ItemID)
		if err != nil {
			return nil, nil, notFoundWithID(err, query.ItemID)
		}
		return ToItemDTO(item, view), nil, nil
	})
}

// ListItems returns the items matching the filter in insertion order
func (s *PalletApplicationService) ListItems(ctx context.Context, query ListItemsQuery) ([]ItemDTO, error) {
	return inLock(ctx, s, func() ([]ItemDTO, []domain.DomainEvent, error) {
		view, appErr := s.viewUnits(query.View)
		if appErr != nil {
			return nil, nil, appErr
		}

		status := domain.ItemStatus(strings.ToLower(strings.TrimSpace(query.Status)))
		if status != "" && !status.IsValid() {
			return nil, nil, mapDomainError(domain.NewValidationError("status", "must be one of pending, packed, shipped"))
		}

		items := s.catalog.List(domain.ItemFilter{
			Search:   strings.TrimSpace(query.Search),
			Category: query.Category,
			Status:   status,
		})
		return ToItemDTOs(items, view), nil, nil
	})
}

// ListCategories returns the distinct categories in first-seen order
func (s *PalletApplicationService) ListCategories(ctx context.Context) ([]string, error) {
	return inLock(ctx, s, func() ([]string, []domain.DomainEvent, error) {
		return s.catalog.Categories(), nil, nil
	})
}

// UpdateItemStatus applies an external status change. Only packed -> shipped is accepted.
func (s *PalletApplicationService) UpdateItemStatus(ctx context.Context, cmd UpdateItemStatusCommand) (*ItemDTO, error) {
	return inLock(ctx, s, func() (*ItemDTO, []domain.DomainEvent, error) {
		view, appErr := s.viewUnits(cmd.View)
		if appErr != nil {
			return nil, nil, appErr
		}

		status := domain.ItemStatus(strings.ToLower(strings.TrimSpace(cmd.Status)))
		item, err := s.catalog.UpdateStatus(cmd.ItemID, status)
		if err != nil {
			return nil, nil, notFoundWithID(err, cmd.ItemID)
		}

		s.persist(ctx, "save_item", func(r domain.StateRepository) error {
			return r.SaveItems(ctx, item)
		})
		if item.Status == domain.ItemStatusShipped {
			s.metrics.RecordItemsShipped(1)
		}

		s.logger.Audit(ctx, "update_status", "packing_item", item.ItemID, map[string]any{
			"status":   string(item.Status),
			"palletId": item.AssignedPallet,
		})

		return ToItemDTO(item, view), collectItemEvents(item), nil
	})
}

// DeleteItem removes an item. An assigned item gives its weight and height back to its pallet.
func (s *PalletApplicationService) DeleteItem(ctx context.Context, cmd DeleteItemCommand) error {
	_, err := inLock(ctx, s, func() (struct{}, []domain.DomainEvent, error) {
		item, pallet, err := s.catalog.Delete(cmd.ItemID, s.registry)
		if err != nil {
			return struct{}{}, nil, notFoundWithID(err, cmd.ItemID)
		}

		s.persist(ctx, "delete_item", func(r domain.StateRepository) error {
			return r.DeleteItem(ctx, item.ItemID)
		})
		if pallet != nil {
			s.persist(ctx, "save_pallet", func(r domain.StateRepository) error {
				return r.SavePallets(ctx, pallet)
			})
		}
		s.refreshGauges()

		s.logger.Audit(ctx, "delete", "packing_item", item.ItemID, map[string]any{
			"status":   string(item.Status),
			"palletId": item.AssignedPallet,
		})

		return struct{}{}, collectItemEvents(item), nil
	})
	return err
}

// Pallets

// AddPallet registers an empty pallet
func (s *PalletApplicationService) AddPallet(ctx context.Context, cmd AddPalletCommand) (*PalletDTO, error) {
	return inLock(ctx, s, func() (*PalletDTO, []domain.DomainEvent, error) {
		units, appErr := s.inputUnits(cmd.Units)
		if appErr != nil {
			return nil, nil, appErr
		}
		view, appErr := s.viewUnits(cmd.View)
		if appErr != nil {
			return nil, nil, appErr
		}

		pallet, err := s.registry.Add(domain.PalletSpec{
			Name:      strings.TrimSpace(cmd.Name),
			MaxWeight: cmd.MaxWeight,
			MaxHeight: cmd.MaxHeight,
			Units:     units,
		})
		if err != nil {
			return nil, nil, mapDomainError(err)
		}

		s.persist(ctx, "save_pallet", func(r domain.StateRepository) error {
			return r.SavePallets(ctx, pallet)
		})
		s.refreshGauges()

		s.logger.Event(ctx, "pallet.registered", map[string]any{
			"palletId":  pallet.PalletID,
			"maxWeight": pallet.MaxWeight,
			"maxHeight": pallet.MaxHeight,
		})

		return ToPalletDTO(pallet, view), pallet.PullDomainEvents(), nil
	})
}

// GetPallet retrieves a pallet with its derived status
func (s *PalletApplicationService) GetPallet(ctx context.Context, query GetPalletQuery) (*PalletDTO, error) {
	return inLock(ctx, s, func() (*PalletDTO, []domain.DomainEvent, error) {
		view, appErr := s.viewUnits(query.View)
		if appErr != nil {
			return nil, nil, appErr
		}
		pallet, err := s.registry.Get(query.PalletID)
		if err != nil {
			return nil, nil, notFoundWithID(err, query.PalletID)
		}
		return ToPalletDTO(pallet, view), nil, nil
	})
}

// ListPallets returns pallets in registration order
func (s *PalletApplicationService) ListPallets(ctx context.Context, query ListPalletsQuery) ([]PalletDTO, error) {
	return inLock(ctx, s, func() ([]PalletDTO, []domain.DomainEvent, error) {
		view, appErr := s.viewUnits(query.View)
		if appErr != nil {
			return nil, nil, appErr
		}
		status := domain.PalletStatus(strings.ToLower(strings.TrimSpace(query.Status)))
		if status != "" && !status.IsValid() {
			return nil, nil, mapDomainError(domain.NewValidationError("status", "must be one of available, full, shipped"))
		}
		return ToPalletDTOs(s.registry.List(status), view), nil, nil
	})
}

// GetCapacity returns the weight and height still available on a pallet
func (s *PalletApplicationService) GetCapacity(ctx context.Context, query GetPalletQuery) (*CapacityDTO, error) {
	return inLock(ctx, s, func() (*CapacityDTO, []domain.DomainEvent, error) {
		view, appErr := s.viewUnits(query.View)
		if appErr != nil {
			return nil, nil, appErr
		}
		remaining, err := s.registry.CapacityRemaining(query.PalletID)
		if err != nil {
			return nil, nil, notFoundWithID(err, query.PalletID)
		}
		return ToCapacityDTO(query.PalletID, remaining, view), nil, nil
	})
}

// ShipPallet ships a pallet and moves every packed item on it to shipped
func (s *PalletApplicationService) ShipPallet(ctx context.Context, cmd ShipPalletCommand) (*PalletDTO, error) {
	return inLock(ctx, s, func() (*PalletDTO, []domain.DomainEvent, error) {
		view, appErr := s.viewUnits(cmd.View)
		if appErr != nil {
			return nil, nil, appErr
		}

		pallet, items, err := s.registry.Ship(cmd.PalletID, s.catalog)
		if err != nil {
			return nil, nil, notFoundWithID(err, cmd.PalletID)
		}

		s.persist(ctx, "ship_pallet", func(r domain.StateRepository) error {
			if err := r.SavePallets(ctx, pallet); err != nil {
				return err
			}
			return r.SaveItems(ctx, items...)
		})
		s.metrics.RecordItemsShipped(len(items))
		s.refreshGauges()

		s.logger.Event(ctx, "pallet.shipped", map[string]any{
			"palletId":    pallet.PalletID,
			"itemCount":   len(items),
			"totalWeight": pallet.CurrentWeight,
		})

		events := collectItemEvents(items...)
		events = append(events, pallet.PullDomainEvents()...)
		return ToPalletDTO(pallet, view), events, nil
	})
}

// DeletePallet removes an empty pallet
func (s *PalletApplicationService) DeletePallet(ctx context.Context, cmd DeletePalletCommand) error {
	_, err := inLock(ctx, s, func() (struct{}, []domain.DomainEvent, error) {
		pallet, err := s.registry.Delete(cmd.PalletID)
		if err != nil {
			return struct{}{}, nil, notFoundWithID(err, cmd.PalletID)
		}

		s.persist(ctx, "delete_pallet", func(r domain.StateRepository) error {
			return r.DeletePallet(ctx, pallet.PalletID)
		})
		s.metrics.DeletePalletUtilization(pallet.PalletID)

		s.logger.Audit(ctx, "delete", "pallet", pallet.PalletID, nil)

		return struct{}{}, pallet.PullDomainEvents(), nil
	})
	return err
}

// Box sizes

// AddBoxSize adds a reference box size
func (s *PalletApplicationService) AddBoxSize(ctx context.Context, cmd AddBoxSizeCommand) (*BoxSizeDTO, error) {
	return inLock(ctx, s, func() (*BoxSizeDTO, []domain.DomainEvent, error) {
		units, appErr := s.inputUnits(cmd.Units)
		if appErr != nil {
			return nil, nil, appErr
		}
		view, appErr := s.viewUnits(cmd.View)
		if appErr != nil {
			return nil, nil, appErr
		}

		box, err := s.boxes.Add(domain.BoxSizeSpec{
			Name: cmd.Name,
			Dimensions: domain.Dimensions{
				Length: cmd.Dimensions.Length,
				Width:  cmd.Dimensions.Width,
				Height: cmd.Dimensions.Height,
			},
			MaxWeight: cmd.MaxWeight,
			Units:     units,
		})
		if err != nil {
			return nil, nil, mapDomainError(err)
		}

		s.persist(ctx, "save_box_size", func(r domain.StateRepository) error {
			return r.SaveBoxSize(ctx, box)
		})

		return ToBoxSizeDTO(box, view), nil, nil
	})
}

// ListBoxSizes returns the box sizes in insertion order
func (s *PalletApplicationService) ListBoxSizes(ctx context.Context, view View) ([]BoxSizeDTO, error) {
	return inLock(ctx, s, func() ([]BoxSizeDTO, []domain.DomainEvent, error) {
		us, appErr := s.viewUnits(view)
		if appErr != nil {
			return nil, nil, appErr
		}
		return ToBoxSizeDTOs(s.boxes.List(), us), nil, nil
	})
}

// DeleteBoxSize removes a box size
func (s *PalletApplicationService) DeleteBoxSize(ctx context.Context, cmd DeleteBoxSizeCommand) error {
	_, err := inLock(ctx, s, func() (struct{}, []domain.DomainEvent, error) {
		if err := s.boxes.Delete(cmd.BoxSizeID); err != nil {
			return struct{}{}, nil, notFoundWithID(err, cmd.BoxSizeID)
		}
		s.persist(ctx, "delete_box_size", func(r domain.StateRepository) error {
			return r.DeleteBoxSize(ctx, cmd.BoxSizeID)
		})
		return struct{}{}, nil, nil
	})
	return err
}

// SuggestBoxSize returns the smallest box holding one unit of the item.
// It is an estimate only and never changes allocation state.
func (s *PalletApplicationService) SuggestBoxSize(ctx context.Context, query SuggestBoxSizeQuery) (*BoxSizeDTO, error) {
	return inLock(ctx, s, func() (*BoxSizeDTO, []domain.DomainEvent, error) {
		view, appErr := s.viewUnits(query.View)
		if appErr != nil {
			return nil, nil, appErr
		}
		item, err := s.catalog.Get(query.ItemID)
		if err != nil {
			return nil, nil, notFoundWithID(err, query.ItemID)
		}
		box, err := s.boxes.Suggest(item)
		if err != nil {
			return nil, nil, mapDomainError(err).WithDetail("itemId", query.ItemID)
		}
		return ToBoxSizeDTO(box, view), nil, nil
	})
}

// Allocation

// RunAllocation places pending items on pallets with one first-fit pass.
// Items that fit nowhere stay pending; that is reported, not an error.
func (s *PalletApplicationService) RunAllocation(ctx context.Context) (*AllocationResultDTO, error) {
	return tracing.TracedOperation(ctx, s.tracer, "pallet.allocation.run", s.runAllocation)
}

func (s *PalletApplicationService) runAllocation(ctx context.Context) (*AllocationResultDTO, error) {
	return inLock(ctx, s, func() (*AllocationResultDTO, []domain.DomainEvent, error) {
		result := s.engine.Run(s.catalog, s.registry)

		packed := make([]*domain.PackingItem, 0, len(result.Assignments))
		touched := make([]*domain.Pallet, 0)
		seen := make(map[string]bool)
		for _, a := range result.Assignments {
			if item, err := s.catalog.Get(a.ItemID); err == nil {
				packed = append(packed, item)
			}
			if seen[a.PalletID] {
				continue
			}
			seen[a.PalletID] = true
			if pallet, err := s.registry.Get(a.PalletID); err == nil {
				touched = append(touched, pallet)
			}
		}

		if len(packed) > 0 {
			s.persist(ctx, "allocation", func(r domain.StateRepository) error {
				if err := r.SaveItems(ctx, packed...); err != nil {
					return err
				}
				return r.SavePallets(ctx, touched...)
			})
		}

		summary := domain.Summarize(s.catalog, s.registry)
		s.metrics.RecordAllocationRun(result.PackedCount(), len(result.Unallocated), result.Duration)
		s.refreshGauges()

		s.logger.Event(ctx, "allocation.completed", map[string]any{
			"runId":         result.RunID,
			"packed":        result.PackedCount(),
			"unallocated":   len(result.Unallocated),
			"pendingWeight": summary.PendingWeight,
		})
		s.logger.Performance(ctx, "allocation", result.Duration, true, map[string]any{
			"items":   result.PackedCount() + len(result.Unallocated),
			"pallets": s.registry.Len(),
		})

		tracing.AddAttributes(ctx, map[string]any{
			"allocation.run_id":      result.RunID,
			"allocation.packed":      result.PackedCount(),
			"allocation.unallocated": len(result.Unallocated),
		})

		events := collectItemEvents(packed...)
		events = append(events, result.Event(summary.PendingWeight))
		return ToAllocationResultDTO(result), events, nil
	})
}

// Projections

// Summary returns counts, weight totals and utilisation
func (s *PalletApplicationService) Summary(ctx context.Context, view View) (*SummaryDTO, error) {
	return inLock(ctx, s, func() (*SummaryDTO, []domain.DomainEvent, error) {
		us, appErr := s.viewUnits(view)
		if appErr != nil {
			return nil, nil, appErr
		}
		return ToSummaryDTO(domain.Summarize(s.catalog, s.registry), us), nil, nil
	})
}

// Manifest returns every pallet with its items plus the unallocated items
func (s *PalletApplicationService) Manifest(ctx context.Context, view View) (*ManifestDTO, error) {
	return inLock(ctx, s, func() (*ManifestDTO, []domain.DomainEvent, error) {
		us, appErr := s.viewUnits(view)
		if appErr != nil {
			return nil, nil, appErr
		}
		return BuildManifest(s.catalog, s.registry, us, time.Now().UTC()), nil, nil
	})
}

// Settings

// Settings returns the display units and default pallet limits
func (s *PalletApplicationService) Settings(ctx context.Context) (*SettingsDTO, error) {
	return inLock(ctx, s, func() (*SettingsDTO, []domain.DomainEvent, error) {
		return ToSettingsDTO(s.display, s.registry.Defaults()), nil, nil
	})
}

// UpdateSettings switches display units and optionally changes the default
// pallet limits. Stored values never change.
func (s *PalletApplicationService) UpdateSettings(ctx context.Context, cmd UpdateSettingsCommand) (*SettingsDTO, error) {
	return inLock(ctx, s, func() (*SettingsDTO, []domain.DomainEvent, error) {
		display, appErr := s.inputUnits(cmd.Units)
		if appErr != nil {
			return nil, nil, appErr
		}

		defaults := s.registry.Defaults()
		if cmd.DefaultMaxWeight > 0 {
			defaults.Weight = display.WeightToCanonical(cmd.DefaultMaxWeight)
		}
		if cmd.DefaultMaxHeight > 0 {
			defaults.Height = display.LengthToCanonical(cmd.DefaultMaxHeight)
		}
		if err := s.registry.SetDefaults(defaults); err != nil {
			return nil, nil, mapDomainError(err)
		}
		s.display = display

		s.logger.Audit(ctx, "update", "settings", "display", map[string]any{
			"lengthUnit":       string(display.Length),
			"weightUnit":       string(display.Weight),
			"defaultMaxWeight": defaults.Weight,
			"defaultMaxHeight": defaults.Height,
		})

		return ToSettingsDTO(s.display, defaults), nil, nil
	})
}

// Restore loads the persisted state. It reports false when nothing was stored,
// which is when startup seeding applies.
func (s *PalletApplicationService) Restore(ctx context.Context) (bool, error) {
	if s.repo == nil {
		return false, nil
	}

	snapshot, err := s.repo.Load(ctx)
	if err != nil {
		return false, err
	}
	if snapshot.IsEmpty() {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog.Restore(snapshot.Items)
	s.registry.Restore(snapshot.Pallets)
	s.boxes.Restore(snapshot.BoxSizes)
	s.refreshGauges()

	s.logger.WithContext(ctx).Info("Restored persisted state",
		"items", len(snapshot.Items),
		"pallets", len(snapshot.Pallets),
		"boxSizes", len(snapshot.BoxSizes),
	)
	return true, nil
}
