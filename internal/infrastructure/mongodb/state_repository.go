package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/pallet-service/internal/domain"
	pkgmongo "github.com/wms-platform/pallet-service/pkg/mongodb"
)

// Collection names
const (
	ItemsCollection    = "packing_items"
	PalletsCollection  = "pallets"
	BoxSizesCollection = "box_sizes"
)

// collection is the subset of pkg/mongodb.InstrumentedCollection the repository uses
type collection interface {
	Find(ctx context.Context, filter interface{}, results interface{}, opts ...*options.FindOptions) error
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
	CreateIndexes(ctx context.Context, models []mongo.IndexModel) ([]string, error)
}

// StateRepository persists the catalog, the registry and the box sizes.
// Each document keeps its sequence so Load restores insertion order.
type StateRepository struct {
	items    collection
	pallets  collection
	boxSizes collection
}

// NewStateRepository creates the repository on an instrumented client
func NewStateRepository(client *pkgmongo.InstrumentedClient) *StateRepository {
	return newStateRepository(
		client.Collection(ItemsCollection),
		client.Collection(PalletsCollection),
		client.Collection(BoxSizesCollection),
	)
}

func newStateRepository(items, pallets, boxSizes collection) *StateRepository {
	return &StateRepository{
		items:    items,
		pallets:  pallets,
		boxSizes: boxSizes,
	}
}

// EnsureIndexes creates the lookup and ordering indexes
func (r *StateRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	itemIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "itemId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "sequence", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "sku", Value: 1}}},
	}
	if _, err := r.items.CreateIndexes(ctx, itemIndexes); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", ItemsCollection, err)
	}

	palletIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "palletId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "sequence", Value: 1}}},
	}
	if _, err := r.pallets.CreateIndexes(ctx, palletIndexes); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", PalletsCollection, err)
	}

	boxIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "boxSizeId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "sequence", Value: 1}}},
	}
	if _, err := r.boxSizes.CreateIndexes(ctx, boxIndexes); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", BoxSizesCollection, err)
	}
	return nil
}

// SaveItems upserts items. More than one item goes out as a single bulk write.
func (r *StateRepository) SaveItems(ctx context.Context, items ...*domain.PackingItem) error {
	switch len(items) {
	case 0:
		return nil
	case 1:
		_, err := r.items.ReplaceOne(ctx, bson.M{"itemId": items[0].ItemID}, items[0], options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed to save item %s: %w", items[0].ItemID, err)
		}
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"itemId": item.ItemID}).
			SetReplacement(item).
			SetUpsert(true))
	}
	if _, err := r.items.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to save %d items: %w", len(items), err)
	}
	return nil
}

// DeleteItem removes an item document
func (r *StateRepository) DeleteItem(ctx context.Context, itemID string) error {
	if _, err := r.items.DeleteOne(ctx, bson.M{"itemId": itemID}); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", itemID, err)
	}
	return nil
}

// SavePallets upserts pallets
func (r *StateRepository) SavePallets(ctx context.Context, pallets ...*domain.Pallet) error {
	switch len(pallets) {
	case 0:
		return nil
	case 1:
		_, err := r.pallets.ReplaceOne(ctx, bson.M{"palletId": pallets[0].PalletID}, pallets[0], options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed to save pallet %s: %w", pallets[0].PalletID, err)
		}
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(pallets))
	for _, p := range pallets {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"palletId": p.PalletID}).
			SetReplacement(p).
			SetUpsert(true))
	}
	if _, err := r.pallets.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to save %d pallets: %w", len(pallets), err)
	}
	return nil
}

// DeletePallet removes a pallet document
func (r *StateRepository) DeletePallet(ctx context.Context, palletID string) error {
	if _, err := r.pallets.DeleteOne(ctx, bson.M{"palletId": palletID}); err != nil {
		return fmt.Errorf("failed to delete pallet %s: %w", palletID, err)
	}
	return nil
}

// SaveBoxSize upserts a box size
func (r *StateRepository) SaveBoxSize(ctx context.Context, box *domain.BoxSize) error {
	_, err := r.boxSizes.ReplaceOne(ctx, bson.M{"boxSizeId": box.BoxSizeID}, box, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save box size %s: %w", box.BoxSizeID, err)
	}
	return nil
}

// DeleteBoxSize removes a box size document
func (r *StateRepository) DeleteBoxSize(ctx context.Context, boxSizeID string) error {
	if _, err := r.boxSizes.DeleteOne(ctx, bson.M{"boxSizeId": boxSizeID}); err != nil {
		return fmt.Errorf("failed to delete box size %s: %w", boxSizeID, err)
	}
	return nil
}

// Load reads everything back in insertion order
func (r *StateRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	bySequence := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})

	snapshot := &domain.Snapshot{}
	if err := r.items.Find(ctx, bson.M{}, &snapshot.Items, bySequence); err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	if err := r.pallets.Find(ctx, bson.M{}, &snapshot.Pallets, bySequence); err != nil {
		return nil, fmt.Errorf("failed to load pallets: %w", err)
	}
	if err := r.boxSizes.Find(ctx, bson.M{}, &snapshot.BoxSizes, bySequence); err != nil {
		return nil, fmt.Errorf("failed to load box sizes: %w", err)
	}
	return snapshot, nil
}

var _ domain.StateRepository = (*StateRepository)(nil)
