// server/internal/catalog/catalog.go
package catalog

import (
	"context"
	"fmt"
	"time"

	"garment-dispatch-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProductAvailability is one product as the draft builder sees it:
// master data plus how many units the source warehouse can still
// dispatch (available minus reserved) at the time the snapshot was
// taken.
type ProductAvailability struct {
	ProductID string `json:"productID"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Available int    `json:"availableQuantity"`
}

// Snapshot is a read-only view of the variant catalog for one source
// warehouse. It is taken once, handed to the draft builder
// explicitly, and may go stale; the order store re-validates
// availability at commit time, so a stale snapshot can only cause a
// rejected submission, never an over-commit.
type Snapshot struct {
	FromWarehouseID string
	TakenAt         time.Time
	Products        []ProductAvailability
	Sizes           []models.Size
	Colors          []models.Color

	byProduct map[string]ProductAvailability
}

// NewSnapshot builds a snapshot from already-loaded data. Used by
// Catalog.Take and directly by tests.
func NewSnapshot(fromWarehouseID string, products []ProductAvailability, sizes []models.Size, colors []models.Color) *Snapshot {
	byProduct := make(map[string]ProductAvailability, len(products))
	for _, p := range products {
		byProduct[p.ProductID] = p
	}
	return &Snapshot{
		FromWarehouseID: fromWarehouseID,
		TakenAt:         time.Now(),
		Products:        products,
		Sizes:           sizes,
		Colors:          colors,
		byProduct:       byProduct,
	}
}

// Product looks a product up by ID.
func (s *Snapshot) Product(productID string) (ProductAvailability, bool) {
	p, ok := s.byProduct[productID]
	return p, ok
}

// Available returns the snapshot availability for a product. The
// second return is false when the product is not in the snapshot at
// all (not stocked at the source warehouse).
func (s *Snapshot) Available(productID string) (int, bool) {
	p, ok := s.byProduct[productID]
	return p.Available, ok
}

// HasSize reports whether a size ID exists in the catalog.
func (s *Snapshot) HasSize(sizeID string) bool {
	for _, size := range s.Sizes {
		if size.SizeID == sizeID {
			return true
		}
	}
	return false
}

// Catalog reads the variant catalog collections. It never writes
// them; master data and physical stock are owned by the inventory
// side.
type Catalog struct {
	DB *mongo.Database
}

// Take reads a fresh snapshot for one source warehouse.
func (c *Catalog) Take(ctx context.Context, fromWarehouseID string) (*Snapshot, error) {
	levels := map[string]models.StockLevel{}
	cursor, err := c.DB.Collection("stock_levels").Find(ctx, bson.M{"warehouseID": fromWarehouseID})
	if err != nil {
		return nil, fmt.Errorf("query stock levels: %w", err)
	}
	var stockLevels []models.StockLevel
	if err := cursor.All(ctx, &stockLevels); err != nil {
		return nil, fmt.Errorf("decode stock levels: %w", err)
	}
	for _, level := range stockLevels {
		levels[level.ProductID] = level
	}

	cursor, err = c.DB.Collection("products").Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	var productDocs []models.Product
	if err := cursor.All(ctx, &productDocs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := []ProductAvailability{}
	for _, p := range productDocs {
		level, ok := levels[p.ProductID]
		if !ok {
			continue // not stocked at this warehouse
		}
		available := level.Available - level.Reserved
		if available < 0 {
			available = 0
		}
		products = append(products, ProductAvailability{
			ProductID: p.ProductID,
			Name:      p.Name,
			Code:      p.Code,
			Available: available,
		})
	}

	sizes, err := c.Sizes(ctx)
	if err != nil {
		return nil, err
	}
	colors, err := c.Colors(ctx)
	if err != nil {
		return nil, err
	}

	return NewSnapshot(fromWarehouseID, products, sizes, colors), nil
}

// Warehouses lists all warehouses.
func (c *Catalog) Warehouses(ctx context.Context) ([]models.Warehouse, error) {
	cursor, err := c.DB.Collection("warehouses").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("query warehouses: %w", err)
	}
	var warehouses []models.Warehouse
	if err := cursor.All(ctx, &warehouses); err != nil {
		return nil, fmt.Errorf("decode warehouses: %w", err)
	}
	if warehouses == nil {
		warehouses = []models.Warehouse{}
	}
	return warehouses, nil
}

// Sizes lists all sizes.
func (c *Catalog) Sizes(ctx context.Context) ([]models.Size, error) {
	cursor, err := c.DB.Collection("sizes").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("query sizes: %w", err)
	}
	var sizes []models.Size
	if err := cursor.All(ctx, &sizes); err != nil {
		return nil, fmt.Errorf("decode sizes: %w", err)
	}
	if sizes == nil {
		sizes = []models.Size{}
	}
	return sizes, nil
}

// Colors lists all color suggestions.
func (c *Catalog) Colors(ctx context.Context) ([]models.Color, error) {
	cursor, err := c.DB.Collection("colors").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("query colors: %w", err)
	}
	var colors []models.Color
	if err := cursor.All(ctx, &colors); err != nil {
		return nil, fmt.Errorf("decode colors: %w", err)
	}
	if colors == nil {
		colors = []models.Color{}
	}
	return colors, nil
}
