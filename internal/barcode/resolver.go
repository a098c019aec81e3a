// server/internal/barcode/resolver.go
package barcode

import (
	"context"
	"errors"
	"fmt"

	"garment-dispatch-api-server/internal/dispatch"
	"garment-dispatch-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Resolver maps scanned codes to products/variants via the barcodes
// collection. It satisfies dispatch.BarcodeResolver.
type Resolver struct {
	DB *mongo.Database
}

func NewResolver(db *mongo.Database) *Resolver {
	return &Resolver{DB: db}
}

// Resolve looks a scanned code up for one source warehouse. An
// unknown code is an explicit ErrBarcodeNotFound, never a zero-value
// variant. Codes that only identify the product come back with
// NeedsVariant set so the caller can prompt for size and color.
func (r *Resolver) Resolve(ctx context.Context, fromWarehouseID, code string) (dispatch.BarcodeResolution, error) {
	if code == "" {
		return dispatch.BarcodeResolution{}, fmt.Errorf("%w: code is required", dispatch.ErrInvalidInput)
	}

	var entry models.Barcode
	err := r.DB.Collection("barcodes").FindOne(ctx, bson.M{"code": code}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dispatch.BarcodeResolution{}, fmt.Errorf("%w: %q", dispatch.ErrBarcodeNotFound, code)
		}
		return dispatch.BarcodeResolution{}, fmt.Errorf("lookup barcode: %w", err)
	}

	var product models.Product
	err = r.DB.Collection("products").FindOne(ctx, bson.M{"productID": entry.ProductID, "active": true}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// The barcode table points at a product that is gone or
			// deactivated; treat the scan as unresolvable.
			return dispatch.BarcodeResolution{}, fmt.Errorf("%w: %q", dispatch.ErrBarcodeNotFound, code)
		}
		return dispatch.BarcodeResolution{}, fmt.Errorf("lookup product for barcode: %w", err)
	}

	available := 0
	var level models.StockLevel
	err = r.DB.Collection("stock_levels").FindOne(ctx,
		bson.M{"warehouseID": fromWarehouseID, "productID": entry.ProductID}).Decode(&level)
	if err == nil {
		available = level.Available - level.Reserved
		if available < 0 {
			available = 0
		}
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return dispatch.BarcodeResolution{}, fmt.Errorf("lookup stock level for barcode: %w", err)
	}

	return Resolution(entry, product, available), nil
}

// Resolution assembles the resolver's answer from a barcode entry,
// its product, and the effective availability. Split out so the
// needs-variant decision is testable without a database.
func Resolution(entry models.Barcode, product models.Product, available int) dispatch.BarcodeResolution {
	return dispatch.BarcodeResolution{
		ProductID:    product.ProductID,
		ProductName:  product.Name,
		ProductCode:  product.Code,
		SizeID:       entry.SizeID,
		Color:        entry.Color,
		NeedsVariant: entry.SizeID == "" || entry.Color == "",
		Available:    available,
	}
}
