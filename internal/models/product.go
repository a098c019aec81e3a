// server/internal/models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID string             `bson:"productID" json:"productID"`
	Name      string             `bson:"name" json:"name"`
	Code      string             `bson:"code" json:"code"` // SKU-style code, e.g., "TSHIRT-001"
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Size struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SizeID string             `bson:"sizeID" json:"sizeID"`
	Name   string             `bson:"name" json:"name"` // e.g., "Medium"
	Code   string             `bson:"code" json:"code"` // e.g., "M"
}

// Color is master data offered as a suggestion list only. Line items
// carry color as a free-form normalized string, not a reference to
// this collection.
type Color struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ColorID string             `bson:"colorID" json:"colorID"`
	Name    string             `bson:"name" json:"name"`
	Code    string             `bson:"code" json:"code"`
}

// StockLevel tracks how many units of a product one warehouse can
// still dispatch. "reserved" is the total qtySent committed by
// PENDING dispatch orders from this warehouse; the effective
// availability is available - reserved. The physical decrement of
// "available" happens on the fulfillment side once an order is
// confirmed.
type StockLevel struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WarehouseID string             `bson:"warehouseID" json:"warehouseID"`
	ProductID   string             `bson:"productID" json:"productID"`
	Available   int                `bson:"available" json:"available"`
	Reserved    int                `bson:"reserved" json:"reserved"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Barcode maps a scanned code to a product and, optionally, to a full
// variant. When sizeID or color is empty the scan cannot identify the
// variant on its own and the operator has to be asked.
type Barcode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code      string             `bson:"code" json:"code"`
	ProductID string             `bson:"productID" json:"productID"`
	SizeID    string             `bson:"sizeID,omitempty" json:"sizeID,omitempty"`
	Color     string             `bson:"color,omitempty" json:"color,omitempty"`
}
