// server/internal/models/warehouse.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Warehouse struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WarehouseID string             `bson:"warehouseID" json:"warehouseID"` // User-friendly unique ID, e.g., "wh-central"
	Name        string             `bson:"name" json:"name"`               // e.g., "Central Distribution Warehouse"
	Status      string             `bson:"status" json:"status"`           // e.g., "ACTIVE", "INACTIVE"
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
