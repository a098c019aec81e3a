// server/internal/models/dispatch_order.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dispatch order lifecycle. PENDING is the only non-terminal state:
// it can move to CONFIRMED or MISMATCH (via reconciliation) or to
// CANCELLED (explicit cancel). Everything else is terminal.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusMismatch  = "MISMATCH"
	OrderStatusCancelled = "CANCELLED"
)

// OrderLine is one variant row of a dispatch order. ColorKey is the
// normalized (lower-case, whitespace-collapsed) form used for
// merge-by-key uniqueness; Color keeps the spelling the operator
// entered first, for display. QtyReceived stays nil until the
// receiving side reports that line.
type OrderLine struct {
	LineID      string `bson:"lineID" json:"lineID"`
	ProductID   string `bson:"productID" json:"productID"`
	ProductName string `bson:"productName" json:"productName"`
	SizeID      string `bson:"sizeID" json:"sizeID"`
	Color       string `bson:"color" json:"color"`
	ColorKey    string `bson:"colorKey" json:"colorKey"`
	QtySent     int    `bson:"qtySent" json:"qtySent"`
	QtyReceived *int   `bson:"qtyReceived,omitempty" json:"qtyReceived"`
}

type DispatchOrder struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID         string             `bson:"orderID" json:"orderID"`
	Code            string             `bson:"code" json:"code"` // Monotonic, e.g., "DO-000042"
	FromWarehouseID string             `bson:"fromWarehouseID" json:"fromWarehouseID"`
	ToWarehouseID   string             `bson:"toWarehouseID" json:"toWarehouseID"`
	Status          string             `bson:"status" json:"status"`
	Notes           string             `bson:"notes,omitempty" json:"notes"`
	Lines           []OrderLine        `bson:"lines" json:"lines"`
	CreatedBy       string             `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	ConfirmedBy     string             `bson:"confirmedBy,omitempty" json:"confirmedBy,omitempty"`
	ConfirmedAt     *time.Time         `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`

	// Two-phase cancel: RequestCancel stamps a short-lived token,
	// ConfirmCancel consumes it. Never exposed over JSON.
	CancelToken          string     `bson:"cancelToken,omitempty" json:"-"`
	CancelTokenExpiresAt *time.Time `bson:"cancelTokenExpiresAt,omitempty" json:"-"`

	ReceiptPhotos []MediaPointer `bson:"receiptPhotos,omitempty" json:"receiptPhotos,omitempty"`
}

// OrderSummary is the list projection: header fields plus totals, no
// line detail.
type OrderSummary struct {
	OrderID          string    `json:"orderID"`
	Code             string    `json:"code"`
	FromWarehouseID  string    `json:"fromWarehouseID"`
	ToWarehouseID    string    `json:"toWarehouseID"`
	Status           string    `json:"status"`
	LineCount        int       `json:"lineCount"`
	TotalQtySent     int       `json:"totalQtySent"`
	TotalQtyReceived int       `json:"totalQtyReceived"`
	FullyReported    bool      `json:"fullyReported"`
	CreatedBy        string    `json:"createdBy"`
	CreatedAt        time.Time `json:"createdAt"`
}
