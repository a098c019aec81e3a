// server/internal/dispatch/draft.go
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"garment-dispatch-api-server/internal/catalog"
	"garment-dispatch-api-server/internal/models"
)

// BarcodeResolution is what a scan resolves to. When NeedsVariant is
// true the code identified a product but not a full variant; SizeID
// and/or Color are empty and the operator must supply them before a
// line can be staged.
type BarcodeResolution struct {
	ProductID    string `json:"productID"`
	ProductName  string `json:"productName"`
	ProductCode  string `json:"productCode"`
	SizeID       string `json:"sizeID,omitempty"`
	Color        string `json:"color,omitempty"`
	NeedsVariant bool   `json:"needsVariant"`
	Available    int    `json:"availableQuantity"`
}

// BarcodeResolver maps a scanned code to a product/variant within the
// context of a source warehouse.
type BarcodeResolver interface {
	Resolve(ctx context.Context, fromWarehouseID, code string) (BarcodeResolution, error)
}

// DraftLine is one staged (not yet persisted) variant row.
type DraftLine struct {
	ProductID   string `json:"productID"`
	ProductName string `json:"productName"`
	SizeID      string `json:"sizeID"`
	Color       string `json:"color"` // first-seen spelling, for display
	ColorKey    string `json:"-"`     // normalized merge key
	QtySent     int    `json:"qtySent"`
}

type lineKey struct {
	productID string
	sizeID    string
	colorKey  string
}

// Draft accumulates line items for one prospective dispatch order.
// It holds an explicit availability snapshot (no global state) and
// enforces two invariants while lines are staged:
//
//   - merge-by-key: two lines with the same normalized
//     (product, size, color) never coexist; the later add increments
//     the earlier line's quantity;
//   - quantity conservation: the cumulative qtySent per product never
//     exceeds the snapshot's availability.
//
// Lines keep the insertion order of the first occurrence of their
// key. The checks here are optimistic; the order store repeats the
// availability check authoritatively inside Create.
type Draft struct {
	FromWarehouseID string
	ToWarehouseID   string
	Notes           string

	snapshot *catalog.Snapshot
	lines    []DraftLine
	index    map[lineKey]int // key -> position in lines
}

// NewDraft starts an empty draft over a catalog snapshot for the
// snapshot's source warehouse.
func NewDraft(snapshot *catalog.Snapshot) *Draft {
	return &Draft{
		FromWarehouseID: snapshot.FromWarehouseID,
		snapshot:        snapshot,
		index:           map[lineKey]int{},
	}
}

// Refresh swaps in a newer snapshot. Already-staged lines keep their
// admission; the commit-time re-check catches anything the refresh
// would have rejected.
func (d *Draft) Refresh(snapshot *catalog.Snapshot) {
	d.snapshot = snapshot
	d.FromWarehouseID = snapshot.FromWarehouseID
}

// NormalizeColor lower-cases a color name and collapses all
// whitespace, so "  Navy  Blue " and "navy blue" merge into one key.
func NormalizeColor(color string) string {
	return strings.ToLower(strings.Join(strings.Fields(color), " "))
}

// AddLine stages qty units of a variant, merging into an existing
// line when the normalized key already exists.
func (d *Draft) AddLine(productID, sizeID, color string, qty int) error {
	colorKey := NormalizeColor(color)
	if productID == "" || sizeID == "" || colorKey == "" {
		return fmt.Errorf("%w: product, size and color are required", ErrInvalidInput)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	product, ok := d.snapshot.Product(productID)
	if !ok {
		return fmt.Errorf("%w: product %q is not available at warehouse %q", ErrInvalidInput, productID, d.FromWarehouseID)
	}
	if !d.snapshot.HasSize(sizeID) {
		return fmt.Errorf("%w: size %q is not in the catalog", ErrInvalidInput, sizeID)
	}
	available, _ := d.snapshot.Available(productID)
	if staged := d.stagedQty(productID) + qty; staged > available {
		return fmt.Errorf("%w: product %q has %d available, %d requested in total",
			ErrQuantityExceeded, productID, available, staged)
	}

	key := lineKey{productID: productID, sizeID: sizeID, colorKey: colorKey}
	if i, ok := d.index[key]; ok {
		d.lines[i].QtySent += qty
		return nil
	}
	d.index[key] = len(d.lines)
	d.lines = append(d.lines, DraftLine{
		ProductID:   productID,
		ProductName: product.Name,
		SizeID:      sizeID,
		Color:       strings.TrimSpace(color),
		ColorKey:    colorKey,
		QtySent:     qty,
	})
	return nil
}

// AddLineByBarcode resolves a scanned code and stages one unit of the
// resolved variant (operators scan once per physical unit; merging
// keeps repeated scans on a single line). When the code does not
// encode a full variant the resolution is returned together with
// ErrVariantRequired so the caller can prompt the operator and call
// AddLine afterwards.
func (d *Draft) AddLineByBarcode(ctx context.Context, resolver BarcodeResolver, code string) (BarcodeResolution, error) {
	resolution, err := resolver.Resolve(ctx, d.FromWarehouseID, code)
	if err != nil {
		return BarcodeResolution{}, err
	}
	if resolution.NeedsVariant {
		return resolution, fmt.Errorf("%w: code %q", ErrVariantRequired, code)
	}
	if err := d.AddLine(resolution.ProductID, resolution.SizeID, resolution.Color, 1); err != nil {
		return resolution, err
	}
	return resolution, nil
}

// RemoveLine deletes the staged line at position i.
func (d *Draft) RemoveLine(i int) error {
	if i < 0 || i >= len(d.lines) {
		return fmt.Errorf("%w: line index %d out of range", ErrInvalidInput, i)
	}
	removed := d.lines[i]
	delete(d.index, lineKey{productID: removed.ProductID, sizeID: removed.SizeID, colorKey: removed.ColorKey})
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	for pos := i; pos < len(d.lines); pos++ {
		line := d.lines[pos]
		d.index[lineKey{productID: line.ProductID, sizeID: line.SizeID, colorKey: line.ColorKey}] = pos
	}
	return nil
}

// Lines returns the staged lines in insertion order.
func (d *Draft) Lines() []DraftLine {
	out := make([]DraftLine, len(d.lines))
	copy(out, d.lines)
	return out
}

// Validate checks the submit preconditions without committing.
func (d *Draft) Validate() error {
	if d.FromWarehouseID == "" || d.ToWarehouseID == "" {
		return fmt.Errorf("%w: both warehouses must be set", ErrInvalidOrder)
	}
	if d.FromWarehouseID == d.ToWarehouseID {
		return fmt.Errorf("%w: source and destination warehouse must differ", ErrInvalidOrder)
	}
	if len(d.lines) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrInvalidOrder)
	}
	return nil
}

// Submit durably creates a PENDING dispatch order from the staged
// lines and clears the draft. Availability is re-validated inside the
// store's transaction; a stale snapshot surfaces as
// ErrConcurrentModification and leaves the draft intact for retry.
func (d *Draft) Submit(ctx context.Context, store *Store, createdBy string) (*models.DispatchOrder, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	order, err := store.Create(ctx, d, createdBy)
	if err != nil {
		return nil, err
	}
	d.lines = nil
	d.index = map[lineKey]int{}
	d.Notes = ""
	return order, nil
}

func (d *Draft) stagedQty(productID string) int {
	total := 0
	for _, line := range d.lines {
		if line.ProductID == productID {
			total += line.QtySent
		}
	}
	return total
}

// productTotals sums qtySent per product across all staged lines.
// The store reserves these totals atomically at commit.
func (d *Draft) productTotals() map[string]int {
	totals := map[string]int{}
	for _, line := range d.lines {
		totals[line.ProductID] += line.QtySent
	}
	return totals
}
