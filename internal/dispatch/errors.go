// server/internal/dispatch/errors.go
package dispatch

import "errors"

// Error taxonomy of the dispatch engine. Every failure an operation
// can return wraps exactly one of these sentinels, so callers (the
// HTTP layer in particular) discriminate with errors.Is. A failed
// operation never leaves a partial write behind, and the engine never
// retries on its own; re-fetching a fresh snapshot after
// ErrConcurrentModification is the caller's job.
var (
	// ErrInvalidInput: malformed or missing required fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrQuantityExceeded: staging the quantity would push the
	// product's cumulative qtySent past the availability snapshot.
	ErrQuantityExceeded = errors.New("quantity exceeds available stock")

	// ErrBarcodeNotFound: the scanned code resolves to nothing.
	ErrBarcodeNotFound = errors.New("barcode not found")

	// ErrVariantRequired: the barcode identifies a product but not a
	// full (size, color) variant; the operator must be prompted.
	ErrVariantRequired = errors.New("barcode requires size and color")

	// ErrInvalidOrder: submit preconditions unmet (warehouses not
	// set, equal warehouses, or an empty line collection).
	ErrInvalidOrder = errors.New("order is not submittable")

	// ErrInvalidTransition: the requested status change is not legal
	// from the order's current status. Usually a stale client view.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConcurrentModification: the availability snapshot went stale
	// between draft build and commit; the whole submission was
	// rejected atomically.
	ErrConcurrentModification = errors.New("stock changed concurrently, retry with a fresh snapshot")

	// ErrNotFound: unknown order or line id.
	ErrNotFound = errors.New("not found")
)
