// server/internal/dispatch/reconcile.go
package dispatch

import "garment-dispatch-api-server/internal/models"

// Reconcile computes an order's post-receipt status from its lines.
// It is a pure function: the same lines always yield the same result,
// no matter how often it runs.
//
// An order can only be reconciled once every line has a reported
// received quantity; until then fullyReported is false and status is
// empty. With full reporting the status is CONFIRMED when every line
// received exactly what was sent, MISMATCH otherwise. A mismatch is
// never auto-corrected here; what happens next (re-dispatch,
// write-off) is a business process outside this engine.
func Reconcile(lines []models.OrderLine) (status string, fullyReported bool) {
	matched := true
	for _, line := range lines {
		if line.QtyReceived == nil {
			return "", false
		}
		if *line.QtyReceived != line.QtySent {
			matched = false
		}
	}
	if matched {
		return models.OrderStatusConfirmed, true
	}
	return models.OrderStatusMismatch, true
}
