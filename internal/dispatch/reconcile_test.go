package dispatch

import (
	"testing"

	"garment-dispatch-api-server/internal/models"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestReconcileConfirmed(t *testing.T) {
	lines := []models.OrderLine{
		{LineID: "l1", QtySent: 4, QtyReceived: intPtr(4)},
		{LineID: "l2", QtySent: 2, QtyReceived: intPtr(2)},
	}

	status, fullyReported := Reconcile(lines)
	require.True(t, fullyReported)
	require.Equal(t, models.OrderStatusConfirmed, status)
}

func TestReconcileMismatch(t *testing.T) {
	lines := []models.OrderLine{
		{LineID: "l1", QtySent: 4, QtyReceived: intPtr(4)},
		{LineID: "l2", QtySent: 2, QtyReceived: intPtr(1)},
	}

	status, fullyReported := Reconcile(lines)
	require.True(t, fullyReported)
	require.Equal(t, models.OrderStatusMismatch, status)
}

func TestReconcileOverReceiptIsMismatch(t *testing.T) {
	lines := []models.OrderLine{
		{LineID: "l1", QtySent: 4, QtyReceived: intPtr(5)},
	}

	status, _ := Reconcile(lines)
	require.Equal(t, models.OrderStatusMismatch, status)
}

func TestReconcileUnreportedLineBlocks(t *testing.T) {
	lines := []models.OrderLine{
		{LineID: "l1", QtySent: 4, QtyReceived: intPtr(4)},
		{LineID: "l2", QtySent: 2}, // never reported
	}

	status, fullyReported := Reconcile(lines)
	require.False(t, fullyReported)
	require.Empty(t, status)
}

func TestReconcileIsIdempotent(t *testing.T) {
	lines := []models.OrderLine{
		{LineID: "l1", QtySent: 4, QtyReceived: intPtr(4)},
		{LineID: "l2", QtySent: 2, QtyReceived: intPtr(1)},
	}

	first, _ := Reconcile(lines)
	second, _ := Reconcile(lines)
	require.Equal(t, first, second)
}

func TestReconcileEmptyOrderConfirms(t *testing.T) {
	// An order cannot be created without lines; if one ever shows up,
	// nothing mismatched.
	status, fullyReported := Reconcile(nil)
	require.True(t, fullyReported)
	require.Equal(t, models.OrderStatusConfirmed, status)
}
