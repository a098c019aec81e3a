package dispatch

import (
	"testing"

	"garment-dispatch-api-server/internal/models"

	"github.com/stretchr/testify/require"
)

func testOrderLines() []models.OrderLine {
	return []models.OrderLine{
		{LineID: "l1", ProductID: "prod-tshirt", QtySent: 4},
		{LineID: "l2", ProductID: "prod-hoodie", QtySent: 2},
	}
}

func TestGuardPendingBlocksTerminalStates(t *testing.T) {
	for _, status := range []string{
		models.OrderStatusConfirmed,
		models.OrderStatusMismatch,
		models.OrderStatusCancelled,
	} {
		order := &models.DispatchOrder{Code: "DO-000001", Status: status}
		err := guardPending(order, "cancel")
		require.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
	}

	order := &models.DispatchOrder{Code: "DO-000001", Status: models.OrderStatusPending}
	require.NoError(t, guardPending(order, "cancel"))
}

func TestApplyReceiptsStoresQuantities(t *testing.T) {
	lines, err := applyReceipts(testOrderLines(), []Receipt{
		{LineID: "l1", QtyReceived: 4},
	}, false, "DO-000001")
	require.NoError(t, err)

	require.Equal(t, 4, *lines[0].QtyReceived)
	require.Nil(t, lines[1].QtyReceived) // unreported stays open

	status, fullyReported := Reconcile(lines)
	require.False(t, fullyReported)
	require.Empty(t, status)
}

func TestApplyReceiptsOverwritesEarlierReport(t *testing.T) {
	lines, err := applyReceipts(testOrderLines(), []Receipt{
		{LineID: "l1", QtyReceived: 3},
	}, false, "DO-000001")
	require.NoError(t, err)

	lines, err = applyReceipts(lines, []Receipt{
		{LineID: "l1", QtyReceived: 4},
		{LineID: "l2", QtyReceived: 2},
	}, false, "DO-000001")
	require.NoError(t, err)

	require.Equal(t, 4, *lines[0].QtyReceived)
	require.Equal(t, 2, *lines[1].QtyReceived)

	status, fullyReported := Reconcile(lines)
	require.True(t, fullyReported)
	require.Equal(t, models.OrderStatusConfirmed, status)
}

func TestApplyReceiptsFinalZeroFills(t *testing.T) {
	lines, err := applyReceipts(testOrderLines(), []Receipt{
		{LineID: "l1", QtyReceived: 4},
	}, true, "DO-000001")
	require.NoError(t, err)

	require.Equal(t, 4, *lines[0].QtyReceived)
	require.Equal(t, 0, *lines[1].QtyReceived)

	// Zero against qtySent=2 reconciles as a mismatch.
	status, fullyReported := Reconcile(lines)
	require.True(t, fullyReported)
	require.Equal(t, models.OrderStatusMismatch, status)
}

func TestApplyReceiptsUnknownLine(t *testing.T) {
	original := testOrderLines()
	_, err := applyReceipts(original, []Receipt{
		{LineID: "l1", QtyReceived: 4},
		{LineID: "l9", QtyReceived: 1},
	}, false, "DO-000001")
	require.ErrorIs(t, err, ErrInvalidInput)

	// The failed call left the input untouched.
	require.Nil(t, original[0].QtyReceived)
	require.Nil(t, original[1].QtyReceived)
}

func TestApplyReceiptsNegativeQuantity(t *testing.T) {
	original := testOrderLines()
	_, err := applyReceipts(original, []Receipt{
		{LineID: "l2", QtyReceived: -1},
	}, false, "DO-000001")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Nil(t, original[1].QtyReceived)
}
