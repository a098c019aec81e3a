package catalog

import (
	"testing"

	"garment-dispatch-api-server/internal/models"

	"github.com/stretchr/testify/require"
)

func TestSnapshotLookups(t *testing.T) {
	snapshot := NewSnapshot("wh-central",
		[]ProductAvailability{
			{ProductID: "prod-tshirt", Name: "Basic T-Shirt", Code: "TSHIRT-001", Available: 5},
		},
		[]models.Size{{SizeID: "size-m", Name: "Medium", Code: "M"}},
		nil,
	)

	product, ok := snapshot.Product("prod-tshirt")
	require.True(t, ok)
	require.Equal(t, "Basic T-Shirt", product.Name)

	available, ok := snapshot.Available("prod-tshirt")
	require.True(t, ok)
	require.Equal(t, 5, available)

	_, ok = snapshot.Available("prod-unknown")
	require.False(t, ok)

	require.True(t, snapshot.HasSize("size-m"))
	require.False(t, snapshot.HasSize("size-xxl"))
}
