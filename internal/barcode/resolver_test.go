package barcode

import (
	"testing"

	"garment-dispatch-api-server/internal/models"

	"github.com/stretchr/testify/require"
)

func TestResolutionFullVariant(t *testing.T) {
	entry := models.Barcode{Code: "8930001000017", ProductID: "prod-tshirt", SizeID: "size-m", Color: "Black"}
	product := models.Product{ProductID: "prod-tshirt", Name: "Basic T-Shirt", Code: "TSHIRT-001"}

	resolution := Resolution(entry, product, 12)
	require.False(t, resolution.NeedsVariant)
	require.Equal(t, "prod-tshirt", resolution.ProductID)
	require.Equal(t, "size-m", resolution.SizeID)
	require.Equal(t, "Black", resolution.Color)
	require.Equal(t, 12, resolution.Available)
}

func TestResolutionNeedsVariant(t *testing.T) {
	product := models.Product{ProductID: "prod-hoodie", Name: "Zip Hoodie", Code: "HOODIE-001"}

	// No size, no color.
	resolution := Resolution(models.Barcode{Code: "c1", ProductID: "prod-hoodie"}, product, 3)
	require.True(t, resolution.NeedsVariant)

	// Size only.
	resolution = Resolution(models.Barcode{Code: "c2", ProductID: "prod-hoodie", SizeID: "size-m"}, product, 3)
	require.True(t, resolution.NeedsVariant)

	// Color only.
	resolution = Resolution(models.Barcode{Code: "c3", ProductID: "prod-hoodie", Color: "Black"}, product, 3)
	require.True(t, resolution.NeedsVariant)
}
