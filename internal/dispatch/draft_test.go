package dispatch

import (
	"testing"

	"garment-dispatch-api-server/internal/catalog"
	"garment-dispatch-api-server/internal/models"

	"github.com/stretchr/testify/require"
)

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot("wh-central",
		[]catalog.ProductAvailability{
			{ProductID: "prod-tshirt", Name: "Basic T-Shirt", Code: "TSHIRT-001", Available: 5},
			{ProductID: "prod-hoodie", Name: "Zip Hoodie", Code: "HOODIE-001", Available: 10},
		},
		[]models.Size{
			{SizeID: "size-m", Name: "Medium", Code: "M"},
			{SizeID: "size-l", Name: "Large", Code: "L"},
		},
		[]models.Color{
			{ColorID: "color-red", Name: "Red", Code: "RED"},
		},
	)
}

func TestAddLineMergesSameVariant(t *testing.T) {
	draft := NewDraft(testSnapshot())

	require.NoError(t, draft.AddLine("prod-tshirt", "size-m", "Red", 3))
	require.NoError(t, draft.AddLine("prod-tshirt", "size-m", "red", 2)) // case-insensitive merge

	lines := draft.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 5, lines[0].QtySent)
	require.Equal(t, "Red", lines[0].Color) // first-seen spelling wins

	// Availability is now exhausted; one more unit must fail.
	err := draft.AddLine("prod-tshirt", "size-m", "Red", 1)
	require.ErrorIs(t, err, ErrQuantityExceeded)
	require.Equal(t, 5, draft.Lines()[0].QtySent) // never partially applied
}

func TestAddLineNormalizesWhitespace(t *testing.T) {
	draft := NewDraft(testSnapshot())

	require.NoError(t, draft.AddLine("prod-hoodie", "size-m", "  Navy  Blue ", 1))
	require.NoError(t, draft.AddLine("prod-hoodie", "size-m", "navy blue", 2))

	lines := draft.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 3, lines[0].QtySent)
	require.Equal(t, "Navy  Blue", lines[0].Color)
}

func TestAddLineDistinctVariantsStayDistinct(t *testing.T) {
	draft := NewDraft(testSnapshot())

	require.NoError(t, draft.AddLine("prod-tshirt", "size-m", "Red", 1))
	require.NoError(t, draft.AddLine("prod-tshirt", "size-l", "Red", 1))
	require.NoError(t, draft.AddLine("prod-tshirt", "size-m", "Blue", 1))

	lines := draft.Lines()
	require.Len(t, lines, 3)
	// Insertion order of first occurrence is preserved.
	require.Equal(t, "size-m", lines[0].SizeID)
	require.Equal(t, "size-l", lines[1].SizeID)
	require.Equal(t, "Blue", lines[2].Color)
}

func TestAddLineAvailabilitySpansVariants(t *testing.T) {
	draft := NewDraft(testSnapshot())

	// 5 available in total for the product, regardless of variant.
	require.NoError(t, draft.AddLine("prod-tshirt", "size-m", "Red", 3))
	require.NoError(t, draft.AddLine("prod-tshirt", "size-l", "Blue", 2))

	err := draft.AddLine("prod-tshirt", "size-m", "Green", 1)
	require.ErrorIs(t, err, ErrQuantityExceeded)
	require.Len(t, draft.Lines(), 2)
}

func TestAddLineValidation(t *testing.T) {
	draft := NewDraft(testSnapshot())

	require.ErrorIs(t, draft.AddLine("", "size-m", "Red", 1), ErrInvalidInput)
	require.ErrorIs(t, draft.AddLine("prod-tshirt", "", "Red", 1), ErrInvalidInput)
	require.ErrorIs(t, draft.AddLine("prod-tshirt", "size-m", "   ", 1), ErrInvalidInput)
	require.ErrorIs(t, draft.AddLine("prod-tshirt", "size-m", "Red", 0), ErrInvalidInput)
	require.ErrorIs(t, draft.AddLine("prod-tshirt", "size-m", "Red", -2), ErrInvalidInput)

	// Unknown product: not stocked at the source warehouse.
	require.ErrorIs(t, draft.AddLine("prod-unknown", "size-m", "Red", 1), ErrInvalidInput)

	// Unknown size: not in the catalog.
	require.ErrorIs(t, draft.AddLine("prod-tshirt", "size-xxl", "Red", 1), ErrInvalidInput)

	require.Empty(t, draft.Lines())
}

func TestRemoveLine(t *testing.T) {
	draft := NewDraft(testSnapshot())
	require.NoError(t, draft.AddLine("prod-tshirt", "size-m", "Red", 2))
	require.NoError(t, draft.AddLine("prod-hoodie", "size-l", "Black", 1))

	require.ErrorIs(t, draft.RemoveLine(-1), ErrInvalidInput)
	require.ErrorIs(t, draft.RemoveLine(2), ErrInvalidInput)

	require.NoError(t, draft.RemoveLine(0))
	lines := draft.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, "prod-hoodie", lines[0].ProductID)

	// The removed key is free again, and so is its quantity.
	require.NoError(t, draft.AddLine("prod-tshirt", "size-m", "Red", 5))
}

func TestRemoveLineReindexes(t *testing.T) {
	draft := NewDraft(testSnapshot())
	require.NoError(t, draft.AddLine("prod-tshirt", "size-m", "Red", 1))
	require.NoError(t, draft.AddLine("prod-tshirt", "size-l", "Red", 1))
	require.NoError(t, draft.AddLine("prod-hoodie", "size-m", "Black", 1))

	require.NoError(t, draft.RemoveLine(0))

	// Merging into the shifted lines still works.
	require.NoError(t, draft.AddLine("prod-hoodie", "size-m", "Black", 2))
	lines := draft.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, 3, lines[1].QtySent)
}

func TestValidateSubmitPreconditions(t *testing.T) {
	draft := NewDraft(testSnapshot())

	// No destination, no lines.
	require.ErrorIs(t, draft.Validate(), ErrInvalidOrder)

	draft.ToWarehouseID = "wh-central" // same as source
	require.NoError(t, draft.AddLine("prod-tshirt", "size-m", "Red", 1))
	require.ErrorIs(t, draft.Validate(), ErrInvalidOrder)

	draft.ToWarehouseID = "wh-north"
	require.NoError(t, draft.Validate())
}

func TestRefreshKeepsStagedLines(t *testing.T) {
	draft := NewDraft(testSnapshot())
	require.NoError(t, draft.AddLine("prod-tshirt", "size-m", "Red", 4))

	// Stock dropped to 2 in the meantime; the staged line survives,
	// only new additions see the fresh numbers.
	draft.Refresh(catalog.NewSnapshot("wh-central",
		[]catalog.ProductAvailability{
			{ProductID: "prod-tshirt", Name: "Basic T-Shirt", Code: "TSHIRT-001", Available: 2},
		},
		[]models.Size{{SizeID: "size-l", Name: "Large", Code: "L"}},
		nil))

	require.Len(t, draft.Lines(), 1)
	require.ErrorIs(t, draft.AddLine("prod-tshirt", "size-l", "Red", 1), ErrQuantityExceeded)
}

func TestNormalizeColor(t *testing.T) {
	require.Equal(t, "red", NormalizeColor("Red"))
	require.Equal(t, "navy blue", NormalizeColor("  Navy  Blue "))
	require.Equal(t, "navy blue", NormalizeColor("NAVY\tBLUE"))
	require.Equal(t, "", NormalizeColor("   "))
}
