package dispatch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeResolver serves canned resolutions keyed by code.
type fakeResolver struct {
	resolutions map[string]BarcodeResolution
}

func (f *fakeResolver) Resolve(_ context.Context, _, code string) (BarcodeResolution, error) {
	resolution, ok := f.resolutions[code]
	if !ok {
		return BarcodeResolution{}, fmt.Errorf("%w: %q", ErrBarcodeNotFound, code)
	}
	return resolution, nil
}

func TestAddLineByBarcodeStagesOneUnit(t *testing.T) {
	draft := NewDraft(testSnapshot())
	resolver := &fakeResolver{resolutions: map[string]BarcodeResolution{
		"8930001000017": {
			ProductID:   "prod-tshirt",
			ProductName: "Basic T-Shirt",
			ProductCode: "TSHIRT-001",
			SizeID:      "size-m",
			Color:       "Black",
			Available:   5,
		},
	}}

	// Scanning the same unit code three times merges into one line.
	for i := 0; i < 3; i++ {
		_, err := draft.AddLineByBarcode(context.Background(), resolver, "8930001000017")
		require.NoError(t, err)
	}

	lines := draft.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 3, lines[0].QtySent)
}

func TestAddLineByBarcodeUnknownCode(t *testing.T) {
	draft := NewDraft(testSnapshot())
	resolver := &fakeResolver{resolutions: map[string]BarcodeResolution{}}

	_, err := draft.AddLineByBarcode(context.Background(), resolver, "0000000000000")
	require.ErrorIs(t, err, ErrBarcodeNotFound)
	require.Empty(t, draft.Lines())
}

func TestAddLineByBarcodeNeedsVariant(t *testing.T) {
	draft := NewDraft(testSnapshot())
	resolver := &fakeResolver{resolutions: map[string]BarcodeResolution{
		"8930002000016": {
			ProductID:    "prod-hoodie",
			ProductName:  "Zip Hoodie",
			ProductCode:  "HOODIE-001",
			NeedsVariant: true,
			Available:    10,
		},
	}}

	resolution, err := draft.AddLineByBarcode(context.Background(), resolver, "8930002000016")
	require.ErrorIs(t, err, ErrVariantRequired)
	require.Equal(t, "prod-hoodie", resolution.ProductID)
	require.Empty(t, draft.Lines())

	// The UI prompts for size/color, then the line is staged with
	// quantity 1 as usual.
	require.NoError(t, draft.AddLine(resolution.ProductID, "size-m", "Black", 1))
	require.Len(t, draft.Lines(), 1)
}

func TestAddLineByBarcodeRespectsAvailability(t *testing.T) {
	draft := NewDraft(testSnapshot())
	resolver := &fakeResolver{resolutions: map[string]BarcodeResolution{
		"8930001000017": {
			ProductID:   "prod-tshirt",
			ProductName: "Basic T-Shirt",
			SizeID:      "size-m",
			Color:       "Black",
			Available:   5,
		},
	}}

	for i := 0; i < 5; i++ {
		_, err := draft.AddLineByBarcode(context.Background(), resolver, "8930001000017")
		require.NoError(t, err)
	}
	_, err := draft.AddLineByBarcode(context.Background(), resolver, "8930001000017")
	require.ErrorIs(t, err, ErrQuantityExceeded)
	require.Equal(t, 5, draft.Lines()[0].QtySent)
}
