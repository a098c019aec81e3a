package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"garment-dispatch-api-server/internal/dispatch"

	"github.com/stretchr/testify/require"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{dispatch.ErrInvalidInput, http.StatusBadRequest},
		{dispatch.ErrInvalidOrder, http.StatusBadRequest},
		{dispatch.ErrNotFound, http.StatusNotFound},
		{dispatch.ErrBarcodeNotFound, http.StatusNotFound},
		{dispatch.ErrQuantityExceeded, http.StatusConflict},
		{dispatch.ErrInvalidTransition, http.StatusConflict},
		{dispatch.ErrConcurrentModification, http.StatusConflict},
		{fmt.Errorf("database exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		require.Equal(t, tc.status, statusForError(tc.err), "error: %v", tc.err)
		// Wrapped errors map the same way.
		require.Equal(t, tc.status, statusForError(fmt.Errorf("context: %w", tc.err)))
	}
}
