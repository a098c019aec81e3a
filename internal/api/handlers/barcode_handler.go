// server/internal/api/handlers/barcode_handler.go
package handlers

import (
	"net/http"

	"garment-dispatch-api-server/internal/barcode"

	"github.com/gin-gonic/gin"
)

type BarcodeHandler struct {
	Resolver *barcode.Resolver
}

// ResolveBarcode resolves a scanned code against the caller's source
// warehouse. A needsVariant=true answer tells the UI to prompt the
// operator for size and color before staging the line.
func (h *BarcodeHandler) ResolveBarcode(c *gin.Context) {
	code := c.Query("code")
	fromWarehouseID := c.Query("fromWarehouseID")
	if fromWarehouseID == "" {
		fromWarehouseID = c.GetString("user_warehouse_id")
	}

	resolution, err := h.Resolver.Resolve(c.Request.Context(), fromWarehouseID, code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resolution)
}
