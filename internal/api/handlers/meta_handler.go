// server/internal/api/handlers/meta_handler.go
package handlers

import (
	"net/http"

	"garment-dispatch-api-server/internal/catalog"

	"github.com/gin-gonic/gin"
)

type MetaHandler struct {
	Catalog *catalog.Catalog
}

// GetDispatchMeta returns everything the dispatch UI needs to open
// the create-order screen: warehouses, the effective source
// warehouse, and the catalog snapshot (products with availability,
// sizes, color suggestions).
//
// Operators are pinned to their own warehouse; admins may pick any
// source via ?fromWarehouseID=.
func (h *MetaHandler) GetDispatchMeta(c *gin.Context) {
	role := c.GetString("user_role")
	canChangeFromWarehouse := role == "admin" || role == "superadmin"

	fromWarehouseID := c.GetString("user_warehouse_id")
	if requested := c.Query("fromWarehouseID"); requested != "" && canChangeFromWarehouse {
		fromWarehouseID = requested
	}

	warehouses, err := h.Catalog.Warehouses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query warehouses"})
		return
	}

	snapshot, err := h.Catalog.Take(c.Request.Context(), fromWarehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to take catalog snapshot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"warehouses":             warehouses,
		"canChangeFromWarehouse": canChangeFromWarehouse,
		"fromWarehouseID":        fromWarehouseID,
		"products":               snapshot.Products,
		"sizes":                  snapshot.Sizes,
		"colors":                 snapshot.Colors,
		"takenAt":                snapshot.TakenAt,
	})
}
