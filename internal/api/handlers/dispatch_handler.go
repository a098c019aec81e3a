// server/internal/api/handlers/dispatch_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"garment-dispatch-api-server/internal/catalog"
	"garment-dispatch-api-server/internal/dispatch"
	"garment-dispatch-api-server/internal/models"
	"garment-dispatch-api-server/internal/s3"
	"garment-dispatch-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DispatchHandler struct {
	Catalog    *catalog.Catalog
	Store      *dispatch.Store
	Hub        *socket.Hub
	S3Uploader *s3.Uploader
}

type OrderItemPayload struct {
	ProductID string `json:"productID" binding:"required"`
	SizeID    string `json:"sizeID" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Qty       int    `json:"qty" binding:"required"`
}

type CreateOrderPayload struct {
	FromWarehouseID string             `json:"fromWarehouseID"`
	ToWarehouseID   string             `json:"toWarehouseID" binding:"required"`
	Notes           string             `json:"notes"`
	Items           []OrderItemPayload `json:"items" binding:"required"`
}

type ConfirmCancelPayload struct {
	Token string `json:"token" binding:"required"`
}

type RecordReceiptPayload struct {
	Receipts []dispatch.Receipt `json:"receipts" binding:"required"`
	Final    bool               `json:"final"`
}

// CreateOrder builds a draft server-side from the submitted items and
// commits it. The draft stage re-runs all invariants (merge-by-key,
// per-product availability against a fresh snapshot); the store then
// re-validates availability atomically at commit, so a stale client
// view surfaces as a 409 and never as an over-committed order.
func (h *DispatchHandler) CreateOrder(c *gin.Context) {
	createdBy := c.GetString("user_email")
	role := c.GetString("user_role")

	var payload CreateOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Operators dispatch from their own warehouse only.
	fromWarehouseID := c.GetString("user_warehouse_id")
	if payload.FromWarehouseID != "" && (role == "admin" || role == "superadmin") {
		fromWarehouseID = payload.FromWarehouseID
	}

	snapshot, err := h.Catalog.Take(c.Request.Context(), fromWarehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to take catalog snapshot"})
		return
	}

	draft := dispatch.NewDraft(snapshot)
	draft.ToWarehouseID = payload.ToWarehouseID
	draft.Notes = payload.Notes
	for _, item := range payload.Items {
		if err := draft.AddLine(item.ProductID, item.SizeID, item.Color, item.Qty); err != nil {
			respondError(c, err)
			return
		}
	}

	order, err := draft.Submit(c.Request.Context(), h.Store, createdBy)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Hub.NotifyOrder(socket.OrderEvent{
		Type:            socket.EventOrderCreated,
		OrderID:         order.OrderID,
		Code:            order.Code,
		Status:          order.Status,
		FromWarehouseID: order.FromWarehouseID,
		ToWarehouseID:   order.ToWarehouseID,
	})

	c.JSON(http.StatusCreated, order)
}

// ListOrders returns summaries (totals, no line detail).
func (h *DispatchHandler) ListOrders(c *gin.Context) {
	summaries, err := h.Store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query dispatch orders"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// GetOrder returns one order with full line items.
func (h *DispatchHandler) GetOrder(c *gin.Context) {
	order, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// RequestCancel issues a cancel confirmation token for a PENDING
// order. Nothing is cancelled yet.
func (h *DispatchHandler) RequestCancel(c *gin.Context) {
	request, err := h.Store.RequestCancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// ConfirmCancel consumes a cancel token and performs the transition.
func (h *DispatchHandler) ConfirmCancel(c *gin.Context) {
	var payload ConfirmCancelPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Store.ConfirmCancel(c.Request.Context(), payload.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Hub.NotifyOrder(socket.OrderEvent{
		Type:            socket.EventOrderCancelled,
		OrderID:         order.OrderID,
		Code:            order.Code,
		Status:          order.Status,
		FromWarehouseID: order.FromWarehouseID,
		ToWarehouseID:   order.ToWarehouseID,
	})

	c.JSON(http.StatusOK, order)
}

// RecordReceipt takes the receiving side's reported quantities.
// final=true closes the receiving workflow and zero-fills unreported
// lines; once every line is reported the order reconciles to
// CONFIRMED or MISMATCH.
func (h *DispatchHandler) RecordReceipt(c *gin.Context) {
	reportedBy := c.GetString("user_email")

	var payload RecordReceiptPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Store.RecordReceipt(c.Request.Context(), c.Param("id"), payload.Receipts, payload.Final, reportedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	if order.Status != models.OrderStatusPending {
		h.Hub.NotifyOrder(socket.OrderEvent{
			Type:            socket.EventOrderReconciled,
			OrderID:         order.OrderID,
			Code:            order.Code,
			Status:          order.Status,
			FromWarehouseID: order.FromWarehouseID,
			ToWarehouseID:   order.ToWarehouseID,
		})
	}

	c.JSON(http.StatusOK, order)
}

// UploadReceiptPhoto stores a receiving-side proof photo on S3 and
// attaches its pointer to the order.
func (h *DispatchHandler) UploadReceiptPhoto(c *gin.Context) {
	if h.S3Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo storage is not configured"})
		return
	}

	orderID := c.Param("id")

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A 'photo' file field is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	photoID := uuid.New().String()
	objectKey := fmt.Sprintf("receipts/%s/%s%s", orderID, photoID, filepath.Ext(fileHeader.Filename))
	url, err := h.S3Uploader.UploadFile(c.Request.Context(), file, objectKey, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	photo := models.MediaPointer{
		ID:       photoID,
		URL:      url,
		FileName: fileHeader.Filename,
		FileType: contentType,
	}
	if err := h.Store.AttachReceiptPhoto(c.Request.Context(), orderID, photo); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, photo)
}
