// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// OrderEvent is pushed to operators of both warehouses of a dispatch
// order whenever its lifecycle advances.
type OrderEvent struct {
	Type            string `json:"type"` // ORDER_CREATED, ORDER_CANCELLED, ORDER_RECONCILED
	OrderID         string `json:"orderID"`
	Code            string `json:"code"`
	Status          string `json:"status"`
	FromWarehouseID string `json:"fromWarehouseID"`
	ToWarehouseID   string `json:"toWarehouseID"`
}

const (
	EventOrderCreated    = "ORDER_CREATED"
	EventOrderCancelled  = "ORDER_CANCELLED"
	EventOrderReconciled = "ORDER_RECONCILED"
)

// client wraps a connection with a write lock: gorilla/websocket
// allows at most one concurrent writer per connection, and two
// NotifyOrder calls for the same warehouse may run at once.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(message []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// Hub manages all WebSocket clients, grouped by the warehouse they
// operate. A user can be connected once per warehouse.
type Hub struct {
	// warehouseID -> userEmail -> client
	clients map[string]map[string]*client
	mu      sync.RWMutex
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[string]*client),
	}
}

// Register adds a client connection under its warehouse.
func (h *Hub) Register(warehouseID, userEmail string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[warehouseID] == nil {
		h.clients[warehouseID] = make(map[string]*client)
	}
	h.clients[warehouseID][userEmail] = &client{conn: conn}
	log.Printf("WebSocket client registered: %s @ %s", userEmail, warehouseID)
}

// Unregister removes a client connection.
func (h *Hub) Unregister(warehouseID, userEmail string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[warehouseID]; ok {
		if _, ok := clients[userEmail]; ok {
			delete(clients, userEmail)
			log.Printf("WebSocket client unregistered: %s @ %s", userEmail, warehouseID)
		}
		if len(clients) == 0 {
			delete(h.clients, warehouseID)
		}
	}
}

// NotifyOrder sends an order event to every client of the order's
// source and destination warehouses. Offline warehouses are not an
// error.
func (h *Hub) NotifyOrder(event OrderEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order event: %v", err)
		return
	}
	h.sendToWarehouse(event.FromWarehouseID, message)
	if event.ToWarehouseID != event.FromWarehouseID {
		h.sendToWarehouse(event.ToWarehouseID, message)
	}
}

func (h *Hub) sendToWarehouse(warehouseID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clients[warehouseID]
	if !ok {
		return
	}
	for userEmail, c := range clients {
		if err := c.send(message); err != nil {
			log.Printf("Failed to push event to %s @ %s: %v", userEmail, warehouseID, err)
		}
	}
}
