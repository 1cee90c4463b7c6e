package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus ciclo de vida de un pedido tal como lo reporta el backend.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"   // Creado, aún no tomado por cocina
	StatusPreparing OrderStatus = "PREPARING" // En preparación
	StatusReady     OrderStatus = "READY"     // Listo para entregar
	StatusServed    OrderStatus = "SERVED"    // Entregado al cliente
	StatusPaid      OrderStatus = "PAID"      // Cobrado y cerrado
	StatusCancelled OrderStatus = "CANCELLED" // Anulado
)

// KitchenActiveStatuses estados que la pantalla de cocina considera "en curso".
// La caja añade SERVED porque sigue cobrando pedidos ya entregados.
var (
	KitchenActiveStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusReady}
	CashierActiveStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusServed}
)

// Order proyección de un pedido tal como la mantiene el cliente. El dueño del
// dato es el servidor; localmente solo se cachea y se reconcilia con eventos.
type Order struct {
	ID        string          `json:"id"`
	Status    OrderStatus     `json:"status"`
	StoreID   string          `json:"store"`
	BranchID  string          `json:"branch"`
	Table     string          `json:"table,omitempty"`
	Items     []OrderItem     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
}

// OrderItem línea de un pedido.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Notes     string          `json:"notes,omitempty"`
}

// OrderEventType tipo de evento del canal push de cocina.
type OrderEventType string

const (
	EventOrderCreated OrderEventType = "order_created"
	EventOrderUpdated OrderEventType = "order_updated"
)

// OrderEvent frame JSON recibido por el canal /ws/kds/.
type OrderEvent struct {
	Type  OrderEventType `json:"type"`
	Order Order          `json:"order"`
}
