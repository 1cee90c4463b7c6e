package dto

import "github.com/jhoicas/resto-pos/internal/domain/entity"

// UpdateOrderStatusRequest cuerpo del PATCH de cambio de estado.
type UpdateOrderStatusRequest struct {
	Status entity.OrderStatus `json:"status"`
}

// CreateOrderRequest alta de pedido desde la pantalla de caja.
type CreateOrderRequest struct {
	StoreID  string             `json:"store"`
	BranchID string             `json:"branch"`
	Table    string             `json:"table,omitempty"`
	Items    []entity.OrderItem `json:"items"`
	Notes    string             `json:"notes,omitempty"`
}
