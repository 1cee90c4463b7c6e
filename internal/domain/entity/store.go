package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store una tienda/restaurante del sistema.
type Store struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Branch sucursal de una tienda.
type Branch struct {
	ID      string `json:"id"`
	StoreID string `json:"store"`
	Name    string `json:"name"`
}

// InventoryItem existencia de inventario de una sucursal.
type InventoryItem struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
}

// User usuario autenticado, tal como lo devuelve el login.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	StoreID string `json:"store,omitempty"`
}
