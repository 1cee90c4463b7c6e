package simulator

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/resto-pos/internal/application/dto"
	"github.com/jhoicas/resto-pos/internal/domain"
	"github.com/jhoicas/resto-pos/internal/domain/entity"
)

// User usuario de demo del simulador.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         string
	PasswordHash []byte
}

// menú de demo con precios decimales exactos.
var demoMenu = []entity.OrderItem{
	{ProductID: "p-01", Name: "Bandeja paisa", UnitPrice: decimal.NewFromInt(32000)},
	{ProductID: "p-02", Name: "Ajiaco", UnitPrice: decimal.NewFromInt(24000)},
	{ProductID: "p-03", Name: "Arepa rellena", UnitPrice: decimal.NewFromInt(12000)},
	{ProductID: "p-04", Name: "Jugo de lulo", UnitPrice: decimal.NewFromInt(7000)},
	{ProductID: "p-05", Name: "Café campesino", UnitPrice: decimal.NewFromInt(4500)},
}

// statusFlow orden de avance de un pedido sintético.
var statusFlow = []entity.OrderStatus{
	entity.StatusPending,
	entity.StatusPreparing,
	entity.StatusReady,
	entity.StatusServed,
	entity.StatusPaid,
}

// State mundo en memoria del simulador. Es un harness de desarrollo: se
// siembra con datos de demo y se descarta al apagar, no persiste nada.
type State struct {
	mu        sync.RWMutex
	users     map[string]*User // por email
	stores    []entity.Store
	branches  []entity.Branch
	inventory []entity.InventoryItem
	orders    map[string]entity.Order
	rng       *rand.Rand
}

// NewState siembra el mundo de demo. Todos los usuarios usan la clave
// "demo1234" (hasheada con bcrypt, igual que haría el backend real).
func NewState() *State {
	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		panic("possim: bcrypt de la clave demo: " + err.Error())
	}

	storeID := "st-01"
	s := &State{
		users: map[string]*User{
			"caja@demo.co": {
				ID: uuid.NewString(), Email: "caja@demo.co",
				Name: "Caja Demo", Role: "cashier", PasswordHash: hash,
			},
			"cocina@demo.co": {
				ID: uuid.NewString(), Email: "cocina@demo.co",
				Name: "Cocina Demo", Role: "kitchen", PasswordHash: hash,
			},
			"admin@demo.co": {
				ID: uuid.NewString(), Email: "admin@demo.co",
				Name: "Admin Demo", Role: "admin", PasswordHash: hash,
			},
		},
		stores: []entity.Store{{ID: storeID, Name: "La Cocina de la Abuela"}},
		branches: []entity.Branch{
			{ID: "br-01", StoreID: storeID, Name: "Centro"},
			{ID: "br-02", StoreID: storeID, Name: "Norte"},
		},
		inventory: []entity.InventoryItem{
			{ID: "inv-01", StoreID: storeID, Name: "Fríjoles", Quantity: decimal.NewFromInt(40), Unit: "kg"},
			{ID: "inv-02", StoreID: storeID, Name: "Maíz para arepas", Quantity: decimal.NewFromInt(25), Unit: "kg"},
			{ID: "inv-03", StoreID: storeID, Name: "Café molido", Quantity: decimal.NewFromFloat(8.5), Unit: "kg"},
		},
		orders: map[string]entity.Order{},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	return s
}

// Authenticate valida email/clave contra los usuarios de demo.
func (s *State) Authenticate(email, password string) (*User, error) {
	s.mu.RLock()
	u, ok := s.users[email]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// Stores devuelve las tiendas de demo.
func (s *State) Stores() []entity.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Store(nil), s.stores...)
}

// Branches devuelve las sucursales, filtradas por tienda si storeID no es "".
func (s *State) Branches(storeID string) []entity.Branch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Branch, 0, len(s.branches))
	for _, b := range s.branches {
		if storeID == "" || b.StoreID == storeID {
			out = append(out, b)
		}
	}
	return out
}

// Inventory devuelve las existencias, filtradas por tienda si storeID no es "".
func (s *State) Inventory(storeID string) []entity.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.InventoryItem, 0, len(s.inventory))
	for _, it := range s.inventory {
		if storeID == "" || it.StoreID == storeID {
			out = append(out, it)
		}
	}
	return out
}

// Orders devuelve todos los pedidos, filtrados por tienda si storeID no es "".
func (s *State) Orders(storeID string) []entity.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if storeID == "" || o.StoreID == storeID {
			out = append(out, o)
		}
	}
	return out
}

// ActiveOrders devuelve los pedidos aún no cerrados (vista KDS).
func (s *State) ActiveOrders(storeID string) []entity.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if storeID != "" && o.StoreID != storeID {
			continue
		}
		switch o.Status {
		case entity.StatusPaid, entity.StatusCancelled:
		default:
			out = append(out, o)
		}
	}
	return out
}

// Order devuelve un pedido por id.
func (s *State) Order(id string) (entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return entity.Order{}, domain.ErrNotFound
	}
	return o, nil
}

// CreateOrder da de alta un pedido desde la API con totales calculados.
func (s *State) CreateOrder(in dto.CreateOrderRequest) entity.Order {
	now := time.Now()
	total := decimal.Zero
	for _, it := range in.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	o := entity.Order{
		ID:        uuid.NewString(),
		Status:    entity.StatusPending,
		StoreID:   in.StoreID,
		BranchID:  in.BranchID,
		Table:     in.Table,
		Items:     in.Items,
		Total:     total,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	s.orders[o.ID] = o
	s.mu.Unlock()
	return o
}

// UpdateStatus cambia el estado de un pedido existente.
func (s *State) UpdateStatus(id string, status entity.OrderStatus) (entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return entity.Order{}, domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	s.orders[id] = o
	return o, nil
}

// NewSyntheticOrder genera un pedido aleatorio del menú de demo.
func (s *State) NewSyntheticOrder() entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 1 + s.rng.Intn(3)
	items := make([]entity.OrderItem, 0, n)
	total := decimal.Zero
	for i := 0; i < n; i++ {
		it := demoMenu[s.rng.Intn(len(demoMenu))]
		it.Quantity = 1 + s.rng.Intn(2)
		items = append(items, it)
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	branch := s.branches[s.rng.Intn(len(s.branches))]
	now := time.Now()
	o := entity.Order{
		ID:        uuid.NewString(),
		Status:    entity.StatusPending,
		StoreID:   branch.StoreID,
		BranchID:  branch.ID,
		Table:     fmt.Sprintf("mesa %d", 1+s.rng.Intn(12)),
		Items:     items,
		Total:     total,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.orders[o.ID] = o
	return o
}

// AdvanceOne avanza al siguiente estado un pedido activo al azar. Devuelve
// false si no había nada que avanzar.
func (s *State) AdvanceOne() (entity.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]string, 0, len(s.orders))
	for id, o := range s.orders {
		if next(o.Status) != "" {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return entity.Order{}, false
	}
	id := candidates[s.rng.Intn(len(candidates))]
	o := s.orders[id]
	o.Status = next(o.Status)
	o.UpdatedAt = time.Now()
	s.orders[id] = o
	return o, true
}

func next(status entity.OrderStatus) entity.OrderStatus {
	for i, st := range statusFlow {
		if st == status && i+1 < len(statusFlow) {
			return statusFlow[i+1]
		}
	}
	return ""
}

// ErrUnknownStatus estado de pedido fuera del ciclo de vida conocido.
var ErrUnknownStatus = errors.New("estado de pedido desconocido")

// ValidStatus indica si el estado pertenece al ciclo de vida del pedido.
func ValidStatus(status entity.OrderStatus) bool {
	switch status {
	case entity.StatusPending, entity.StatusPreparing, entity.StatusReady,
		entity.StatusServed, entity.StatusPaid, entity.StatusCancelled:
		return true
	}
	return false
}
