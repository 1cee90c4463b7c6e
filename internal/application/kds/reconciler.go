package kds

import (
	"sort"
	"sync"

	"github.com/jhoicas/resto-pos/internal/application/ports"
	"github.com/jhoicas/resto-pos/internal/domain/entity"
)

// NewOrderPolicy cuándo un pedido cuenta como "nuevo" para efectos de
// notificación. Cocina y caja difieren y ambas conductas son legítimas, así
// que se modelan como políticas de un mismo algoritmo.
type NewOrderPolicy int

const (
	// NewOnCreated solo los eventos order_created suenan como pedido nuevo
	// (pantalla de cocina).
	NewOnCreated NewOrderPolicy = iota
	// NewOnUnseen cualquier pedido activo nunca visto suena como nuevo,
	// aunque llegue por order_updated (pantalla de caja).
	NewOnUnseen
)

// Config parametriza una pantalla: contexto de tienda/sucursal, conjunto de
// estados activos y política de pedido nuevo.
type Config struct {
	StoreID  string
	BranchID string
	Active   []entity.OrderStatus
	Policy   NewOrderPolicy
}

// KitchenConfig pantalla de cocina: PENDING/PREPARING/READY, nuevo solo por
// order_created.
func KitchenConfig(storeID, branchID string) Config {
	return Config{
		StoreID:  storeID,
		BranchID: branchID,
		Active:   entity.KitchenActiveStatuses,
		Policy:   NewOnCreated,
	}
}

// CashierConfig pantalla de caja: añade SERVED y notifica cualquier pedido
// activo no visto.
func CashierConfig(storeID, branchID string) Config {
	return Config{
		StoreID:  storeID,
		BranchID: branchID,
		Active:   entity.CashierActiveStatuses,
		Policy:   NewOnUnseen,
	}
}

// Reconciler mantiene la proyección local de pedidos de UNA pantalla y la
// reconcilia con los eventos del canal push. El servidor siempre gana: el
// estado local converge al último estado reportado por pedido, sin importar
// cuántas ediciones optimistas se aplicaron en medio.
type Reconciler struct {
	cfg      Config
	active   map[entity.OrderStatus]struct{}
	notifier ports.Notifier

	mu     sync.Mutex
	orders map[string]entity.Order
}

// NewReconciler construye el reconciliador para la pantalla dada.
func NewReconciler(cfg Config, notifier ports.Notifier) *Reconciler {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	active := make(map[entity.OrderStatus]struct{}, len(cfg.Active))
	for _, s := range cfg.Active {
		active[s] = struct{}{}
	}
	return &Reconciler{
		cfg:      cfg,
		active:   active,
		notifier: notifier,
		orders:   map[string]entity.Order{},
	}
}

// Bootstrap siembra la proyección con la lista autoritativa del REST. No
// emite notificaciones: lo sembrado queda "visto" para la política de
// pedido nuevo. Reemplaza cualquier estado anterior (re-sincronización tras
// una mutación fallida o cambio de tienda).
func (r *Reconciler) Bootstrap(orders []entity.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = make(map[string]entity.Order, len(orders))
	for _, o := range orders {
		if !r.matchesContext(o) {
			continue
		}
		if _, ok := r.active[o.Status]; !ok {
			continue
		}
		r.orders[o.ID] = o
	}
}

// Apply reconcilia un evento entrante contra la proyección local y emite
// los efectos (notificación + tono) que la transición implique. Aplicar dos
// veces el mismo evento con el mismo estado produce una sola notificación.
func (r *Reconciler) Apply(ev entity.OrderEvent) {
	o := ev.Order

	r.mu.Lock()
	if !r.matchesContext(o) {
		r.mu.Unlock()
		return
	}
	if _, ok := r.active[o.Status]; !ok {
		// Estado fuera del conjunto activo de esta pantalla: se desaloja.
		delete(r.orders, o.ID)
		r.mu.Unlock()
		return
	}

	previous, seen := r.orders[o.ID]
	r.orders[o.ID] = o
	r.mu.Unlock()

	switch {
	case !seen:
		if r.cfg.Policy == NewOnUnseen || ev.Type == entity.EventOrderCreated {
			r.notifier.OrderCreated(o)
			r.notifier.PlayTone(ports.ToneNewOrder)
		}
	case previous.Status != o.Status:
		r.notifier.OrderStatusChanged(o, previous.Status)
		r.notifier.PlayTone(toneFor(o.Status))
	default:
		// Mismo estado: refresco de campos (ediciones de items), sin ruido.
	}
}

// SetStatus aplica una edición optimista local, sin notificaciones. Si el
// estado nuevo queda fuera del conjunto activo el pedido se desaloja, igual
// que haría la reconciliación. Devuelve false si el pedido no está local.
func (r *Reconciler) SetStatus(id string, status entity.OrderStatus) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return false
	}
	if _, active := r.active[status]; !active {
		delete(r.orders, id)
		return true
	}
	o.Status = status
	r.orders[id] = o
	return true
}

// Get devuelve el pedido local por id.
func (r *Reconciler) Get(id string) (entity.Order, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	return o, ok
}

// Orders devuelve la proyección ordenada por fecha de creación (y por id
// ante empate, para render estable).
func (r *Reconciler) Orders() []entity.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *Reconciler) matchesContext(o entity.Order) bool {
	if r.cfg.StoreID != "" && o.StoreID != r.cfg.StoreID {
		return false
	}
	if r.cfg.BranchID != "" && o.BranchID != "" && o.BranchID != r.cfg.BranchID {
		return false
	}
	return true
}

func toneFor(status entity.OrderStatus) int {
	if status == entity.StatusReady {
		return ports.ToneReady
	}
	return ports.ToneStatusChange
}
