package kds_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/resto-pos/internal/application/kds"
	"github.com/jhoicas/resto-pos/internal/application/ports"
	"github.com/jhoicas/resto-pos/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Notificador espía: registra exactamente qué efectos emitió la reconciliación.
// ──────────────────────────────────────────────────────────────────────────────

type spyNotifier struct {
	mu      sync.Mutex
	created []string             // ids notificados como pedido nuevo
	changed []entity.OrderStatus // estados nuevos notificados
	tones   []int
	alerts  []string
}

func (s *spyNotifier) OrderCreated(o entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, o.ID)
}

func (s *spyNotifier) OrderStatusChanged(o entity.Order, _ entity.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changed = append(s.changed, o.Status)
}

func (s *spyNotifier) PlayTone(freqHz int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tones = append(s.tones, freqHz)
}

func (s *spyNotifier) Notice(string) {}
func (s *spyNotifier) Alert(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, msg)
}

func order(id string, status entity.OrderStatus) entity.Order {
	return entity.Order{
		ID:        id,
		Status:    status,
		StoreID:   "st-1",
		BranchID:  "br-1",
		CreatedAt: time.Now(),
	}
}

func created(o entity.Order) entity.OrderEvent {
	return entity.OrderEvent{Type: entity.EventOrderCreated, Order: o}
}

func updated(o entity.Order) entity.OrderEvent {
	return entity.OrderEvent{Type: entity.EventOrderUpdated, Order: o}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario: pedido nuevo y luego cambio de estado
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_PedidoNuevoYCambioDeEstado(t *testing.T) {
	spy := &spyNotifier{}
	rec := kds.NewReconciler(kds.KitchenConfig("st-1", ""), spy)

	rec.Apply(created(order("7", entity.StatusPending)))
	rec.Apply(updated(order("7", entity.StatusPreparing)))

	assert.Equal(t, []string{"7"}, spy.created, "una notificación de pedido nuevo")
	assert.Equal(t, []entity.OrderStatus{entity.StatusPreparing}, spy.changed,
		"una notificación de cambio a PREPARING")

	got, ok := rec.Get("7")
	require.True(t, ok)
	assert.Equal(t, entity.StatusPreparing, got.Status)
}

func TestApply_Idempotencia(t *testing.T) {
	spy := &spyNotifier{}
	rec := kds.NewReconciler(kds.KitchenConfig("st-1", ""), spy)

	ev := updated(order("7", entity.StatusPreparing))
	rec.Apply(created(order("7", entity.StatusPending)))
	rec.Apply(ev)
	rec.Apply(ev) // mismo evento, mismo estado: refresco silencioso

	assert.Len(t, spy.changed, 1, "la segunda aplicación no emite nada")
	assert.Len(t, spy.created, 1)
}

func TestApply_RefrescoDeCamposSinRuido(t *testing.T) {
	spy := &spyNotifier{}
	rec := kds.NewReconciler(kds.KitchenConfig("st-1", ""), spy)

	rec.Apply(created(order("7", entity.StatusPending)))

	// Mismo estado pero con items editados: debe reemplazar sin notificar.
	o := order("7", entity.StatusPending)
	o.Items = []entity.OrderItem{{ProductID: "p-1", Name: "Ajiaco", Quantity: 2}}
	rec.Apply(updated(o))

	got, _ := rec.Get("7")
	assert.Len(t, got.Items, 1, "los campos se refrescaron")
	assert.Len(t, spy.changed, 0)
	assert.Len(t, spy.created, 1)
}

func TestApply_EviccionPorEstadoTerminal(t *testing.T) {
	spy := &spyNotifier{}
	rec := kds.NewReconciler(kds.KitchenConfig("st-1", ""), spy)

	rec.Apply(created(order("7", entity.StatusPending)))
	require.Len(t, rec.Orders(), 1)

	// SERVED está fuera del conjunto activo de cocina: desaloja el pedido
	// aunque estuviera siendo mostrado.
	rec.Apply(updated(order("7", entity.StatusServed)))

	_, ok := rec.Get("7")
	assert.False(t, ok)
	assert.Empty(t, spy.changed, "la evicción no se notifica como cambio de estado")
}

func TestApply_FiltroDeContexto(t *testing.T) {
	spy := &spyNotifier{}
	rec := kds.NewReconciler(kds.KitchenConfig("st-1", "br-1"), spy)

	otra := order("9", entity.StatusPending)
	otra.StoreID = "st-2"
	rec.Apply(created(otra))

	otraSucursal := order("10", entity.StatusPending)
	otraSucursal.BranchID = "br-2"
	rec.Apply(created(otraSucursal))

	assert.Empty(t, rec.Orders(), "eventos de otra tienda/sucursal jamás mutan el estado local")
	assert.Empty(t, spy.created)
	assert.Empty(t, spy.tones)
}

// ──────────────────────────────────────────────────────────────────────────────
// Políticas de pedido nuevo: cocina vs caja
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_PoliticaCocina_SoloCreatedSuenaComoNuevo(t *testing.T) {
	spy := &spyNotifier{}
	rec := kds.NewReconciler(kds.KitchenConfig("st-1", ""), spy)

	// Un updated de un pedido nunca visto: se inserta en silencio.
	rec.Apply(updated(order("7", entity.StatusPreparing)))

	_, ok := rec.Get("7")
	assert.True(t, ok, "el pedido entra a la proyección")
	assert.Empty(t, spy.created, "en cocina solo order_created suena como nuevo")
}

func TestApply_PoliticaCaja_CualquierNoVistoSuenaComoNuevo(t *testing.T) {
	spy := &spyNotifier{}
	rec := kds.NewReconciler(kds.CashierConfig("st-1", ""), spy)

	rec.Apply(updated(order("7", entity.StatusServed)))

	_, ok := rec.Get("7")
	assert.True(t, ok, "SERVED es activo para caja")
	assert.Equal(t, []string{"7"}, spy.created, "en caja cualquier pedido activo no visto es nuevo")
}

func TestApply_TonoDistintoParaReady(t *testing.T) {
	spy := &spyNotifier{}
	rec := kds.NewReconciler(kds.KitchenConfig("st-1", ""), spy)

	rec.Apply(created(order("7", entity.StatusPending)))
	rec.Apply(updated(order("7", entity.StatusPreparing)))
	rec.Apply(updated(order("7", entity.StatusReady)))

	require.Len(t, spy.tones, 3)
	assert.Equal(t, ports.ToneNewOrder, spy.tones[0])
	assert.Equal(t, ports.ToneStatusChange, spy.tones[1])
	assert.Equal(t, ports.ToneReady, spy.tones[2], "READY tiene tono propio")
}

// ──────────────────────────────────────────────────────────────────────────────
// Bootstrap y edición optimista
// ──────────────────────────────────────────────────────────────────────────────

func TestBootstrap_SiembraSinNotificarYMarcaVisto(t *testing.T) {
	spy := &spyNotifier{}
	rec := kds.NewReconciler(kds.CashierConfig("st-1", ""), spy)

	rec.Bootstrap([]entity.Order{
		order("1", entity.StatusPending),
		order("2", entity.StatusPaid),   // fuera del conjunto activo: no entra
		func() entity.Order { o := order("3", entity.StatusPending); o.StoreID = "st-2"; return o }(),
	})

	assert.Len(t, rec.Orders(), 1, "solo entra lo activo de la tienda seleccionada")
	assert.Empty(t, spy.created, "el bootstrap es silencioso")

	// Lo sembrado ya está visto: un updated posterior no suena como nuevo
	// ni siquiera con la política de caja.
	rec.Apply(updated(order("1", entity.StatusPreparing)))
	assert.Empty(t, spy.created)
	assert.Len(t, spy.changed, 1)
}

func TestSetStatus_OptimistaYSilencioso(t *testing.T) {
	spy := &spyNotifier{}
	rec := kds.NewReconciler(kds.KitchenConfig("st-1", ""), spy)
	rec.Bootstrap([]entity.Order{order("7", entity.StatusPending)})

	require.True(t, rec.SetStatus("7", entity.StatusPreparing))

	got, _ := rec.Get("7")
	assert.Equal(t, entity.StatusPreparing, got.Status)
	assert.Empty(t, spy.changed, "la edición optimista local no emite efectos")

	// El servidor siempre gana: el siguiente evento confirma (o corrige).
	rec.Apply(updated(order("7", entity.StatusReady)))
	got, _ = rec.Get("7")
	assert.Equal(t, entity.StatusReady, got.Status)
}

func TestSetStatus_EvictaSiSaleDelConjuntoActivo(t *testing.T) {
	rec := kds.NewReconciler(kds.KitchenConfig("st-1", ""), &spyNotifier{})
	rec.Bootstrap([]entity.Order{order("7", entity.StatusReady)})

	require.True(t, rec.SetStatus("7", entity.StatusServed))
	_, ok := rec.Get("7")
	assert.False(t, ok)
}

func TestOrders_OrdenEstablePorFechaDeCreacion(t *testing.T) {
	rec := kds.NewReconciler(kds.KitchenConfig("st-1", ""), &spyNotifier{})

	viejo := order("b", entity.StatusPending)
	viejo.CreatedAt = time.Now().Add(-time.Hour)
	nuevo := order("a", entity.StatusPending)

	rec.Apply(created(nuevo))
	rec.Apply(created(viejo))

	got := rec.Orders()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID, "el más antiguo primero")
}
