package ports

import "github.com/jhoicas/resto-pos/internal/domain/entity"

// Tonos de atención en Hz. READY usa un tono más agudo para distinguirse
// del resto de transiciones sin mirar la pantalla.
const (
	ToneNewOrder     = 880
	ToneStatusChange = 660
	ToneReady        = 1320
)

// Notifier define el puerto de notificaciones al operador (toasts, campana).
// La reconciliación y el pipeline REST emiten por aquí; la implementación
// concreta (consola, UI) vive en interfaces.
type Notifier interface {
	// OrderCreated un pedido nuevo apareció en la pantalla.
	OrderCreated(o entity.Order)
	// OrderStatusChanged el estado de un pedido ya visible cambió.
	OrderStatusChanged(o entity.Order, previous entity.OrderStatus)
	// PlayTone emite el tono de atención indicado.
	PlayTone(freqHz int)
	// Notice aviso transitorio no bloqueante (conexión, reconexión).
	Notice(msg string)
	// Alert aviso de fallo (mutación rechazada, sesión expirada).
	Alert(msg string)
}

// NopNotifier descarta todas las notificaciones.
type NopNotifier struct{}

func (NopNotifier) OrderCreated(entity.Order)                           {}
func (NopNotifier) OrderStatusChanged(entity.Order, entity.OrderStatus) {}
func (NopNotifier) PlayTone(int)                                        {}
func (NopNotifier) Notice(string)                                       {}
func (NopNotifier) Alert(string)                                        {}
