package console

import (
	"fmt"
	"os"

	"github.com/jhoicas/resto-pos/internal/application/ports"
	"github.com/jhoicas/resto-pos/internal/domain/entity"
	"github.com/jhoicas/resto-pos/pkg/logger"
)

// Notifier implementación de terminal del puerto de notificaciones: log
// estructurado para el registro y campana de terminal (BEL) como tono de
// atención. La UI real reemplaza esto por toasts y audio.
type Notifier struct {
	log *logger.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// New construye el notificador de consola.
func New(log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{log: log}
}

func (n *Notifier) OrderCreated(o entity.Order) {
	n.log.Info().
		Str("order", o.ID).
		Str("table", o.Table).
		Str("total", o.Total.StringFixed(2)).
		Msg("pedido nuevo")
}

func (n *Notifier) OrderStatusChanged(o entity.Order, previous entity.OrderStatus) {
	n.log.Info().
		Str("order", o.ID).
		Str("from", string(previous)).
		Str("to", string(o.Status)).
		Msg("pedido cambió de estado")
}

// PlayTone la terminal no tiene síntesis de audio: se emite la campana y se
// deja el tono pedido en el log para poder verificarlo.
func (n *Notifier) PlayTone(freqHz int) {
	fmt.Fprint(os.Stdout, "\a")
	n.log.Debug().Int("freq_hz", freqHz).Msg("tono de atención")
}

func (n *Notifier) Notice(msg string) {
	n.log.Warn().Msg(msg)
}

func (n *Notifier) Alert(msg string) {
	n.log.Error().Msg(msg)
}
