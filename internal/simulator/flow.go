package simulator

import (
	"context"
	"time"

	"github.com/jhoicas/resto-pos/internal/domain/entity"
	"github.com/jhoicas/resto-pos/pkg/config"
	"github.com/jhoicas/resto-pos/pkg/logger"
)

// Flow genera tráfico sintético de pedidos: crea pedidos nuevos y avanza
// estados con cadencias configurables, difundiendo cada cambio por el hub.
// Así una pantalla conectada al simulador ve movimiento sin tocar nada.
type Flow struct {
	cfg   config.SimConfig
	state *State
	hub   *Hub
	log   *logger.Logger
}

// NewFlow construye el generador de tráfico.
func NewFlow(cfg config.SimConfig, state *State, hub *Hub, log *logger.Logger) *Flow {
	if log == nil {
		log = logger.Nop()
	}
	return &Flow{cfg: cfg, state: state, hub: hub, log: log}
}

// Run bloquea generando tráfico hasta que el contexto se cancele.
func (f *Flow) Run(ctx context.Context) {
	create := time.NewTicker(f.cfg.OrderEvery)
	advance := time.NewTicker(f.cfg.AdvanceEvery)
	defer create.Stop()
	defer advance.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-create.C:
			o := f.state.NewSyntheticOrder()
			f.log.Info().Str("order", o.ID).Str("table", o.Table).Msg("pedido sintético creado")
			f.hub.Broadcast(entity.OrderEvent{Type: entity.EventOrderCreated, Order: o})
		case <-advance.C:
			o, ok := f.state.AdvanceOne()
			if !ok {
				continue
			}
			f.log.Info().Str("order", o.ID).Str("status", string(o.Status)).Msg("pedido avanzado")
			f.hub.Broadcast(entity.OrderEvent{Type: entity.EventOrderUpdated, Order: o})
		}
	}
}
