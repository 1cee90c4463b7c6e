package main

import (
	"github.com/jhoicas/resto-pos/internal/application/kds"
	"github.com/jhoicas/resto-pos/internal/application/ports"
	"github.com/jhoicas/resto-pos/internal/domain/entity"
)

// screen adapta el canal push a la pantalla: cada evento entra al
// reconciliador y los cambios de conexión se muestran como avisos, nunca
// como errores que tumben el proceso.
type screen struct {
	rec      *kds.Reconciler
	notifier ports.Notifier
}

func (s *screen) OnOpen() {
	s.notifier.Notice("canal de pedidos conectado")
}

func (s *screen) OnEvent(ev entity.OrderEvent) {
	s.rec.Apply(ev)
}

func (s *screen) OnError(err error) {
	s.notifier.Alert("canal de pedidos: " + err.Error())
}

func (s *screen) OnClose() {
	s.notifier.Notice("canal de pedidos desconectado, se muestra el último estado conocido")
}
