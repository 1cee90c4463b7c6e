package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/resto-pos/internal/simulator"
	"github.com/jhoicas/resto-pos/pkg/config"
	"github.com/jhoicas/resto-pos/pkg/logger"
)

// possim: simulador de backend POS para desarrollo. Sirve el contrato REST
// completo (login/refresh con tokens de vida corta, pedidos, inventario,
// tiendas) y el canal push /ws/kds/, generando tráfico sintético de pedidos.
// Usuarios demo: caja@demo.co, cocina@demo.co, admin@demo.co / demo1234.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	log.Info().
		Str("addr", cfg.Sim.Addr()).
		Dur("access_ttl", cfg.Sim.AccessTTL).
		Msg("iniciando simulador POS")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state := simulator.NewState()
	hub := simulator.NewHub(log)
	srv := simulator.NewServer(cfg.Sim, state, hub, log)
	app := srv.App()

	flow := simulator.NewFlow(cfg.Sim, state, hub, log)
	go flow.Run(ctx)

	go func() {
		if err := app.Listen(cfg.Sim.Addr()); err != nil {
			log.Fatal().Err(err).Msg("servidor HTTP")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando simulador")
	cancel()
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
