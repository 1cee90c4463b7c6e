package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/resto-pos/internal/application/auth"
	"github.com/jhoicas/resto-pos/internal/application/catalog"
	"github.com/jhoicas/resto-pos/internal/application/kds"
	"github.com/jhoicas/resto-pos/internal/application/orders"
	"github.com/jhoicas/resto-pos/internal/application/session"
	"github.com/jhoicas/resto-pos/internal/infrastructure/localstore"
	"github.com/jhoicas/resto-pos/internal/infrastructure/rest"
	"github.com/jhoicas/resto-pos/internal/infrastructure/ws"
	"github.com/jhoicas/resto-pos/internal/interfaces/console"
	"github.com/jhoicas/resto-pos/pkg/config"
	"github.com/jhoicas/resto-pos/pkg/logger"
)

// kdsmonitor: pantalla de cocina/caja en terminal. Inicia sesión (o reanuda
// la almacenada), trae los pedidos activos por REST, abre el canal push y
// reconcilia en vivo, sonando la campana en cada transición relevante.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	log.Info().
		Str("screen", cfg.Screen.Mode).
		Str("api", cfg.API.BaseURL).
		Msg("iniciando pantalla KDS")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := console.New(log)

	kv, err := localstore.NewFileStore(cfg.Session.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén de sesión")
	}
	sess := session.New(kv)

	api, err := rest.NewClient(cfg.API.BaseURL, sess,
		rest.WithLogger(log),
		rest.WithNotifier(notifier),
		rest.WithTimeout(cfg.API.Timeout),
		rest.WithSessionExpiredHook(func() {
			// El equivalente del redirect a /login del navegador: la
			// pantalla termina y pide credenciales al re-lanzar.
			log.Warn().Msg("sesión expirada, vuelve a iniciar sesión")
			cancel()
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("construir cliente REST")
	}

	authUC := auth.NewUseCase(api, sess, log)
	if !authUC.HasSession() {
		if cfg.Screen.Email == "" || cfg.Screen.Password == "" {
			log.Fatal().Msg("no hay sesión almacenada: define POS_EMAIL y POS_PASSWORD")
		}
		if _, err := authUC.Login(ctx, cfg.Screen.Email, cfg.Screen.Password); err != nil {
			log.Fatal().Err(err).Msg("login")
		}
	}

	// Contexto de tienda: el configurado, o la primera tienda visible.
	catalogUC := catalog.NewUseCase(api, sess)
	storeID := cfg.Screen.StoreID
	if storeID == "" {
		stores, err := catalogUC.Stores(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("listar tiendas")
		}
		if len(stores) == 0 {
			log.Fatal().Msg("el usuario no tiene tiendas asignadas")
		}
		if err := catalogUC.SelectStore(stores[0]); err != nil {
			log.Fatal().Err(err).Msg("guardar selección de tienda")
		}
		storeID = stores[0].ID
	} else if err := sess.SaveSelectedStore(storeID, ""); err != nil {
		log.Fatal().Err(err).Msg("guardar selección de tienda")
	}

	var screenCfg kds.Config
	if cfg.Screen.Mode == "cashier" {
		screenCfg = kds.CashierConfig(storeID, cfg.Screen.BranchID)
	} else {
		screenCfg = kds.KitchenConfig(storeID, cfg.Screen.BranchID)
	}
	rec := kds.NewReconciler(screenCfg, notifier)

	// Bootstrap REST antes de escuchar el canal.
	ordersUC := orders.NewUseCase(api, notifier, log)
	active, err := ordersUC.ActiveOrders(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap de pedidos activos")
	}
	rec.Bootstrap(active)
	log.Info().Int("orders", len(active)).Msg("pedidos activos cargados")

	channel, err := ws.Dial(ctx, cfg.Channel.URL, &screen{rec: rec, notifier: notifier}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir canal de pedidos")
	}
	defer channel.Close()

	// Resumen periódico de la proyección local.
	render := time.NewTicker(30 * time.Second)
	defer render.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-quit:
			log.Info().Msg("apagando pantalla")
			return
		case <-ctx.Done():
			return
		case <-render.C:
			for _, o := range rec.Orders() {
				log.Info().
					Str("order", o.ID).
					Str("status", string(o.Status)).
					Str("table", o.Table).
					Msg("en pantalla")
			}
		}
	}
}
