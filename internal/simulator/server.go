package simulator

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/resto-pos/internal/application/dto"
	"github.com/jhoicas/resto-pos/internal/domain"
	"github.com/jhoicas/resto-pos/internal/domain/entity"
	"github.com/jhoicas/resto-pos/pkg/config"
	pkgjwt "github.com/jhoicas/resto-pos/pkg/jwt"
	"github.com/jhoicas/resto-pos/pkg/logger"
)

const simIssuer = "possim"

// Server simulador de backend POS para desarrollo: implementa el contrato
// REST que consume el pipeline y el canal push /ws/kds/. Vive en memoria y
// emite tokens de vida corta para ejercitar el refresh del cliente.
type Server struct {
	cfg   config.SimConfig
	state *State
	hub   *Hub
	log   *logger.Logger
}

// NewServer construye el simulador.
func NewServer(cfg config.SimConfig, state *State, hub *Hub, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{cfg: cfg, state: state, hub: hub, log: log}
}

// App monta la aplicación Fiber con todas las rutas.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "possim",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	api := app.Group("/api")

	// Rutas públicas. Las variantes legacy comparten handler.
	api.Post("/auth/login/", s.handleLogin)
	api.Post("/auth/token/", s.handleLogin)
	api.Post("/auth/refresh/", s.handleRefresh)
	api.Post("/auth/token/refresh/", s.handleRefresh)

	// Rutas protegidas por bearer.
	api.Get("/stores/", s.requireAuth, s.handleStores)
	api.Get("/branches/", s.requireAuth, s.handleBranches)
	api.Get("/inventory/items/", s.requireAuth, s.handleInventory)
	api.Get("/orders/", s.requireAuth, s.handleOrders)
	api.Post("/orders/", s.requireAuth, s.handleCreateOrder)
	api.Get("/orders/kds/", s.requireAuth, s.handleActiveOrders)
	api.Get("/orders/:id/", s.requireAuth, s.handleOrder)
	api.Patch("/orders/:id/", s.requireAuth, s.handleUpdateOrder)

	// Canal push. Sin handshake de auth adicional, igual que el backend.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/kds/", websocket.New(s.handleKDS))

	return app
}

// detail cuerpo de error con la forma que el pipeline sabe extraer.
func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"detail": msg})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if in.Email == "" || in.Password == "" {
		return detail(c, fiber.StatusBadRequest, "email y password son requeridos")
	}
	u, err := s.state.Authenticate(in.Email, in.Password)
	if err != nil {
		return detail(c, fiber.StatusUnauthorized, "credenciales inválidas")
	}

	storeID := s.state.Stores()[0].ID
	access, err := pkgjwt.Generate(s.cfg.JWTSecret, u.ID, storeID, u.Role, simIssuer, s.cfg.AccessTTL)
	if err != nil {
		return detail(c, fiber.StatusInternalServerError, err.Error())
	}
	refresh, err := pkgjwt.Generate(s.cfg.JWTSecret, u.ID, storeID, "refresh", simIssuer, s.cfg.RefreshTTL)
	if err != nil {
		return detail(c, fiber.StatusInternalServerError, err.Error())
	}

	s.log.Info().Str("email", u.Email).Msg("login correcto")
	return c.JSON(fiber.Map{
		"access":  access,
		"refresh": refresh,
		"user": entity.User{
			ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, StoreID: storeID,
		},
	})
}

func (s *Server) handleRefresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if err := c.BodyParser(&in); err != nil || in.Refresh == "" {
		return detail(c, fiber.StatusBadRequest, "se requiere refresh token")
	}
	userID, storeID, role, err := pkgjwt.Parse(s.cfg.JWTSecret, in.Refresh)
	if err != nil || role != "refresh" {
		return detail(c, fiber.StatusUnauthorized, "refresh token inválido o expirado")
	}

	// El rol real del usuario no viaja en el refresh token; para el
	// simulador basta con re-emitir como cashier.
	access, err := pkgjwt.Generate(s.cfg.JWTSecret, userID, storeID, "cashier", simIssuer, s.cfg.AccessTTL)
	if err != nil {
		return detail(c, fiber.StatusInternalServerError, err.Error())
	}
	s.log.Debug().Str("user", userID).Msg("access token re-emitido")
	// Sin rotación: el cliente debe conservar el refresh anterior.
	return c.JSON(fiber.Map{"access": access})
}

// requireAuth exige un bearer válido y no expirado.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	const prefix = "Bearer "
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
		return detail(c, fiber.StatusUnauthorized, "falta bearer token")
	}
	userID, storeID, role, err := pkgjwt.Parse(s.cfg.JWTSecret, h[len(prefix):])
	if err != nil || role == "refresh" {
		return detail(c, fiber.StatusUnauthorized, "token inválido o expirado")
	}
	c.Locals("user_id", userID)
	c.Locals("store_id", storeID)
	return c.Next()
}

func (s *Server) handleStores(c *fiber.Ctx) error {
	return c.JSON(s.state.Stores())
}

func (s *Server) handleBranches(c *fiber.Ctx) error {
	return c.JSON(s.state.Branches(c.Query("store")))
}

func (s *Server) handleInventory(c *fiber.Ctx) error {
	return c.JSON(s.state.Inventory(c.Query("store")))
}

func (s *Server) handleOrders(c *fiber.Ctx) error {
	return c.JSON(s.state.Orders(c.Query("store")))
}

func (s *Server) handleActiveOrders(c *fiber.Ctx) error {
	return c.JSON(s.state.ActiveOrders(c.Query("store")))
}

func (s *Server) handleOrder(c *fiber.Ctx) error {
	o, err := s.state.Order(c.Params("id"))
	if err != nil {
		return detail(c, fiber.StatusNotFound, "el pedido no existe")
	}
	return c.JSON(o)
}

func (s *Server) handleCreateOrder(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if len(in.Items) == 0 {
		return detail(c, fiber.StatusBadRequest, "el pedido necesita al menos un item")
	}
	if in.StoreID == "" {
		in.StoreID = c.Query("store")
	}
	o := s.state.CreateOrder(in)
	s.hub.Broadcast(entity.OrderEvent{Type: entity.EventOrderCreated, Order: o})
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (s *Server) handleUpdateOrder(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if !ValidStatus(in.Status) {
		return detail(c, fiber.StatusBadRequest, ErrUnknownStatus.Error())
	}
	o, err := s.state.UpdateStatus(c.Params("id"), in.Status)
	if err != nil {
		if err == domain.ErrNotFound {
			return detail(c, fiber.StatusNotFound, "el pedido no existe")
		}
		return detail(c, fiber.StatusInternalServerError, err.Error())
	}
	s.hub.Broadcast(entity.OrderEvent{Type: entity.EventOrderUpdated, Order: o})
	return c.JSON(o)
}

// handleKDS atiende una conexión del canal push. El simulador no espera
// mensajes del cliente; el ReadMessage solo detecta el cierre.
func (s *Server) handleKDS(c *websocket.Conn) {
	s.hub.Register(c)
	defer func() {
		s.hub.Unregister(c)
		_ = c.Close()
	}()
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
