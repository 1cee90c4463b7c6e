package simulator

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"

	"github.com/jhoicas/resto-pos/internal/domain/entity"
	"github.com/jhoicas/resto-pos/pkg/logger"
)

// Hub registro de conexiones del canal /ws/kds/ y difusión de eventos de
// pedido. La escritura a cada socket se serializa con un lock por conexión
// porque gorilla/fasthttp-websocket no admite escritores concurrentes.
type Hub struct {
	log *logger.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex
}

// NewHub construye el hub vacío.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{log: log, clients: map[*websocket.Conn]*sync.Mutex{}}
}

// Register añade una conexión al hub.
func (h *Hub) Register(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = &sync.Mutex{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info().Int("clients", n).Msg("pantalla conectada al canal KDS")
}

// Unregister retira una conexión del hub.
func (h *Hub) Unregister(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info().Int("clients", n).Msg("pantalla desconectada del canal KDS")
}

// Broadcast difunde un evento a todas las pantallas conectadas. Un socket
// que falla se cierra y se retira; no bloquea al resto.
func (h *Hub) Broadcast(ev entity.OrderEvent) {
	raw, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Msg("serializar evento KDS")
		return
	}

	h.mu.Lock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(h.clients))
	for c, l := range h.clients {
		conns[c] = l
	}
	h.mu.Unlock()

	for c, l := range conns {
		l.Lock()
		err := c.WriteMessage(websocket.TextMessage, raw)
		l.Unlock()
		if err != nil {
			h.log.Warn().Err(err).Msg("pantalla caída, retirando del hub")
			h.Unregister(c)
			_ = c.Close()
		}
	}
}
