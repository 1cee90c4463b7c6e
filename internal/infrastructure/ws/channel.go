package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jhoicas/resto-pos/internal/domain/entity"
	"github.com/jhoicas/resto-pos/pkg/logger"
)

// State estado de la conexión del canal.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

// Handler recibe los eventos tipados del canal. Los callbacks se invocan
// desde la goroutine de lectura, estrictamente en orden de llegada de los
// frames; un handler lento retrasa los siguientes eventos, no los reordena.
type Handler interface {
	// OnOpen el handshake terminó y el canal quedó abierto.
	OnOpen()
	// OnEvent llegó un frame de pedido válido.
	OnEvent(ev entity.OrderEvent)
	// OnError falló el transporte antes del cierre (distinto del cierre
	// limpio solo para el mensaje al operador; el estado final es el mismo).
	OnError(err error)
	// OnClose el canal quedó cerrado, limpio o no.
	OnClose()
}

// Channel conexión push al stream de pedidos de cocina (/ws/kds/). No
// reconecta solo: la pantalla dueña decide cuándo reabrir. Ningún fallo del
// transporte se propaga como error a quien lo usa; todo termina en
// transiciones de estado y callbacks.
type Channel struct {
	conn    *websocket.Conn
	handler Handler
	log     *logger.Logger

	state     atomic.Int32
	closeOnce sync.Once
	closing   atomic.Bool
}

// Dial abre el canal y arranca la goroutine de lectura. Si el handshake
// falla no hay canal: el error se devuelve y no se invoca ningún callback.
func Dial(ctx context.Context, wsURL string, handler Handler, log *logger.Logger) (*Channel, error) {
	if log == nil {
		log = logger.Nop()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}
	ch := &Channel{conn: conn, handler: handler, log: log}
	ch.state.Store(int32(StateOpen))
	handler.OnOpen()
	go ch.readLoop()
	return ch, nil
}

// State devuelve el estado actual del canal.
func (c *Channel) State() State {
	return State(c.state.Load())
}

// Connected indica si el canal sigue abierto.
func (c *Channel) Connected() bool {
	return c.State() == StateOpen
}

// Close cierra el canal de forma limpia (teardown de la pantalla).
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		c.closing.Store(true)
		deadline := time.Now().Add(time.Second)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = c.conn.Close()
	})
}

// readLoop consume frames hasta que el transporte muere. Los frames que no
// son JSON válido se descartan con un warning; no tumban el canal.
func (c *Channel) readLoop() {
	defer func() {
		c.state.Store(int32(StateClosed))
		c.handler.OnClose()
	}()

	for {
		msgType, raw, err := c.conn.ReadMessage()
		if err != nil {
			if c.closing.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				// Cierre limpio, propio o del servidor.
				return
			}
			c.log.Warn().Err(err).Msg("canal de pedidos: error de transporte")
			c.handler.OnError(err)
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		var ev entity.OrderEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			c.log.Warn().Err(err).Msg("canal de pedidos: frame ilegible, descartado")
			continue
		}
		if ev.Type != entity.EventOrderCreated && ev.Type != entity.EventOrderUpdated {
			c.log.Warn().Str("type", string(ev.Type)).Msg("canal de pedidos: tipo de evento desconocido")
			continue
		}
		c.handler.OnEvent(ev)
	}
}
