// Package ws bridges gorilla/websocket connections to the hub router.
package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/collabhub-in/collabhub/internal/core"
	"github.com/collabhub-in/collabhub/internal/hub"
)

var ErrBackpressure = errors.New("backpressure")

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	// Origin policy is enforced by the CORS layer in front of this
	// handler.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn is the transport endpoint stored in rooms. TrySend never
// blocks; a full buffer is reported as backpressure and handled by
// the router. The closed flag keeps a late send from hitting the
// closed channel while other room memberships are still unwinding.
type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

type Controller struct {
	Router    *hub.Router
	Registry  *hub.Registry
	ReadLimit int64
}

// Handle upgrades the request and runs the connection's pumps. Each
// connection gets its own session id; the browser's client token only
// ties log lines together across reconnects.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.NewString())
	log.Info().Str("module", "adapters.ws").Str("sid", string(sid)).Str("client", c.GetString("client_token")).Msg("new WS connection")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Str("module", "adapters.ws").Err(err).Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		conn.SetReadLimit(ctl.ReadLimit)
	}

	wc := &wsConn{
		conn: conn,
		send: make(chan core.Frame, 256),
	}
	ctl.Registry.Bind(sid, wc)

	connCtx, cancel := context.WithCancel(ctx)
	go ctl.writePump(connCtx, wc)
	go ctl.readPump(connCtx, cancel, sid, wc)
}

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "adapters.ws").Str("sid", string(sid)).Msg("connection closed")
		ctl.Router.OnDisconnect(sid)
		c.Close()
		cancel()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				return
			}
			ev, err := hub.DecodeEvent(data)
			if err != nil {
				log.Warn().Str("module", "adapters.ws").Str("sid", string(sid)).Err(err).Msg("bad message")
				continue
			}
			ctl.Router.Dispatch(sid, ev)
		}
	}
}
