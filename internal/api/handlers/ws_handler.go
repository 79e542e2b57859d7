package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yoockh/devconnect/internal/events"
	"github.com/yoockh/devconnect/internal/services"
	"github.com/yoockh/devconnect/internal/utils"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// WSHandler streams profile events to websocket clients.
type WSHandler struct {
	profiles services.ProfileService
	bus      *events.RedisBus
	upgrader websocket.Upgrader
}

func NewWSHandler(profiles services.ProfileService, bus *events.RedisBus, allowedOrigins []string) *WSHandler {
	allow := map[string]struct{}{}
	for _, o := range allowedOrigins {
		allow[o] = struct{}{}
	}
	return &WSHandler{
		profiles: profiles,
		bus:      bus,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allow) == 0 {
					return true
				}
				_, ok := allow[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) write(kind int, b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(kind, b)
}

// ProfileFeed forwards the events of one profile until the client leaves.
func (h *WSHandler) ProfileFeed(c *gin.Context) {
	const op = "WSHandler.ProfileFeed"

	if h.bus == nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "live feed is not configured", nil))
		return
	}

	userID := c.Param("user_id")
	// only existing profiles can be followed
	if _, err := h.profiles.GetByUserID(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.bus.Subscribe(ctx, userID)
	defer pubsub.Close()

	// reader: only keeps the deadline fresh and notices the close
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	msgs := pubsub.Channel()
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := wc.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case m, ok := <-msgs:
			if !ok {
				return
			}
			// payload is already a JSON encoded events.ProfileEvent
			if err := wc.write(websocket.TextMessage, []byte(m.Payload)); err != nil {
				return
			}
		}
	}
}
