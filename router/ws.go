package router

import (
	"encoding/json"
	"net/http"
	"sync"

	"amm-indexer/models"

	"github.com/dogecoinw/go-dogecoin/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// SwapHub pushes every committed swap to connected websocket clients. It is
// registered with the indexer as a notifier; a slow or dead client is
// dropped rather than holding up anything.
type SwapHub struct {
	clients  map[*websocket.Conn]struct{}
	mu       sync.Mutex
	upgrader websocket.Upgrader
}

func NewSwapHub() *SwapHub {
	return &SwapHub{
		clients:  make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// NotifySwap implements indexer.Notifier.
func (h *SwapHub) NotifySwap(swap *models.Swap) {
	msg, err := json.Marshal(swap)
	if err != nil {
		log.Warn("router", "ws marshal err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.Close()
			delete(h.clients, c)
		}
	}
}

func (h *SwapHub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("router", "ws upgrade err", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}
