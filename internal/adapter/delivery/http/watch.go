package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/gorilla/websocket"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
)

const (
	watchWriteWait  = 10 * time.Second
	watchPongWait   = 60 * time.Second
	watchPingPeriod = watchPongWait * 9 / 10
)

// watchConn serializes writes to a websocket connection.
type watchConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *watchConn) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(watchWriteWait))
	return c.conn.WriteMessage(messageType, data)
}

func (c *watchConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(watchWriteWait))
	return c.conn.WriteJSON(v)
}

// watchLinks streams the owner's links over a websocket: the current list
// first and the full list again after every change, until the client leaves.
func (h *linkHandler) watchLinks(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerIDFromContext(r.Context())
	logger := httplog.LogEntry(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		return
	}
	defer conn.Close()

	wc := &watchConn{conn: conn}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	stop, err := h.links.Watch(ctx, ownerID, func(links []*entity.Link, err error) {
		msg := watchMessage{Links: toLinkResponses(links)}
		if err != nil {
			logger.Warn("failed to refresh watched links", slog.String("owner_id", ownerID), slog.Any("err", err))
			msg = watchMessage{Links: []linkResponse{}, Error: unavailableResponse.Message}
		}

		if err := wc.writeJSON(msg); err != nil {
			cancel()
		}
	})
	if err != nil {
		logger.Error("failed to start watching links", slog.String("owner_id", ownerID), slog.Any("err", err))
		wc.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, unavailableResponse.Message))
		return
	}
	defer stop()

	go h.pingWatcher(ctx, cancel, wc)

	conn.SetReadDeadline(time.Now().Add(watchPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchPongWait))
	})

	// Clients only send control frames; reading returns once they leave.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *linkHandler) pingWatcher(ctx context.Context, cancel context.CancelFunc, wc *watchConn) {
	ticker := time.NewTicker(watchPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := wc.write(websocket.PingMessage, nil); err != nil {
				cancel()
				return
			}
		}
	}
}
