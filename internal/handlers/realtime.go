package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"ecotrack-backend/internal/fanout"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

// SubscriptionHub hands out and takes back realtime subscriptions.
type SubscriptionHub interface {
	Subscribe() *fanout.Subscriber
	Unsubscribe(sub *fanout.Subscriber)
}

type RealtimeHandler struct {
	hub    SubscriptionHub
	accept *websocket.AcceptOptions
	log    *zap.Logger
}

// NewRealtimeHandler accepts WebSocket upgrades from the given origins.
// "*" allows any origin.
func NewRealtimeHandler(hub SubscriptionHub, origins []string, log *zap.Logger) *RealtimeHandler {
	opts := &websocket.AcceptOptions{}
	for _, o := range origins {
		if o == "*" {
			opts.InsecureSkipVerify = true
			break
		}
		host := o
		if i := strings.Index(host, "://"); i >= 0 {
			host = host[i+3:]
		}
		opts.OriginPatterns = append(opts.OriginPatterns, host)
	}
	return &RealtimeHandler{hub: hub, accept: opts, log: log}
}

// --- GET /ws ---
// No handshake payload. Every newFeedback broadcast is written as one JSON
// text frame until the client leaves or the hub shuts down.

func (h *RealtimeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, h.accept)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	log := h.log.With(zap.String("subscriber_id", sub.ID))
	log.Info("realtime client connected")

	// CloseRead drains client frames and cancels ctx once the peer goes away.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			log.Info("realtime client disconnected")
			return
		case event, ok := <-sub.Events():
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := write(ctx, conn, event); err != nil {
				log.Info("realtime client dropped", zap.Error(err))
				return
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}
