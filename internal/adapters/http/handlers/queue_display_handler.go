package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"shopserve/internal/adapters/notify"
	"shopserve/internal/core/services"
	"shopserve/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

const (
	clientBuffer    = 50
	pingInterval    = 20 * time.Second
	pongWait        = 60 * time.Second
	writeWait       = 5 * time.Second
	heartbeatSSE    = 30 * time.Second
	snapshotTimeout = 3 * time.Second
)

// QueueDisplayHandler handles public display endpoints (no auth)
type QueueDisplayHandler struct {
	queueService *services.QueueService
	hub          *notify.Hub
}

// NewQueueDisplayHandler creates a new display handler
func NewQueueDisplayHandler(queueService *services.QueueService, hub *notify.Hub) *QueueDisplayHandler {
	return &QueueDisplayHandler{
		queueService: queueService,
		hub:          hub,
	}
}

// ============================================================
// GET /api/v1/display: current queue for the lobby screen
// ============================================================
func (h *QueueDisplayHandler) GetDisplayData(c *fiber.Ctx) error {
	snapshot, err := h.queueService.Snapshot(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Display data retrieved", snapshot)
}

// initialSnapshot queues the current queue so a fresh screen does not wait for the next event
func (h *QueueDisplayHandler) initialSnapshot(client *notify.Client) {
	if client.Topic == notify.TopicLedger {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	snapshot, err := h.queueService.Snapshot(ctx)
	if err != nil {
		log.Printf("⚠️ Initial snapshot for %s failed: %v", client.ID, err)
		return
	}
	client.Send <- notify.Message{Event: notify.EventQueueSnapshot, Data: snapshot, SentAt: time.Now()}
}

// ============================================================
// GET /ws/queue, /ws/ledger: WebSocket feeds
// ============================================================

// UpgradeGuard rejects plain HTTP requests on WebSocket routes
func UpgradeGuard(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// StreamWS returns a WebSocket handler subscribed to topic
func (h *QueueDisplayHandler) StreamWS(topic string) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.serveWS(conn, topic)
	})
}

func (h *QueueDisplayHandler) serveWS(conn *websocket.Conn, topic string) {
	client := notify.NewClient("ws-"+uuid.NewString(), topic, clientBuffer)
	h.initialSnapshot(client)
	h.hub.Register(client)

	done := make(chan struct{})
	go h.writeLoop(conn, client, done)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Read loop: displays never send anything meaningful, this only detects disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure,
			) {
				log.Printf("⚠️ WS %s unexpected close: %v", client.ID, err)
			}
			break
		}
	}

	h.hub.Unregister(client.ID)
	<-done
}

// writeLoop is the only goroutine writing to conn
func (h *QueueDisplayHandler) writeLoop(conn *websocket.Conn, client *notify.Client, done chan<- struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("⚠️ WS %s write error: %v", client.ID, err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ============================================================
// GET /api/v1/display/events: SSE for screens without WebSocket
// ============================================================
func (h *QueueDisplayHandler) DisplaySSE(c *fiber.Ctx) error {
	client := notify.NewClient("sse-"+uuid.NewString(), notify.TopicQueue, clientBuffer)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		h.initialSnapshot(client)
		h.hub.Register(client)
		defer h.hub.Unregister(client.ID)

		fmt.Fprintf(w, "event: connected\ndata: {\"client_id\":%q,\"topic\":%q}\n\n", client.ID, client.Topic)
		if err := w.Flush(); err != nil {
			return
		}

		heartbeat := time.NewTicker(heartbeatSSE)
		defer heartbeat.Stop()

		for {
			select {
			case msg, ok := <-client.Send:
				if !ok {
					return
				}
				if err := writeSSEEvent(w, msg); err != nil {
					log.Printf("📡 SSE client disconnected: %s", client.ID)
					return
				}
			case <-heartbeat.C:
				fmt.Fprintf(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					log.Printf("📡 SSE client disconnected: %s", client.ID)
					return
				}
			}
		}
	}))

	return nil
}

// writeSSEEvent writes one event frame and flushes it
func writeSSEEvent(w *bufio.Writer, msg notify.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("⚠️ SSE encode %s failed: %v", msg.Event, err)
		return nil
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, data)
	return w.Flush()
}
