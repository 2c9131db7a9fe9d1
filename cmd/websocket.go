package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"estateBack/internal/handlers"
	"estateBack/internal/models"
)

const (
	readLimit     = 4 << 10
	readDeadline  = 120 * time.Second // extended by every pong
	writeDeadline = 5 * time.Second
	pingInterval  = 15 * time.Second
)

type client struct {
	adminID string
	conn    *websocket.Conn
}

// ModerationHub forwards moderation events to connected admin dashboards.
// All access to clients happens inside Run.
type ModerationHub struct {
	clients    map[*websocket.Conn]string
	register   chan client
	unregister chan *websocket.Conn
	done       chan struct{}

	infoLog  *log.Logger
	errorLog *log.Logger
}

func NewModerationHub(infoLog, errorLog *log.Logger) *ModerationHub {
	return &ModerationHub{
		clients:    make(map[*websocket.Conn]string),
		register:   make(chan client),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		infoLog:    infoLog,
		errorLog:   errorLog,
	}
}

// Run serves the hub until ctx is done. A nil events channel only disables
// broadcasting.
func (h *ModerationHub) Run(ctx context.Context, events <-chan models.ModerationEvent) {
	defer func() {
		for conn := range h.clients {
			_ = writeClose(conn, websocket.CloseGoingAway, "server shutting down")
			_ = conn.Close()
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c.conn] = c.adminID
			h.infoLog.Printf("WS moderation register admin=%s", c.adminID)

		case conn := <-h.unregister:
			if id, ok := h.clients[conn]; ok {
				_ = conn.Close()
				delete(h.clients, conn)
				h.infoLog.Printf("WS moderation unregister admin=%s", id)
			}

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			for conn, id := range h.clients {
				_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := conn.WriteJSON(ev); err != nil {
					h.errorLog.Printf("WS moderation send to admin=%s: %v", id, err)
					_ = conn.Close()
					delete(h.clients, conn)
				}
			}
		}
	}
}

func (h *ModerationHub) leave(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are checked by the CORS layer and the token.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ModerationWebSocketHandler streams moderation events to an admin. The route
// is behind the admin JWT middleware; clients only receive.
func (app *application) ModerationWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	actor := handlers.ActorFrom(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.errorLog.Println("WebSocket upgrade error:", err)
		return
	}

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	select {
	case app.hub.register <- client{adminID: actor.ID, conn: conn}:
	case <-app.hub.done:
		_ = writeClose(conn, websocket.CloseGoingAway, "server shutting down")
		_ = conn.Close()
		return
	}

	stop := make(chan struct{})
	go pingLoop(app.hub, conn, stop)

	// Drain incoming frames so pongs and close frames are processed.
	go func() {
		defer func() {
			close(stop)
			app.hub.leave(conn)
		}()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()
}

func pingLoop(h *ModerationHub, conn *websocket.Conn, stop <-chan struct{}) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			deadline := time.Now().Add(writeDeadline)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				h.leave(conn)
				return
			}
		}
	}
}

func writeClose(conn *websocket.Conn, code int, reason string) error {
	return conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(writeDeadline),
	)
}
