package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mbocsi/smdp/server"
)

const (
	eventBuffer = 64
	writeWait   = 5 * time.Second
	pingPeriod  = 30 * time.Second
)

var errSubscriberFull = errors.New("event buffer full")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// wsSubscriber forwards broker events to one websocket connection. Send never
// blocks; events are dropped when the connection falls behind.
type wsSubscriber struct {
	id     string
	conn   *websocket.Conn
	events chan server.Event
}

func (s *wsSubscriber) ID() string {
	return s.id
}

func (s *wsSubscriber) Send(evt server.Event) error {
	select {
	case s.events <- evt:
		return nil
	default:
		return errSubscriberFull
	}
}

// HandleEvents upgrades to a websocket and streams hub events as JSON. The
// optional "kind" query parameter narrows the stream to one event kind.
func (w *WebClient) HandleEvents(wr http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(wr, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection", "error", err)
		return
	}

	sub := &wsSubscriber{
		id:     "ws-" + uuid.NewString(),
		conn:   conn,
		events: make(chan server.Event, eventBuffer),
	}
	kind := r.URL.Query().Get("kind")
	if err := w.services.Events.Subscribe(kind, sub); err != nil {
		slog.Error("Failed to subscribe websocket", "error", err)
		conn.Close()
		return
	}
	slog.Info("Event stream connected", "addr", r.RemoteAddr, "subscriber", sub.id, "kind", kind)

	defer func() {
		w.services.Events.Unsubscribe(sub)
		conn.Close()
		slog.Info("Event stream disconnected", "addr", r.RemoteAddr, "subscriber", sub.id)
	}()

	// Reader: only needed to notice the peer closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case evt := <-sub.events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				slog.Warn("Failed to write event", "subscriber", sub.id, "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
