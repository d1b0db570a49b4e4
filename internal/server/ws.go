package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Write deadline for one scene message.
const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// SceneHandler streams published scene views to browser renderers over
// WebSocket.
type SceneHandler struct {
	engine Engine
}

// NewSceneHandler creates a new SceneHandler.
func NewSceneHandler(e Engine) *SceneHandler {
	return &SceneHandler{engine: e}
}

// ServeHTTP handles WebSocket upgrade requests. The current view is sent
// immediately, then every published view.
func (h *SceneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	views, cancel := h.engine.Subscribe()
	defer cancel()

	// Keep reading so close frames are processed
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.send(conn, h.engine.View()); err != nil {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case v := <-views:
			if err := h.send(conn, v); err != nil {
				return
			}
		}
	}
}

func (h *SceneHandler) send(conn *websocket.Conn, v any) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, msg)
}
