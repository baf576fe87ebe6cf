package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/quillworks/folio/layout"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The preview server is local tooling; cross-origin previews are fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handlePreviewWS upgrades the connection, sends the latest page set and
// keeps the client registered for pagination broadcasts until it disconnects.
func (s *Server) handlePreviewWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	// The snapshot goes out before the connection joins the hub: once added,
	// only the hub's broadcast goroutine may write, so writing here too would
	// race on the connection.
	if set := s.paginator.Latest(); set.Generation > 0 {
		set.Pages = layout.ApplyRightPageStarts(set.Pages)
		if data, err := json.Marshal(set); err == nil {
			if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
				s.log.Warn("preview snapshot write failed", "error", err)
				_ = ws.Close()
				return
			}
		}
	}
	s.hub.Add(ws)
	s.log.Info("preview client connected", "clients", s.hub.Count())

	// Read loop exists only to observe the close.
	go func() {
		defer func() {
			s.hub.Remove(ws)
			s.log.Info("preview client disconnected", "clients", s.hub.Count())
		}()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
