package gateway

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/c360/pipewright/pipeline"
)

const wsWriteTimeout = 5 * time.Second

// handlePipelineEvents streams status snapshots for one instance over a
// websocket until the instance reaches a terminal state or the client
// disconnects. The final snapshot is always delivered before close.
func (s *Server) handlePipelineEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.pipelines.Status(id); err != nil {
		s.writeError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Drain client frames so close and ping control messages are processed
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.statusInterval)
	defer ticker.Stop()

	for {
		status, err := s.pipelines.Status(id)
		if err != nil {
			// Instance evicted, e.g. by shutdown
			_ = s.writeClose(conn, websocket.CloseGoingAway, err.Error())
			return
		}
		if err := s.writeStatus(conn, status); err != nil {
			return
		}
		if status.State.Terminal() {
			_ = s.writeClose(conn, websocket.CloseNormalClosure, string(status.State))
			return
		}

		select {
		case <-ticker.C:
		case <-clientGone:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) writeStatus(conn *websocket.Conn, status pipeline.Status) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(status); err != nil {
		s.logger.Debug("websocket write failed", "instance_id", status.ID, "error", err)
		return err
	}
	return nil
}

func (s *Server) writeClose(conn *websocket.Conn, code int, reason string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), time.Now().Add(wsWriteTimeout))
}
