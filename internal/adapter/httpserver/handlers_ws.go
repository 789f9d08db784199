package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/WilliamTrivedi/Blood-Donation/internal/alert"
	"github.com/WilliamTrivedi/Blood-Donation/internal/metrics"
)

const maxInboundMessageSize = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Browser clients connect from the app origin
	},
}

func (s *Server) handleWebSocket(c echo.Context) error {
	ip := c.RealIP()

	ok, reason := s.connLimits.Acquire(ip)
	if !ok {
		metrics.WebSocketConnectionsRejected.WithLabelValues(string(reason)).Inc()
		slog.Warn("WebSocket connection rejected", "ip", ip, "reason", reason)
		return c.String(http.StatusTooManyRequests, "Too many connections")
	}
	defer s.connLimits.Release(ip)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}

	if err := s.dispatcher.Register(conn); err != nil {
		slog.Error("Failed to register subscriber", "error", err)
		conn.Close()
		return nil
	}

	conn.SetReadLimit(maxInboundMessageSize)

	// Read pump, blocks until the connection closes or unregisters.
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		msg, err := alert.DecodeInbound(data)
		if err != nil {
			metrics.DispatcherMalformedMessagesTotal.Inc()
			continue
		}

		switch msg.Type {
		case alert.TypeRegisterDonor:
			s.dispatcher.BindDonor(conn, msg.DonorID)
		case alert.TypeUnregister:
			s.dispatcher.Unregister(conn)
			return nil
		default:
			metrics.DispatcherMalformedMessagesTotal.Inc()
		}
	}

	s.dispatcher.Unregister(conn)

	return nil //nolint:nilerr // ReadMessage err is block-scoped; outer err is nil
}
