package handler

import (
	"context"
	"net/http"
	"time"

	"teleradiology-case-routing/internal/delivery/http/middleware"
	"teleradiology-case-routing/internal/domain/entity"
	"teleradiology-case-routing/internal/infrastructure/realtime"
	"teleradiology-case-routing/internal/service"
	"teleradiology-case-routing/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades authenticated requests to the live notification channel.
type WSHandler struct {
	hub        *realtime.Hub
	notifier   service.NotificationService
	log        *logrus.Logger
	sendBuffer int
}

func NewWSHandler(hub *realtime.Hub, notifier service.NotificationService, log *logrus.Logger, sendBuffer int) *WSHandler {
	return &WSHandler{
		hub:        hub,
		notifier:   notifier,
		log:        log,
		sendBuffer: sendBuffer,
	}
}

// Connect registers the caller's live connection. The optional X-Radiologist-Id
// header must name the authenticated user.
func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	if claimed := r.Header.Get("X-Radiologist-Id"); claimed != "" {
		claimedID, err := uuid.Parse(claimed)
		if err != nil || claimedID != userID {
			response.Forbidden(w, "Radiologist ID does not match token")
			return
		}
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.log.Warnf("Failed to upgrade websocket: %+v", err)
		return
	}

	client := realtime.NewClient(userID, string(role), h.sendBuffer)
	h.hub.Register(client)
	h.log.WithFields(logrus.Fields{"user_id": userID, "role": role}).Info("Live connection opened")

	go h.writePump(client, ws)
	go h.readPump(client, ws)
}

// readPump discards inbound messages and unregisters the client when the socket closes.
func (h *WSHandler) readPump(client *realtime.Client, ws *websocket.Conn) {
	defer func() {
		ws.Close()
		if !h.hub.Unregister(client) {
			// Replaced by a newer connection for the same user.
			return
		}
		h.log.WithField("user_id", client.UserID).Info("Live connection closed")
		if client.Role == string(entity.RoleRadiologist) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			h.notifier.RecordDisconnect(ctx, client.UserID)
		}
	}()

	ws.SetReadLimit(4096)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump writes queued events to the socket until the hub closes the queue.
func (h *WSHandler) writePump(client *realtime.Client, ws *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
