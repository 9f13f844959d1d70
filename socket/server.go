package socket

import (
	"bumblechat_server/logger"
	"bumblechat_server/models"

	socketio "github.com/googollee/go-socket.io"
)

// Hub is the realtime push layer. Clients join the room of a chat channel to
// receive its messages, and subscribe to their per-user room for contact and
// notification pushes. Every push carries the whole document; clients replace
// state wholesale.
type Hub struct {
	Server *socketio.Server
}

// NewHub initializes the socket.io server and its event handlers.
func NewHub() *Hub {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		logger.Sugar.Debugf("✅ Socket connected: %s", c.ID())
		return nil
	})

	// join a chat channel room
	server.OnEvent("/", "join", func(c socketio.Conn, chatID string) {
		if chatID == "" {
			logger.Sugar.Warn("⚠️ Invalid chatId in join request")
			return
		}
		c.Join(chatID)
		logger.Sugar.Debugf("👥 Socket %s joined chat %s", c.ID(), chatID)
	})

	server.OnEvent("/", "leave", func(c socketio.Conn, chatID string) {
		if chatID != "" {
			c.Leave(chatID)
		}
	})

	// subscribe to the per-user room for contact/notification pushes
	server.OnEvent("/", "subscribe", func(c socketio.Conn, uid string) {
		if uid == "" {
			return
		}
		c.Join(userRoom(uid))
		logger.Sugar.Debugf("🔔 Socket %s subscribed as user %s", c.ID(), uid)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		logger.Sugar.Debugf("❌ Socket disconnected: %s (%s)", c.ID(), reason)
	})

	return &Hub{Server: server}
}

// BroadcastMessage pushes a new message to everyone in its chat room.
func (h *Hub) BroadcastMessage(message *models.Message) {
	h.Server.BroadcastToRoom("/", message.ChatID, "newMessage", message)
}

// BroadcastMessagesRead tells the chat room that one side caught up.
func (h *Hub) BroadcastMessagesRead(chatID, readerUID string) {
	h.Server.BroadcastToRoom("/", chatID, "messagesRead", map[string]string{
		"chatId": chatID,
		"uid":    readerUID,
	})
}

// NotifyUser pushes an event into a user's private room.
func (h *Hub) NotifyUser(uid, event string, payload interface{}) {
	h.Server.BroadcastToRoom("/", userRoom(uid), event, payload)
}

func userRoom(uid string) string {
	return "user:" + uid
}
