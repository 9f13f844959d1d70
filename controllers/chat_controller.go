package controllers

import (
	"net/http"
	"strconv"

	"bumblechat_server/logger"
	"bumblechat_server/models"
	"bumblechat_server/services"
	"bumblechat_server/socket"

	"github.com/gorilla/mux"
)

// ChatController handles sending and fetching chat messages.
type ChatController struct {
	ChatService *services.ChatService
	Hub         *socket.Hub
}

// NewChatController initializes the chat controller.
func NewChatController(service *services.ChatService, hub *socket.Hub) *ChatController {
	return &ChatController{ChatService: service, Hub: hub}
}

// HandleSendMessage appends a message to the caller's channel with the
// recipient and pushes it to the chat room.
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var request struct {
		RecipientID string `json:"recipientId"`
		Text        string `json:"text"`
	}
	if !decodeBody(w, r, &request) {
		return
	}
	if request.RecipientID == "" {
		respondError(w, http.StatusBadRequest, "recipientId is required")
		return
	}

	message, err := c.ChatService.SendMessage(r.Context(), identity.UID, request.RecipientID, request.Text)
	if err != nil {
		logger.Sugar.Warnf("⚠️ Failed to send message from %s: %v", identity.UID, err)
		respondServiceError(w, err)
		return
	}

	c.Hub.BroadcastMessage(message)

	respondJSON(w, http.StatusCreated, message)
}

// HandleGetMessages returns the channel history with a peer, oldest first.
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	peerID := mux.Vars(r)["peerId"]
	if peerID == "" {
		respondError(w, http.StatusBadRequest, "peerId is required")
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	messages, err := c.ChatService.GetMessages(r.Context(), identity.UID, peerID, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// HandleMarkMessagesAsRead flips status on messages the caller received.
func (c *ChatController) HandleMarkMessagesAsRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	peerID := mux.Vars(r)["peerId"]
	if peerID == "" {
		respondError(w, http.StatusBadRequest, "peerId is required")
		return
	}

	updated, err := c.ChatService.MarkMessagesAsRead(r.Context(), identity.UID, peerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if updated > 0 {
		c.Hub.BroadcastMessagesRead(models.ChatID(identity.UID, peerID), identity.UID)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "updated": updated})
}
