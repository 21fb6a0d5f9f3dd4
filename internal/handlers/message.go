package handlers

import (
	"encoding/json"
	"net/http"

	"ridesafe-backend/internal/middleware"
	"ridesafe-backend/internal/models"
	"ridesafe-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// MessageHandler handles in-ride messaging HTTP requests
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// SendMessageRequest is the message request body.
type SendMessageRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// SendMessage handles POST /api/v1/rides/{rideID}/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	rideID := chi.URLParam(r, "rideID")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.messageService.SendMessage(r.Context(), rideID, userID, req.Content, req.Type)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

// ListMessages handles GET /api/v1/rides/{rideID}/messages
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	rideID := chi.URLParam(r, "rideID")

	messages, err := h.messageService.ListMessages(r.Context(), rideID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if messages == nil {
		messages = []*models.Message{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}

// MarkRead handles POST /api/v1/messages/{messageID}/read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	messageID := chi.URLParam(r, "messageID")

	msg, err := h.messageService.MarkRead(r.Context(), messageID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, msg)
}
