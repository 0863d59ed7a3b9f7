// File: internal/handlers/chat_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/neochat/neochat/internal/dtos"
	"github.com/neochat/neochat/internal/middleware"
	"github.com/neochat/neochat/internal/services/chat_services"
)

// ChatHandler exposes the chat list, message threads and the send path.
type ChatHandler struct {
	Store      *chat_services.ChatService
	Controller *chat_services.ChatController
}

func NewChatHandler(store *chat_services.ChatService, controller *chat_services.ChatController) *ChatHandler {
	return &ChatHandler{Store: store, Controller: controller}
}

// ListChats handles GET /api/chats?filter=all|unread|pinned|groups.
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := chat_services.ChatFilter(r.URL.Query().Get("filter"))
	switch filter {
	case chat_services.ChatsUnread, chat_services.ChatsPinned, chat_services.ChatsGroups:
	default:
		filter = chat_services.ChatsAll
	}

	chats, err := h.Store.ListChats(r.Context(), filter)
	if err != nil {
		writeError(w, "Could not retrieve chats", http.StatusInternalServerError)
		return
	}

	resp := make([]dtos.ChatResponse, 0, len(chats))
	for i := range chats {
		resp = append(resp, dtos.NewChatResponse(&chats[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// StartChat finds or creates the private chat with the requested user.
func (h *ChatHandler) StartChat(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.StartChatRequest
	if err := decodeJSON(r, &req); err != nil || req.Username == "" {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	chat, err := h.Store.FindOrCreatePrivateChat(r.Context(), username, req.Username)
	if err != nil {
		writeError(w, "Could not start chat", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewChatResponse(chat))
}

// GetMessages returns a chat's ordered message log. With ?render=1 each
// message also carries a markdown-rendered HTML preview.
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chatID := mux.Vars(r)["id"]
	if _, err := h.Store.Chat(r.Context(), chatID); err != nil {
		if errors.Is(err, chat_services.ErrChatNotFound) {
			writeError(w, "Chat not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not retrieve messages", http.StatusInternalServerError)
		return
	}

	messages, err := h.Store.Messages(r.Context(), chatID)
	if err != nil {
		writeError(w, "Could not retrieve messages", http.StatusInternalServerError)
		return
	}

	render := r.URL.Query().Get("render") == "1"
	resp := make([]dtos.MessageResponse, 0, len(messages))
	for i := range messages {
		m := dtos.NewMessageResponse(&messages[i])
		if render {
			m.HTML = renderMarkdown(messages[i].Text)
		}
		resp = append(resp, m)
	}
	writeJSON(w, http.StatusOK, resp)
}

// SendMessage posts a message into a chat. Blank text and vanished chats are
// accepted and ignored, matching the store's silent no-op semantics.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chatID := mux.Vars(r)["id"]
	var req dtos.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Controller.SendMessage(r.Context(), chatID, username, req.Text); err != nil {
		writeError(w, "Could not send message", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// OpenChat marks the chat as the open thread and zeroes its unread count.
func (h *ChatHandler) OpenChat(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Controller.Open(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, "Could not open chat", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "open"})
}

// CloseChat returns to the "no chat open" state.
func (h *ChatHandler) CloseChat(w http.ResponseWriter, r *http.Request) {
	h.Controller.Close()
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// PinChat pins or unpins a chat.
func (h *ChatHandler) PinChat(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.PinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Store.SetPinned(r.Context(), mux.Vars(r)["id"], req.Pinned); err != nil {
		if errors.Is(err, chat_services.ErrChatNotFound) {
			writeError(w, "Chat not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not update chat", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MarkRead zeroes one chat's unread count.
func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Store.MarkRead(r.Context(), mux.Vars(r)["id"], username); err != nil && !errors.Is(err, chat_services.ErrChatNotFound) {
		writeError(w, "Could not mark chat read", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MarkAllRead zeroes every chat's unread count.
func (h *ChatHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Store.MarkAllRead(r.Context()); err != nil {
		writeError(w, "Could not mark chats read", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// UnreadCount returns the total unread count for the badge.
func (h *ChatHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	total, err := h.Store.TotalUnread(r.Context())
	if err != nil {
		writeError(w, "Could not compute unread count", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"total_unread": total})
}
