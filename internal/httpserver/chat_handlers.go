package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"socialnet/internal/domain"
	"socialnet/internal/service"
)

type directConversationRequest struct {
	UserID string `json:"user_id"`
}

type groupConversationRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

type conversationResponse struct {
	*domain.Conversation
	Created bool `json:"created"`
}

func handleListConversations(chatSvc *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CurrentUser(r)
		convs, err := chatSvc.ListConversations(r.Context(), caller.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		if convs == nil {
			convs = []*domain.ConversationView{}
		}
		writeJSON(w, http.StatusOK, convs)
	}
}

func handleDirectConversation(chatSvc *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req directConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		caller := CurrentUser(r)
		conv, created, err := chatSvc.GetOrCreateDirect(r.Context(), caller.ID, req.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, conversationResponse{Conversation: conv, Created: created})
	}
}

func handleGroupConversation(chatSvc *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groupConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		caller := CurrentUser(r)
		conv, err := chatSvc.CreateGroup(r.Context(), caller.ID, req.Name, req.MemberIDs)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, conv)
	}
}

func handleListMessages(chatSvc *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CurrentUser(r)

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
				return
			}
			limit = n
		}

		var before *time.Time
		if v := r.URL.Query().Get("before"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "before must be RFC 3339"})
				return
			}
			before = &t
		}

		msgs, err := chatSvc.ListMessages(r.Context(), caller.ID, chi.URLParam(r, "conversationID"), limit, before)
		if err != nil {
			writeError(w, err)
			return
		}
		if msgs == nil {
			msgs = []*domain.Message{}
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

func handleSendMessage(chatSvc *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		caller := CurrentUser(r)
		msg, err := chatSvc.SendMessage(r.Context(), caller.ID, chi.URLParam(r, "conversationID"), req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}
