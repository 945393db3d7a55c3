package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"reelify.io/movie-advisor/internal/auth"
	"reelify.io/movie-advisor/internal/catalog"
	"reelify.io/movie-advisor/internal/core"
)

type contextKey string

const sessionIDKey contextKey = "sessionID"

type APIHandler struct {
	recommender *core.Recommender
	sessions    *core.SessionManager
}

func NewAPIHandler(r *core.Recommender, sm *core.SessionManager) *APIHandler {
	return &APIHandler{recommender: r, sessions: sm}
}

// SessionAuthMiddleware resolves the session token into a session id on the
// request context.
func (h *APIHandler) SessionAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		sessionID, err := auth.ValidateSessionToken(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

// CreateSessionHandler starts a new conversation session and returns the
// token clients must present on stateful endpoints.
func (h *APIHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.NewSession()

	token, err := auth.GenerateSessionToken(session.ID)
	if err != nil {
		log.Printf("Error generating session token for %s: %v", session.ID, err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateSessionResponse{SessionID: session.ID, Token: token})
}

type ChatRequest struct {
	Query   string            `json:"query"`
	Profile *core.UserProfile `json:"profile,omitempty"`
}

// ChatHandler answers a free-text recommendation query for the session.
func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Context().Value(sessionIDKey).(string)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "Query cannot be empty", http.StatusBadRequest)
		return
	}

	resp := h.recommender.GetResponse(r.Context(), sessionID, req.Query, req.Profile)
	json.NewEncoder(w).Encode(resp)
}

// ResetHandler clears the session's recommendation state.
func (h *APIHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Context().Value(sessionIDKey).(string)
	h.recommender.ResetConversation(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// HistoryHandler returns the session's question/answer history.
func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Context().Value(sessionIDKey).(string)

	history := h.recommender.History(sessionID)
	if history == nil {
		history = []core.Exchange{}
	}
	json.NewEncoder(w).Encode(history)
}

// SearchHandler is the stateless similarity search: no session, no exclusion
// carry-over, duplicates removed within the call only.
func (h *APIHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Query parameter 'q' is required", http.StatusBadRequest)
		return
	}

	k := 5
	if kStr := r.URL.Query().Get("k"); kStr != "" {
		parsed, err := strconv.Atoi(kStr)
		if err != nil || parsed < 0 {
			http.Error(w, "Query parameter 'k' must be a non-negative integer", http.StatusBadRequest)
			return
		}
		k = parsed
	}

	docs, err := h.recommender.SearchSimilarMovies(r.Context(), query, k)
	if err != nil {
		log.Printf("Error searching movies for %q: %v", query, err)
		docs = nil // Soft failure: empty result rather than a 5xx
	}
	if docs == nil {
		docs = []catalog.Document{}
	}
	json.NewEncoder(w).Encode(docs)
}

type SuggestionsRequest struct {
	Profile core.UserProfile `json:"profile"`
	K       int              `json:"k,omitempty"`
}

// SuggestionsHandler returns profile-driven suggestions for the session.
func (h *APIHandler) SuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Context().Value(sessionIDKey).(string)

	var req SuggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.K <= 0 {
		req.K = 4
	}

	suggestions, err := h.recommender.GetProfileSuggestions(r.Context(), sessionID, req.Profile, req.K)
	if err != nil {
		log.Printf("Error getting suggestions for session %s: %v", sessionID, err)
		suggestions = nil
	}
	if suggestions == nil {
		suggestions = []core.Suggestion{}
	}
	json.NewEncoder(w).Encode(suggestions)
}
