package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reelify.io/movie-advisor/internal/catalog"
	"reelify.io/movie-advisor/internal/config"
	"reelify.io/movie-advisor/internal/core"
)

type stubIndex struct {
	docs []catalog.Document
	err  error
}

func (s *stubIndex) Search(ctx context.Context, query string, k int) ([]catalog.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	if k > len(s.docs) {
		k = len(s.docs)
	}
	return s.docs[:k], nil
}

func newTestServer(t *testing.T, index core.Searcher) *httptest.Server {
	t.Helper()
	config.AppConfig.JWTSecret = "test-secret"

	sessions := core.NewSessionManager(time.Hour)
	recommender := core.NewRecommender(index, sessions, 5, 0)
	handler := NewAPIHandler(recommender, sessions)

	srv := httptest.NewServer(NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/session", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/session status = %d, want 201", resp.StatusCode)
	}

	var body CreateSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode session response: %v", err)
	}
	if body.SessionID == "" || body.Token == "" {
		t.Fatalf("incomplete session response: %+v", body)
	}
	return body.Token
}

func authedRequest(t *testing.T, method, url, token, payload string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func sampleDocs() []catalog.Document {
	return catalog.RenderDocuments(catalog.SampleMovies())
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubIndex{docs: sampleDocs()})

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}
}

func TestChatRequiresToken(t *testing.T) {
	srv := newTestServer(t, &stubIndex{docs: sampleDocs()})

	resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(`{"query":"action"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated chat status = %d, want 401", resp.StatusCode)
	}
}

func TestChatFlow(t *testing.T) {
	srv := newTestServer(t, &stubIndex{docs: sampleDocs()})
	token := createSession(t, srv)

	resp := authedRequest(t, http.MethodPost, srv.URL+"/api/chat", token, `{"query":"un film d'action"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat status = %d, want 200", resp.StatusCode)
	}

	var body core.Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode chat response: %v", err)
	}
	if body.Answer == "" {
		t.Error("chat returned an empty answer")
	}
	if len(body.SourceDocuments) == 0 {
		t.Error("chat returned no source documents")
	}

	// The exchange shows up in the session history.
	histResp := authedRequest(t, http.MethodGet, srv.URL+"/api/history", token, "")
	defer histResp.Body.Close()
	var history []core.Exchange
	if err := json.NewDecoder(histResp.Body).Decode(&history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history) != 1 || history[0].Question != "un film d'action" {
		t.Errorf("history = %+v, want the one chat exchange", history)
	}

	// Reset clears it.
	resetResp := authedRequest(t, http.MethodPost, srv.URL+"/api/chat/reset", token, "")
	resetResp.Body.Close()
	if resetResp.StatusCode != http.StatusNoContent {
		t.Errorf("reset status = %d, want 204", resetResp.StatusCode)
	}
}

func TestChatSoftFailsOnIndexError(t *testing.T) {
	srv := newTestServer(t, &stubIndex{err: errors.New("index down")})
	token := createSession(t, srv)

	resp := authedRequest(t, http.MethodPost, srv.URL+"/api/chat", token, `{"query":"action"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat status = %d, want 200 even when the index fails", resp.StatusCode)
	}

	var body core.Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode chat response: %v", err)
	}
	if len(body.SourceDocuments) != 0 {
		t.Errorf("got %d source documents on index failure, want 0", len(body.SourceDocuments))
	}
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubIndex{docs: sampleDocs()})

	resp, err := http.Get(srv.URL + "/api/search?q=crime&k=3")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d, want 200", resp.StatusCode)
	}

	var docs []catalog.Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		t.Fatalf("decode search response: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("got %d documents, want 3", len(docs))
	}
}

func TestSearchRejectsMissingQuery(t *testing.T) {
	srv := newTestServer(t, &stubIndex{docs: sampleDocs()})

	resp, err := http.Get(srv.URL + "/api/search")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("search without q status = %d, want 400", resp.StatusCode)
	}
}

func TestSuggestionsEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubIndex{docs: sampleDocs()})
	token := createSession(t, srv)

	payload := `{"profile":{"genres":[{"name":"science-fiction","score":5}]},"k":4}`
	resp := authedRequest(t, http.MethodPost, srv.URL+"/api/suggestions", token, payload)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("suggestions status = %d, want 200", resp.StatusCode)
	}

	var suggestions []core.Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&suggestions); err != nil {
		t.Fatalf("decode suggestions: %v", err)
	}
	if len(suggestions) == 0 || len(suggestions) > 4 {
		t.Errorf("got %d suggestions, want between 1 and 4", len(suggestions))
	}
	for _, s := range suggestions {
		if s.Title == "" || s.ID == 0 {
			t.Errorf("incomplete suggestion: %+v", s)
		}
	}
}
