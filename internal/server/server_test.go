package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futurechat/internal/engine"
	"futurechat/internal/knowledge"
	"futurechat/internal/matcher"
)

func newTestServer() (*Server, *engine.Engine) {
	e := engine.New(knowledge.NewSeeded(nil), matcher.Disabled("test"),
		engine.WithSeed(1), engine.WithIdentity("FutureChat Web", "3.0"))
	return New(e, Config{}), e
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestChat(t *testing.T) {
	s, _ := newTestServer()

	rec := do(t, s, http.MethodPost, "/chat", `{"message": "научить: кошки - кошки любят спать"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	rec = do(t, s, http.MethodPost, "/chat", `{"message": "кошки"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var reply engine.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "кошки любят спать", reply.Text)
	assert.Equal(t, "knowledge", string(reply.Source))
}

func TestChat_EmptyAndMissingMessage(t *testing.T) {
	s, _ := newTestServer()
	for _, body := range []string{`{"message": "   "}`, `{}`} {
		rec := do(t, s, http.MethodPost, "/chat", body)
		require.Equal(t, http.StatusOK, rec.Code)
		var out map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, engine.EmptyInputPrompt, out["response"])
	}
}

func TestChat_BadRequest(t *testing.T) {
	s, _ := newTestServer()
	rec := do(t, s, http.MethodPost, "/chat", `{"message":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/chat", `{"message": "`+strings.Repeat("а", MaxBodyBytes)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/chat", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTeach(t *testing.T) {
	s, e := newTestServer()

	rec := do(t, s, http.MethodPost, "/teach", `{"topic": "Собаки", "info": "собаки умные"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var out TeachResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, TeachResponse{Key: "собаки", Created: true, Added: true}, out)
	assert.Equal(t, []string{"собаки умные"}, e.Knowledge().Replies("собаки"))

	rec = do(t, s, http.MethodPost, "/teach", `{"topic": "собаки"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats(t *testing.T) {
	s, e := newTestServer()
	e.Respond(context.Background(), "привет")

	rec := do(t, s, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st engine.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "FutureChat Web", st.Name)
	assert.Equal(t, 1, st.ConversationCount)
	assert.Equal(t, len(knowledge.Seeds), st.KnowledgeTopics)
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer()
	do(t, s, http.MethodPost, "/chat", `{"message": "привет"}`)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "futurechat_engine_turns_total")
}

func TestRequestID(t *testing.T) {
	s, _ := newTestServer()

	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestListenAndServe_Shutdown(t *testing.T) {
	s, _ := newTestServer()
	s.cfg.Addr = "127.0.0.1:0"
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
