package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newUpstream(t *testing.T, status int, reply string, calls *int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"message":"quota exceeded","type":"rate_limit"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   req.Model,
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]interface{}{"role": "assistant", "content": reply},
			}},
		})
	})
	mux.HandleFunc("/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"id":"gemini-2.5-flash","object":"model","created":0,"owned_by":"google"}]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Config{APIKey: "test-key", Model: "test-model", BaseURL: srv.URL + "/"})
}

func TestGenerate(t *testing.T) {
	var calls int32
	srv := newUpstream(t, http.StatusOK, "  A short summary.  ", &calls)

	got, err := newTestClient(srv).Generate(context.Background(), SummaryPrompt("some long text"))
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerateEmptyReply(t *testing.T) {
	var calls int32
	srv := newUpstream(t, http.StatusOK, "   ", &calls)

	_, err := newTestClient(srv).Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestGenerateUpstreamErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := newUpstream(t, http.StatusTooManyRequests, "", &calls)

	_, err := newTestClient(srv).Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestListModels(t *testing.T) {
	var calls int32
	srv := newUpstream(t, http.StatusOK, "", &calls)

	models, err := newTestClient(srv).ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, Model{ID: "gemini-2.5-flash", OwnedBy: "google"}, models[0])
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{name: "plain", reply: "go, notes, ai", want: []string{"go", "notes", "ai"}},
		{name: "drops empties", reply: " go ,, , notes,", want: []string{"go", "notes"}},
		{name: "caps at five", reply: "a,b,c,d,e,f,g", want: []string{"a", "b", "c", "d", "e"}},
		{name: "empty", reply: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.reply))
		})
	}
}

func TestPrompts(t *testing.T) {
	assert.Equal(t, "Summarize the following text in 2–3 sentences:\n\nbody", SummaryPrompt("body"))
	assert.Contains(t, ImprovePrompt("body"), "Return ONLY the improved text:\n\nbody")
	assert.Contains(t, TagsPrompt("body"), "Return ONLY comma-separated tags.\n\nbody")
}
