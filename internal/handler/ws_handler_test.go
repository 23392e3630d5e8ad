package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartnotes-server/internal/domain"
	"smartnotes-server/internal/websocket"
)

func TestWebSocketReceivesNoteEvents(t *testing.T) {
	s := newTestServer(t, nil)
	login := s.login(t, "live@example.com")
	token := login.AccessToken

	srv := httptest.NewServer(s.router)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := ws.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := ws.DefaultDialer.Dial(wsURL+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return s.manager.GetUserConnections(login.User.ID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	rec := s.do(t, http.MethodPost, "/api/notes", token, map[string]string{"title": "Live", "content": "event"})
	require.Equal(t, http.StatusCreated, rec.Code)
	noteID := decode[domain.NoteResponse](t, rec).Note.ID

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg websocket.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, websocket.TypeNoteCreated, msg.Type)

	var note domain.Note
	require.NoError(t, msg.UnmarshalPayload(&note))
	assert.Equal(t, noteID, note.ID)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/notes/"+noteID, token, nil).Code)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, websocket.TypeNoteDeleted, msg.Type)
	var deleted websocket.NoteDeletedPayload
	require.NoError(t, msg.UnmarshalPayload(&deleted))
	assert.Equal(t, noteID, deleted.ID)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker("http://localhost:3000, https://notes.example.com")

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, check(req), "non-browser clients send no Origin")

	req.Header.Set("Origin", "https://notes.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))

	assert.True(t, originChecker("*")(req))
}
