package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"smartnotes-server/internal/domain"
	"smartnotes-server/pkg/logger"
)

// Manager tracks open connections per user and fans note events out to them.
type Manager struct {
	clients        map[string]*Client
	userIndex      map[string]map[string]bool
	clientsMutex   sync.RWMutex
	Register       chan *Client
	Unregister     chan *Client
	done           chan struct{}
	maxConnPerUser int
	writeWait      time.Duration
	pongWait       time.Duration
	pingPeriod     time.Duration
	maxMessageSize int64
}

type Options struct {
	MaxConnPerUser int
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
}

func NewManager(opts Options) *Manager {
	return &Manager{
		clients:        make(map[string]*Client),
		userIndex:      make(map[string]map[string]bool),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		done:           make(chan struct{}),
		maxConnPerUser: opts.MaxConnPerUser,
		writeWait:      opts.WriteWait,
		pongWait:       opts.PongWait,
		pingPeriod:     opts.PingPeriod,
		maxMessageSize: opts.MaxMessageSize,
	}
}

// Run serves registrations until ctx is done, then closes every client. It
// must be called once.
func (m *Manager) Run(ctx context.Context) {
	defer close(m.done)

	for {
		select {
		case client := <-m.Register:
			m.registerClient(ctx, client)

		case client := <-m.Unregister:
			m.unregisterClient(ctx, client)

		case <-ctx.Done():
			m.closeAll()
			return
		}
	}
}

func (m *Manager) registerClient(ctx context.Context, client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if m.userIndex[client.UserID] == nil {
		m.userIndex[client.UserID] = make(map[string]bool)
	}

	if len(m.userIndex[client.UserID]) >= m.maxConnPerUser {
		logger.Log(ctx).Warn(ctx, "max websocket connections reached", zap.String("user_id", client.UserID))
		close(client.Send)
		return
	}

	m.clients[client.ID] = client
	m.userIndex[client.UserID][client.ID] = true

	logger.Log(ctx).Debug(ctx, "websocket client registered",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID))
}

func (m *Manager) unregisterClient(ctx context.Context, client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if _, ok := m.clients[client.ID]; ok {
		delete(m.clients, client.ID)
		delete(m.userIndex[client.UserID], client.ID)

		if len(m.userIndex[client.UserID]) == 0 {
			delete(m.userIndex, client.UserID)
		}

		close(client.Send)
		logger.Log(ctx).Debug(ctx, "websocket client unregistered", zap.String("client_id", client.ID))
	}
}

func (m *Manager) closeAll() {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	for id, client := range m.clients {
		close(client.Send)
		delete(m.clients, id)
	}
	m.userIndex = make(map[string]map[string]bool)
}

func (m *Manager) BroadcastToUser(userID string, message *Message) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	m.clientsMutex.RLock()
	var stalled []*Client
	for clientID := range m.userIndex[userID] {
		client := m.clients[clientID]
		select {
		case client.Send <- messageBytes:
		default:
			stalled = append(stalled, client)
		}
	}
	m.clientsMutex.RUnlock()

	// Unregistering needs the write lock held by Run, so do it outside the read lock.
	for _, client := range stalled {
		go m.requestUnregister(client)
	}

	return nil
}

// requestUnregister hands c to Run and reports false if Run has already returned.
func (m *Manager) requestUnregister(c *Client) bool {
	select {
	case m.Unregister <- c:
		return true
	case <-m.done:
		return false
	}
}

func (m *Manager) SendToClient(clientID string, message *Message) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	client, exists := m.clients[clientID]
	if !exists {
		return nil
	}

	select {
	case client.Send <- messageBytes:
	default:
	}

	return nil
}

func (m *Manager) GetUserConnections(userID string) int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	return len(m.userIndex[userID])
}

// NoteCreated, NoteUpdated and NoteDeleted implement the note service notifier.

func (m *Manager) NoteCreated(ctx context.Context, note *domain.Note) {
	m.publish(ctx, note.UserID, TypeNoteCreated, note)
}

func (m *Manager) NoteUpdated(ctx context.Context, note *domain.Note) {
	m.publish(ctx, note.UserID, TypeNoteUpdated, note)
}

func (m *Manager) NoteDeleted(ctx context.Context, ownerID, noteID string) {
	m.publish(ctx, ownerID, TypeNoteDeleted, NoteDeletedPayload{ID: noteID})
}

func (m *Manager) publish(ctx context.Context, userID string, msgType MessageType, payload interface{}) {
	msg, err := NewMessage(msgType, payload)
	if err == nil {
		err = m.BroadcastToUser(userID, msg)
	}
	if err != nil {
		logger.Log(ctx).Warn(ctx, "failed to publish note event",
			zap.String("type", string(msgType)),
			zap.Error(err))
	}
}
