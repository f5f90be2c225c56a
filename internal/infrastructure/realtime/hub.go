package realtime

import (
	"sync"
)

// Hub tracks operator websocket sessions grouped into per-company rooms.
// It keeps one active Connection per operator while allowing efficient
// fan-out of conversation timeline events to everyone watching a company.
type Hub struct {
	mu               sync.RWMutex
	sessions         map[string]*Connection            // sessionID -> connection
	operatorSessions map[string]string                 // operatorID -> sessionID
	companies        map[int64]map[string]*Connection  // companyID -> sessionID -> connection
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		sessions:         make(map[string]*Connection),
		operatorSessions: make(map[string]string),
		companies:        make(map[int64]map[string]*Connection),
	}
}

// Attach registers a connection in its company room. If the operator already
// has a session, it is removed and closed after the swap to enforce one active
// socket per operator.
func (h *Hub) Attach(conn *Connection) {
	var previous *Connection

	h.mu.Lock()
	if existingID, ok := h.operatorSessions[conn.OperatorID]; ok {
		if existing := h.sessions[existingID]; existing != nil {
			previous = existing
			h.detachLocked(existingID)
		}
	}

	h.sessions[conn.ID] = conn
	h.operatorSessions[conn.OperatorID] = conn.ID

	room := h.companies[conn.CompanyID]
	if room == nil {
		room = make(map[string]*Connection)
		h.companies[conn.CompanyID] = room
	}
	room[conn.ID] = conn
	h.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a connection if it is still tracked.
func (h *Hub) Detach(conn *Connection) {
	h.mu.Lock()
	h.detachLocked(conn.ID)
	h.mu.Unlock()
}

// Broadcast writes payload to all operators watching the company and returns
// the number of successful deliveries.
func (h *Hub) Broadcast(companyID int64, payload []byte) int {
	h.mu.RLock()
	room := h.companies[companyID]
	if len(room) == 0 {
		h.mu.RUnlock()
		return 0
	}

	delivered := 0
	for _, conn := range room {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	h.mu.RUnlock()
	return delivered
}

// NotifyOperator delivers payload to the current connection of the given operator.
func (h *Hub) NotifyOperator(operatorID string, payload []byte) bool {
	h.mu.RLock()
	sessionID, ok := h.operatorSessions[operatorID]
	if !ok {
		h.mu.RUnlock()
		return false
	}
	conn := h.sessions[sessionID]
	h.mu.RUnlock()
	if conn == nil {
		return false
	}
	return conn.Send(payload) == nil
}

// Close terminates all tracked connections and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]*Connection, 0, len(h.sessions))
	for _, conn := range h.sessions {
		sessions = append(sessions, conn)
	}
	h.sessions = make(map[string]*Connection)
	h.operatorSessions = make(map[string]string)
	h.companies = make(map[int64]map[string]*Connection)
	h.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "hub shutdown")
	}
}

func (h *Hub) detachLocked(sessionID string) {
	conn, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(h.sessions, sessionID)

	if current, ok := h.operatorSessions[conn.OperatorID]; ok && current == sessionID {
		delete(h.operatorSessions, conn.OperatorID)
	}

	if room := h.companies[conn.CompanyID]; room != nil {
		delete(room, sessionID)
		if len(room) == 0 {
			delete(h.companies, conn.CompanyID)
		}
	}
}
