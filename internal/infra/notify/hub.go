package notify

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	domain "github.com/iterativai/empathic-venture-forge/internal/domain/analysis"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard origins vary per deployment
	},
}

// Message is the wire envelope pushed to subscribers. Payload is the
// full new row image; subscribers replace their local view with it.
type Message struct {
	Type    string         `json:"type"`
	Payload *domain.Record `json:"payload"`
}

// Hub fans row updates out to viewers subscribed to one record id.
// No buffering or replay: events published while nobody is subscribed
// are dropped, and the snapshot fetch remains the consistency baseline.
// Implements analysis.Notifier.
type Hub struct {
	mu   sync.RWMutex
	subs map[domain.AnalysisID]map[*websocket.Conn]*sync.Mutex
	log  *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		subs: make(map[domain.AnalysisID]map[*websocket.Conn]*sync.Mutex),
		log:  log,
	}
}

// Publish sends the record to every subscriber of its id. Write
// failures only drop that one connection's delivery; the read loop
// notices the broken connection and unregisters it.
func (h *Hub) Publish(rec *domain.Record) {
	data, err := json.Marshal(Message{Type: "analysis_update", Payload: rec})
	if err != nil {
		h.log.Error("marshal update", zap.String("id", string(rec.ID)), zap.Error(err))
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subs[rec.ID]))
	mutexes := make([]*sync.Mutex, 0, len(h.subs[rec.ID]))
	for conn, mu := range h.subs[rec.ID] {
		conns = append(conns, conn)
		mutexes = append(mutexes, mu)
	}
	h.mu.RUnlock()

	for i, conn := range conns {
		mutexes[i].Lock()
		err := conn.WriteMessage(websocket.TextMessage, data)
		mutexes[i].Unlock()
		if err != nil {
			h.log.Warn("push to subscriber failed",
				zap.String("id", string(rec.ID)),
				zap.Error(err),
			)
		}
	}
}

// Serve upgrades the request and keeps the subscription open until the
// client goes away. Unsubscribe is tied to the connection lifetime, so
// a channel can never outlive its viewer.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, id domain.AnalysisID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.subscribe(id, conn)
	defer h.unsubscribe(id, conn)
	defer conn.Close()

	// Drain control frames; any read error means the viewer left.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Subscribers reports the live subscription count for one record.
func (h *Hub) Subscribers(id domain.AnalysisID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[id])
}

func (h *Hub) subscribe(id domain.AnalysisID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[*websocket.Conn]*sync.Mutex)
	}
	h.subs[id][conn] = &sync.Mutex{}
}

func (h *Hub) unsubscribe(id domain.AnalysisID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[id], conn)
	if len(h.subs[id]) == 0 {
		delete(h.subs, id)
	}
}
