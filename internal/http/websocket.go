package http

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"roomledger/internal/core"
	"roomledger/internal/docstore"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
	wsSendBuffer   = 16
)

// The app is trusted household infrastructure, any origin may connect.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// snapshotMessage is one websocket frame: the collection that changed
// and its complete current state. Clients replace their local copy
// wholesale, there are no diffs.
type snapshotMessage struct {
	Collection string `json:"collection"`
	Snapshot   any    `json:"snapshot"`
}

var allCollections = []string{
	docstore.CollectionBudget,
	docstore.CollectionExpenses,
	docstore.CollectionRoommates,
	docstore.CollectionCleaning,
	docstore.CollectionWaterDuty,
}

func parseCollections(raw string) []string {
	if raw == "" {
		return allCollections
	}
	known := make(map[string]bool, len(allCollections))
	for _, c := range allCollections {
		known[c] = true
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if known[name] {
			out = append(out, name)
		}
	}
	return out
}

// handleWebSocket upgrades the connection and streams full snapshots of
// the requested collections: one immediately per collection, then one
// after every commit, local or bridged. The collections query parameter
// selects a comma-separated subset, default is everything.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Websocket upgrade failed", "error", err)
		return
	}

	s.metrics.wsConnections.Inc()
	defer s.metrics.wsConnections.Dec()

	send := make(chan snapshotMessage, wsSendBuffer)
	done := make(chan struct{})
	var closeOnce sync.Once
	closeDone := func() { closeOnce.Do(func() { close(done) }) }

	var unsubscribes []func()
	defer func() {
		closeDone()
		for _, unsubscribe := range unsubscribes {
			unsubscribe()
		}
		conn.Close()
	}()

	push := func(collection string, data any) {
		msg := snapshotMessage{Collection: collection, Snapshot: data}
		for {
			select {
			case <-done:
				return
			case send <- msg:
				return
			default:
				// Buffer full: drop the oldest frame, each one carries the
				// complete state so only the most recent matters.
				select {
				case <-send:
				default:
				}
			}
		}
	}

	ctx := r.Context()
	for _, collection := range parseCollections(r.URL.Query().Get("collections")) {
		var unsubscribe func()
		switch collection {
		case docstore.CollectionBudget:
			unsubscribe = s.svc.Budget.Subscribe(ctx, func(b *core.Budget) {
				push(docstore.CollectionBudget, b)
			})
		case docstore.CollectionExpenses:
			unsubscribe = s.svc.Expenses.Subscribe(ctx, func(expenses []core.Expense) {
				push(docstore.CollectionExpenses, expenses)
			})
		case docstore.CollectionRoommates:
			unsubscribe = s.svc.Roommates.Subscribe(ctx, func(roommates []core.Roommate) {
				push(docstore.CollectionRoommates, roommates)
			})
		case docstore.CollectionCleaning:
			unsubscribe = s.svc.Cleaning.Subscribe(ctx, func(tasks []core.CleaningTask) {
				push(docstore.CollectionCleaning, tasks)
			})
		case docstore.CollectionWaterDuty:
			unsubscribe = s.svc.WaterDuty.Subscribe(ctx, func(duty *core.WaterDuty) {
				push(docstore.CollectionWaterDuty, duty)
			})
		}
		if unsubscribe != nil {
			unsubscribes = append(unsubscribes, unsubscribe)
		}
	}

	go s.readLoop(conn, closeDone)
	s.writeLoop(conn, send, done)
}

// readLoop drains client frames so pings are answered and disconnects
// are noticed. Inbound payloads are ignored, the feed is one-way.
func (s *Server) readLoop(conn *websocket.Conn, closeDone func()) {
	defer closeDone()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(conn *websocket.Conn, send <-chan snapshotMessage, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case msg := <-send:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
