// ABOUTME: WebSocket status feed for session state
// ABOUTME: Pushes state transitions to browser subscribers and serves /state
package statusfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
	sendBuffer    = 16
)

// Event is one session state snapshot
type Event struct {
	State   string `json:"state"`
	Session string `json:"session"`
	Error   string `json:"error"`
}

// Feed serves state events over HTTP and WebSocket
type Feed struct {
	upgrader   websocket.Upgrader
	mux        *http.ServeMux
	httpServer *http.Server

	mu          sync.RWMutex
	current     Event
	subscribers map[*subscriber]struct{}

	wg sync.WaitGroup
}

type subscriber struct {
	conn *websocket.Conn
	send chan Event
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.send)
	})
}

// New creates a feed starting in the idle state
func New() *Feed {
	f := &Feed{
		mux:         http.NewServeMux(),
		current:     Event{State: "idle"},
		subscribers: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin != "" {
					log.Printf("Status feed: accepting WebSocket from origin: %s", origin)
				}
				return true
			},
		},
	}

	f.mux.HandleFunc("/ws", f.handleWebSocket)
	f.mux.HandleFunc("/state", f.handleState)
	return f
}

// Handler returns the HTTP handler serving /ws and /state
func (f *Feed) Handler() http.Handler {
	return f.mux
}

// Start listens on addr and serves in the background
func (f *Feed) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	f.httpServer = &http.Server{Handler: f.mux}
	log.Printf("Status feed listening on %s", ln.Addr())

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		if err := f.httpServer.Serve(ln); err != http.ErrServerClosed {
			log.Printf("Status feed server error: %v", err)
		}
	}()
	return nil
}

// Current returns the last published event
func (f *Feed) Current() Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// Publish records ev and sends it to every subscriber. Slow subscribers
// drop events instead of blocking the session. Channels are only closed
// under f.mu, so sends here never race a close.
func (f *Feed) Publish(ev Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.current = ev
	for sub := range f.subscribers {
		select {
		case sub.send <- ev:
		default:
			log.Printf("Status feed: dropping event for slow subscriber %s", sub.conn.RemoteAddr())
		}
	}
}

// Subscribers returns the number of connected WebSocket clients
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

// Stop closes subscribers and shuts the server down
func (f *Feed) Stop(ctx context.Context) error {
	f.mu.Lock()
	for sub := range f.subscribers {
		sub.close()
	}
	f.mu.Unlock()

	var err error
	if f.httpServer != nil {
		err = f.httpServer.Shutdown(ctx)
	}
	f.wg.Wait()
	return err
}

func (f *Feed) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(f.Current()); err != nil {
		log.Printf("Status feed: error writing state: %v", err)
	}
}

func (f *Feed) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Status feed: WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	sub := &subscriber{
		conn: conn,
		send: make(chan Event, sendBuffer),
	}

	f.mu.Lock()
	f.subscribers[sub] = struct{}{}
	sub.send <- f.current
	f.mu.Unlock()

	log.Printf("Status feed: subscriber connected from %s", r.RemoteAddr)

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		f.writer(sub)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Status feed: WebSocket error: %v", err)
			}
			break
		}
	}

	f.mu.Lock()
	delete(f.subscribers, sub)
	sub.close()
	f.mu.Unlock()

	log.Printf("Status feed: subscriber %s disconnected", r.RemoteAddr)
}

// writer sends events and keepalive pings to one subscriber
func (f *Feed) writer(sub *subscriber) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.send:
			if !ok {
				sub.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeDeadline))
				sub.conn.Close()
				return
			}
			sub.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := sub.conn.WriteJSON(ev); err != nil {
				log.Printf("Status feed: error writing event: %v", err)
				return
			}

		case <-ticker.C:
			if err := sub.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		}
	}
}
