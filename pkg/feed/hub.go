// Package feed pushes live events to browser clients over websockets.
package feed

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Event is one message written to subscribers.
type Event struct {
	Type    string      `json:"type"`
	GroupID uint        `json:"chit_group_id"`
	Data    interface{} `json:"data"`
	SentAt  time.Time   `json:"sent_at"`
}

// Subscriber is one connected websocket client.
type Subscriber struct {
	ID      uint64
	GroupID uint // 0 receives every group
	Conn    *websocket.Conn
	Send    chan []byte
	StopCh  chan struct{}
	once    sync.Once
}

func (s *Subscriber) stop() {
	s.once.Do(func() { close(s.StopCh) })
}

// Hub tracks subscribers and fans events out to them.
type Hub struct {
	subscribers sync.Map // map[uint64]*Subscriber
	nextID      atomic.Uint64
	upgrader    websocket.Upgrader
}

// NewHub creates a hub. checkOrigin decides which browser origins may connect.
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// ServeWS upgrades the request and streams events until the client leaves.
// An optional chit_group_id query parameter narrows the stream to one group.
func (h *Hub) ServeWS(c *gin.Context) {
	var groupID uint
	if raw := c.Query("chit_group_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chit_group_id"})
			return
		}
		groupID = uint(id)
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithFields(log.Fields{"error": err.Error()}).Warn("Websocket upgrade failed")
		return
	}

	sub := &Subscriber{
		ID:      h.nextID.Add(1),
		GroupID: groupID,
		Conn:    conn,
		Send:    make(chan []byte, sendBuffer),
		StopCh:  make(chan struct{}),
	}
	h.subscribers.Store(sub.ID, sub)
	log.WithFields(log.Fields{"subscriber": sub.ID, "chit_group_id": groupID}).Info("Feed subscriber connected")

	go h.writePump(sub)
	h.readPump(sub)
}

// Broadcast queues an event for every interested subscriber. Subscribers
// whose buffer is full are disconnected.
func (h *Hub) Broadcast(groupID uint, eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, GroupID: groupID, Data: data, SentAt: time.Now()})
	if err != nil {
		log.Errorf("Failed to marshal feed event %s: %v", eventType, err)
		return
	}

	h.subscribers.Range(func(_, value any) bool {
		sub := value.(*Subscriber)
		if sub.GroupID != 0 && sub.GroupID != groupID {
			return true
		}
		select {
		case sub.Send <- payload:
		default:
			log.WithFields(log.Fields{"subscriber": sub.ID}).Warn("Feed subscriber too slow, dropping")
			h.remove(sub)
		}
		return true
	})
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	n := 0
	h.subscribers.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (h *Hub) remove(sub *Subscriber) {
	if _, loaded := h.subscribers.LoadAndDelete(sub.ID); loaded {
		sub.stop()
	}
}

// readPump only watches for close frames and pongs.
func (h *Hub) readPump(sub *Subscriber) {
	defer func() {
		h.remove(sub)
		sub.Conn.Close()
		log.WithFields(log.Fields{"subscriber": sub.ID}).Info("Feed subscriber disconnected")
	}()

	sub.Conn.SetReadLimit(512)
	sub.Conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.Conn.SetPongHandler(func(string) error {
		return sub.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(sub *Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Conn.Close()
	}()

	for {
		select {
		case <-sub.StopCh:
			sub.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			sub.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-sub.Send:
			sub.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(sub)
				return
			}
		case <-ticker.C:
			sub.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(sub)
				return
			}
		}
	}
}
