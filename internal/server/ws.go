package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/theremin/internal/log"
	"github.com/ayusman/theremin/internal/tuner"
	"github.com/ayusman/theremin/internal/ui"
)

const (
	writeWait = time.Second

	// sendBuffer is how many messages may wait for a slow client before it
	// is dropped.
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Message is the JSON envelope sent to panel clients.
type Message struct {
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
	Text  string `json:"text,omitempty"`
	Note  string `json:"note,omitempty"`
	Cents int    `json:"cents"`
	Band  string `json:"band,omitempty"`
	Gauge string `json:"gauge,omitempty"`
	Error string `json:"error,omitempty"`
}

// Message types.
const (
	MessageLabel = "label"
	MessageTuner = "tuner"
	MessageError = "error"
)

// Hub is a ui.Sink that mirrors feedback to websocket clients and keeps the
// last frame as JPEG for the MJPEG stream. Clients send ui.Command JSON back,
// which the hub forwards to the control loop.
//
// Each client has its own queue drained by a writer goroutine, so SetText and
// DrawTuner never wait on the network. A client whose queue overflows or
// whose write fails is disconnected.
type Hub struct {
	commands chan<- ui.Command

	mu      sync.Mutex
	clients map[*client]bool
	labels  map[ui.Label]string
	tuner   *Message

	frameMu  sync.RWMutex
	frame    []byte
	frameSeq uint64
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, send: make(chan []byte, sendBuffer)}
}

func (c *client) close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// NewHub creates a Hub forwarding client commands to commands. A nil channel
// drops them.
func NewHub(commands chan<- ui.Command) *Hub {
	return &Hub{
		commands: commands,
		clients:  make(map[*client]bool),
		labels:   make(map[ui.Label]string),
	}
}

// SetText records the label and broadcasts it.
func (h *Hub) SetText(label ui.Label, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.labels[label] = text
	h.broadcastLocked(Message{Type: MessageLabel, Label: string(label), Text: text})
}

// DrawTuner broadcasts the tuner reading with its colour band and gauge.
func (h *Hub) DrawTuner(note string, cents int) {
	msg := Message{
		Type:  MessageTuner,
		Note:  note,
		Cents: cents,
		Band:  string(tuner.BandFor(cents)),
		Gauge: tuner.Gauge(cents),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.tuner = &msg
	h.broadcastLocked(msg)
}

// DrawFrame encodes frame as JPEG and makes it the stream's current frame.
func (h *Hub) DrawFrame(frame *gocv.Mat) {
	if frame == nil || frame.Empty() {
		return
	}
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		log.Component("server").Debug("jpeg encode failed", "error", err)
		return
	}
	data := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	h.setFrame(data)
}

func (h *Hub) setFrame(data []byte) {
	h.frameMu.Lock()
	h.frame = data
	h.frameSeq++
	h.frameMu.Unlock()
}

// Frame returns the current JPEG frame and its sequence number. The sequence
// is 0 until the first frame arrives.
func (h *Hub) Frame() ([]byte, uint64) {
	h.frameMu.RLock()
	defer h.frameMu.RUnlock()
	return h.frame, h.frameSeq
}

// Clients returns the number of connected websocket clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and serves one panel client. The client
// first receives the current labels and tuner reading.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Component("server").Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	c := newClient(conn)
	h.mu.Lock()
	h.clients[c] = true
	h.sendSnapshotLocked(c)
	h.mu.Unlock()

	go h.writePump(c)
	defer h.unregister(c)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if err := h.handleCommand(data); err != nil {
			h.mu.Lock()
			h.enqueueLocked(c, Message{Type: MessageError, Error: err.Error()})
			h.mu.Unlock()
		}
	}
}

func (h *Hub) handleCommand(data []byte) error {
	cmd, err := ui.ParseCommand(data)
	if err != nil {
		return err
	}
	if h.commands == nil || !ui.Send(h.commands, cmd) {
		return errCommandQueueFull
	}
	return nil
}

// writePump writes queued messages to one client until its queue is closed
// or a write fails.
func (h *Hub) writePump(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Component("server").Debug("websocket write failed, dropping client", "error", err)
			h.unregister(c)
			c.close()
			return
		}
	}
}

// unregister removes c and closes its queue. It is safe to call more than once.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) sendSnapshotLocked(c *client) {
	for label, text := range h.labels {
		h.enqueueLocked(c, Message{Type: MessageLabel, Label: string(label), Text: text})
	}
	if h.tuner != nil {
		h.enqueueLocked(c, *h.tuner)
	}
}

func (h *Hub) broadcastLocked(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	for c := range h.clients {
		h.queueLocked(c, data)
	}
}

func (h *Hub) enqueueLocked(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.queueLocked(c, data)
}

// queueLocked hands data to the client's writer without blocking. A client
// that has fallen sendBuffer messages behind is disconnected.
func (h *Hub) queueLocked(c *client, data []byte) {
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Component("server").Warn("websocket client too slow, dropping")
		h.removeLocked(c)
		c.close()
	}
}
