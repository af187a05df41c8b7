package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"AVRentals/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 5 * time.Second
	maxMessageSize = 1024 * 64

	maxStreamTexts = 500
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// streamRequest is what a connected client sends to start a job.
type streamRequest struct {
	Texts      []string `json:"texts"`
	TargetLang string   `json:"target_lang"`
}

// Client is one websocket connection watching one stream job.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	jobID string
	send  chan Frame
}

func NewClient(hub *Hub, conn *websocket.Conn, jobID string) *Client {
	return &Client{
		hub:   hub,
		conn:  conn,
		jobID: jobID,
		send:  make(chan Frame, 64),
	}
}

// Upgrade promotes an HTTP request to a websocket connection.
func Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

// ReadPump consumes stream requests from the client. Each connection runs
// one job; further requests on the same connection are ignored after the
// first.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	started := false
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Stream read error on job %s: %v", c.jobID, err)
			}
			break
		}
		if started {
			continue
		}

		var req streamRequest
		if err := json.Unmarshal(message, &req); err != nil {
			c.sendError("invalid request")
			continue
		}
		if len(req.Texts) == 0 || len(req.Texts) > maxStreamTexts {
			c.sendError("texts must contain between 1 and 500 entries")
			continue
		}
		if !models.IsSupportedLang(req.TargetLang) {
			c.sendError("unsupported target language")
			continue
		}

		started = true
		c.hub.StartJob(c.jobID, req.Texts, req.TargetLang)
	}
}

// WritePump pushes frames and keepalive pings to the client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				log.Printf("Stream write error on job %s: %v", c.jobID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendError(msg string) {
	select {
	case c.send <- Frame{Type: FrameError, JobID: c.jobID, Error: msg}:
	default:
	}
}

// Register subscribes the client to its job's frames.
func (c *Client) Register() {
	c.hub.register <- c
}

// Enqueue pushes a frame directly to this client, dropping it if the
// outbound buffer is full.
func (c *Client) Enqueue(frame Frame) {
	select {
	case c.send <- frame:
	default:
	}
}
