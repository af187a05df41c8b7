package controllers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"AVRentals/websocket"
)

var streamHub *websocket.Hub

func SetStreamHub(hub *websocket.Hub) {
	streamHub = hub
}

// TranslateStream upgrades the connection and hands it to the hub. The
// client sends one request message and receives progress frames until the
// job completes.
func TranslateStream(c *gin.Context) {
	conn, err := websocket.Upgrade(c.Writer, c.Request)
	if err != nil {
		log.Printf("Stream upgrade failed: %v", err)
		return
	}

	jobID := uuid.NewString()
	client := websocket.NewClient(streamHub, conn, jobID)
	client.Register()
	client.Enqueue(websocket.Frame{Type: websocket.FrameReady, JobID: jobID})

	go client.WritePump()
	go client.ReadPump()
}
