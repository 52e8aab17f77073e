package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/pipeline/api/dto"
	"github.com/warriorguo/pipeline/events"
	"github.com/warriorguo/pipeline/types"
)

const (
	writeWait = 5 * time.Second
	// frames queued for one client before it is considered gone
	streamBuffer = 256
)

// StreamHandler pushes the pipeline state to websocket clients: a snapshot
// first, then every store event in order.
type StreamHandler struct {
	editor   types.Editor
	bus      *events.Bus
	upgrader websocket.Upgrader
}

func NewStreamHandler(editor types.Editor, bus *events.Bus) *StreamHandler {
	return &StreamHandler{
		editor: editor,
		bus:    bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Stream
// GET /api/pipeline/stream
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warnf("upgrade stream from %s failed: %v", c.ClientIP(), err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	frames := make(chan *dto.StreamMessage, streamBuffer)
	// subscribe before the snapshot so nothing falls in between
	err = h.bus.Watch(ctx, func(e *types.Event) {
		select {
		case frames <- &dto.StreamMessage{Kind: dto.StreamEvent, Event: e}:
		default:
			log.Warnf("stream client %s too slow, closing", c.ClientIP())
			cancel()
		}
	})
	if err != nil {
		log.Errorf("subscribe stream failed: %v", err)
		return
	}

	go h.readLoop(conn, cancel)

	if err := h.write(conn, &dto.StreamMessage{Kind: dto.StreamSnapshot, Snapshot: h.editor.Snapshot()}); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case frame := <-frames:
			if err := h.write(conn, frame); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames; a read error means the client left.
func (h *StreamHandler) readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHandler) write(conn *websocket.Conn, msg *dto.StreamMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Debugf("stream write failed: %v", err)
		return err
	}
	return nil
}
