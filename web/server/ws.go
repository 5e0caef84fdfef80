package server

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-vga-raytracer/pkg/renderer"
)

// tileHeaderSize prefixes each binary tile message: x, y, width, height as
// little-endian uint16, followed by width*height palette indices.
const tileHeaderSize = 8

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is the JSON envelope for text frames on the render socket
type wsMessage struct {
	Type     string `json:"type"` // "start", "complete", "error"
	RenderID string `json:"renderId,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Palette  string `json:"palette,omitempty"`
	Stats    *Stats `json:"stats,omitempty"`
	Message  string `json:"message,omitempty"`
}

// handleWebSocket renders a frame and streams raw tile indices over a websocket.
// The client decodes indices with the palette named in the start message.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Validate before upgrading so bad parameters get a plain HTTP error
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reader: any read error or an "abort" message stops the render
	go func() {
		defer cancel()
		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType == websocket.TextMessage && string(msg) == "abort" {
				return
			}
		}
	}()

	renderID := newRenderID()
	rend, sceneObj, err := s.createRenderer(req, NewWebLogger(renderID, nil))
	if err != nil {
		s.writeWSJSON(conn, wsMessage{Type: "error", Message: err.Error()})
		s.closeWS(conn)
		return
	}

	config := rend.Config()
	if err := s.writeWSJSON(conn, wsMessage{
		Type:     "start",
		RenderID: renderID,
		Width:    config.Width,
		Height:   config.Height,
		Palette:  rend.PaletteID().String(),
	}); err != nil {
		return
	}

	_, stats, err := rend.Render(ctx, renderer.RenderOptions{
		OnTile: func(tc renderer.TileCompletion) {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, encodeTileMessage(tc)); err != nil {
				cancel()
			}
		},
	})
	if err != nil {
		s.writeWSJSON(conn, wsMessage{Type: "error", Message: err.Error()})
		s.closeWS(conn)
		return
	}

	result := newStats(stats, sceneObj)
	s.writeWSJSON(conn, wsMessage{Type: "complete", RenderID: renderID, Stats: &result})
	s.closeWS(conn)
}

// encodeTileMessage packs a finished tile into a binary frame
func encodeTileMessage(tc renderer.TileCompletion) []byte {
	buf := make([]byte, tileHeaderSize, tileHeaderSize+len(tc.Indices))
	binary.LittleEndian.PutUint16(buf[0:], uint16(tc.Bounds.Min.X))
	binary.LittleEndian.PutUint16(buf[2:], uint16(tc.Bounds.Min.Y))
	binary.LittleEndian.PutUint16(buf[4:], uint16(tc.Bounds.Dx()))
	binary.LittleEndian.PutUint16(buf[6:], uint16(tc.Bounds.Dy()))
	return append(buf, tc.Indices...)
}

func (s *Server) writeWSJSON(conn *websocket.Conn, msg wsMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) closeWS(conn *websocket.Conn) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
