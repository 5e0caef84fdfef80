package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/df07/go-vga-raytracer/pkg/core"
	"github.com/df07/go-vga-raytracer/pkg/renderer"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX      int    `json:"tileX"`
	TileY      int    `json:"tileY"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // Completed tiles so far (1-based)
	TotalTiles int    `json:"totalTiles"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handleRender renders a frame and streams finished tiles via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging and streaming
	consoleChan, webLogger := s.setupConsoleLogging()
	var consoleWG sync.WaitGroup
	consoleWG.Add(1)
	go func() {
		defer consoleWG.Done()
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()
	stopConsole := func() {
		close(consoleChan)
		consoleWG.Wait()
	}

	rend, sceneObj, err := s.createRenderer(req, webLogger)
	if err != nil {
		stopConsole()
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	_, stats, err := rend.Render(ctx, renderer.RenderOptions{
		OnTile: func(tc renderer.TileCompletion) {
			s.handleTileUpdate(ctx, sseEventChan, rend, tc)
		},
	})

	// Console lines logged during the render go out before the final event
	stopConsole()

	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Render error: %v", err))
		return
	}

	data, err := json.Marshal(newStats(stats, sceneObj))
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode stats: %v", err))
		return
	}
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "complete", Data: string(data)})
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	webLogger := NewWebLogger(newRenderID(), consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	broken := false
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if broken {
				// Keep draining so senders never block on a dead client
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				broken = true
				continue
			}
			if flusher != nil {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// handleTileUpdate encodes a finished tile as a PNG event
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan SSEEvent, rend *renderer.Renderer, tc renderer.TileCompletion) {
	imageData, err := s.imageToBase64PNG(tc.Image(rend.Palette()))
	if err != nil {
		log.Printf("Error encoding tile %d: %v", tc.TileNumber, err)
		return
	}

	data, err := json.Marshal(TileUpdate{
		TileX:      tc.TileX,
		TileY:      tc.TileY,
		X:          tc.Bounds.Min.X,
		Y:          tc.Bounds.Min.Y,
		Width:      tc.Bounds.Dx(),
		Height:     tc.Bounds.Dy(),
		ImageData:  imageData,
		TileNumber: tc.TileNumber,
		TotalTiles: tc.TotalTiles,
	})
	if err != nil {
		log.Printf("Error marshaling tile update: %v", err)
		return
	}

	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "tile", Data: string(data)})
}

// sendEvent queues an event, giving up once the client is gone
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan SSEEvent, event SSEEvent) {
	select {
	case sseEventChan <- event:
	case <-ctx.Done():
	}
}

// handleError sends an error event
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	log.Printf("Render error: %s", message)
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: message})
}
