package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-vga-raytracer/pkg/core"
	"github.com/df07/go-vga-raytracer/pkg/palette"
	"github.com/df07/go-vga-raytracer/pkg/renderer"
	"github.com/df07/go-vga-raytracer/pkg/scene"
)

// DefaultTileSize is the tile edge used for web renders
const DefaultTileSize = 32

// Server handles web requests for the palette raytracer
type Server struct {
	port      int
	staticDir string
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port, staticDir: "static/"}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene            string  `json:"scene"`            // Scene id (e.g., "default", "file:room")
	Width            int     `json:"width"`            // Image width
	Height           int     `json:"height"`           // Image height
	FOV              float64 `json:"fov"`              // Vertical field of view in degrees
	MaxDepth         int     `json:"maxDepth"`         // Maximum reflection/refraction bounces
	Grayscale        bool    `json:"grayscale"`        // Match against the VGA gray ramp
	GrayscalePalette bool    `json:"grayscalePalette"` // Use the 256 step gray palette
	Dither           bool    `json:"dither"`           // Ordered dithering
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int   `json:"totalPixels"`
	PrimaryRays    int   `json:"primaryRays"`
	SecondaryRays  int   `json:"secondaryRays"`
	DepthLimited   int   `json:"depthLimited"`
	PrimitiveCount int   `json:"primitiveCount"`
	ElapsedMs      int64 `json:"elapsedMs"`
}

func newStats(stats renderer.RenderStats, s *scene.Scene) Stats {
	return Stats{
		TotalPixels:    stats.TotalPixels,
		PrimaryRays:    stats.PrimaryRays,
		SecondaryRays:  stats.SecondaryRays,
		DepthLimited:   stats.DepthLimited,
		PrimitiveCount: s.GetPrimitiveCount(),
		ElapsedMs:      stats.Duration.Milliseconds(),
	}
}

// Handler builds the routing table for the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/ws", s.handleWebSocket)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/palette", s.handlePalette)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and discovered scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handlePalette returns the RGB entries a client needs to display raw indices
func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	var p *palette.Palette
	switch name := r.URL.Query().Get("name"); name {
	case "", palette.IDVGA.String():
		p = palette.VGA()
	case palette.IDGrayscale.String():
		p = palette.Grayscale()
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unknown palette: " + name})
		return
	}

	entries := make([][3]uint8, len(p))
	for i, c := range p {
		entries[i] = [3]uint8{c.R, c.G, c.B}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	// Parse and validate all parameters using helper functions
	var err error
	if req.Width, err = parseIntParam(query, "width", 320, 16, 1280); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 200, 16, 800); err != nil {
		return nil, err
	}
	if req.FOV, err = parseFloatParam(query, "fov", 45, 1, 179); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 5, 0, 32); err != nil {
		return nil, err
	}
	if req.Grayscale, err = parseBoolParam(query, "grayscale"); err != nil {
		return nil, err
	}
	if req.GrayscalePalette, err = parseBoolParam(query, "grayscalePalette"); err != nil {
		return nil, err
	}
	if req.Dither, err = parseBoolParam(query, "dither"); err != nil {
		return nil, err
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses an optional boolean flag; absent means false
func parseBoolParam(values url.Values, key string) (bool, error) {
	value := values.Get(key)
	if value == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}

// createRenderer builds the scene and a renderer configured from the request
func (s *Server) createRenderer(req *RenderRequest, logger core.Logger) (*renderer.Renderer, *scene.Scene, error) {
	sceneObj, err := scene.Create(req.Scene)
	if err != nil {
		return nil, nil, err
	}

	config := renderer.DefaultConfig()
	config.Width, config.Height = req.Width, req.Height
	config.FOV = req.FOV
	config.MaxDepth = req.MaxDepth
	config.TileSize = DefaultTileSize
	config.Mode = palette.Mode{
		Grayscale:        req.Grayscale,
		GrayscalePalette: req.GrayscalePalette,
		Dither:           req.Dither,
	}

	r, err := renderer.NewRenderer(sceneObj, config, logger)
	if err != nil {
		return nil, nil, err
	}
	return r, sceneObj, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
