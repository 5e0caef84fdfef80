package server

import (
	"encoding/binary"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/df07/go-vga-raytracer/pkg/renderer"
	"github.com/df07/go-vga-raytracer/pkg/scene"
)

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Unexpected body %q", rec.Body.String())
	}
}

func TestHandleScenes(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scenes", nil))

	var resp scene.ScenesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode scenes: %v", err)
	}
	if len(resp.Groups) == 0 || resp.Groups[0].Name != "Built-in Scenes" {
		t.Fatalf("Expected built-in group first, got %+v", resp.Groups)
	}
	if len(resp.Groups[0].Scenes) != len(scene.BuiltinNames()) {
		t.Errorf("Expected %d built-in scenes, got %d", len(scene.BuiltinNames()), len(resp.Groups[0].Scenes))
	}
}

func TestHandlePalette(t *testing.T) {
	tests := []struct {
		query  string
		status int
		first  [3]uint8
		last   [3]uint8
	}{
		{"", http.StatusOK, [3]uint8{0, 0, 0}, [3]uint8{0, 0, 0}},
		{"?name=grayscale", http.StatusOK, [3]uint8{0, 0, 0}, [3]uint8{255, 255, 255}},
		{"?name=cga", http.StatusBadRequest, [3]uint8{}, [3]uint8{}},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/palette"+tt.query, nil))
		if rec.Code != tt.status {
			t.Errorf("%q: expected status %d, got %d", tt.query, tt.status, rec.Code)
			continue
		}
		if tt.status != http.StatusOK {
			continue
		}

		var entries [][3]uint8
		if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
			t.Fatalf("%q: decode failed: %v", tt.query, err)
		}
		if len(entries) != 256 {
			t.Fatalf("%q: expected 256 entries, got %d", tt.query, len(entries))
		}
		if entries[0] != tt.first || entries[255] != tt.last {
			t.Errorf("%q: got first %v last %v", tt.query, entries[0], entries[255])
		}
	}
}

func TestParseRenderRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    RenderRequest
		wantErr bool
	}{
		{
			name:  "defaults",
			query: "",
			want:  RenderRequest{Scene: "default", Width: 320, Height: 200, FOV: 45, MaxDepth: 5},
		},
		{
			name:  "all set",
			query: "scene=mirrors&width=64&height=32&fov=90&maxDepth=0&grayscale=true&grayscalePalette=1&dither=true",
			want: RenderRequest{Scene: "mirrors", Width: 64, Height: 32, FOV: 90, MaxDepth: 0,
				Grayscale: true, GrayscalePalette: true, Dither: true},
		},
		{name: "width too small", query: "width=8", wantErr: true},
		{name: "height not a number", query: "height=tall", wantErr: true},
		{name: "fov out of range", query: "fov=180", wantErr: true},
		{name: "depth too large", query: "maxDepth=33", wantErr: true},
		{name: "bad bool", query: "dither=maybe", wantErr: true},
	}

	s := NewServer(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := s.parseRenderRequest(httptest.NewRequest(http.MethodGet, "/api/render?"+tt.query, nil))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRenderRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && *req != tt.want {
				t.Errorf("parseRenderRequest() = %+v, want %+v", *req, tt.want)
			}
		})
	}
}

func TestHandleRender_StreamsTiles(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/render?width=64&height=48", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected event stream, got %q", ct)
	}

	body := rec.Body.String()
	// 64x48 with 32 pixel tiles is a 2x2 grid
	if n := strings.Count(body, "event: tile\n"); n != 4 {
		t.Errorf("Expected 4 tile events, got %d", n)
	}
	if !strings.Contains(body, "event: complete\n") {
		t.Fatalf("Expected completion event in %q", body)
	}
	if strings.Index(body, "event: complete") < strings.LastIndex(body, "event: tile") {
		t.Error("Completion event arrived before the last tile")
	}

	var stats Stats
	for _, line := range strings.Split(body, "\n") {
		if data, ok := strings.CutPrefix(line, "data: "); ok && strings.Contains(data, "primaryRays") {
			if err := json.Unmarshal([]byte(data), &stats); err != nil {
				t.Fatal(err)
			}
		}
	}
	if stats.TotalPixels != 64*48 || stats.PrimitiveCount == 0 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestHandleRender_Errors(t *testing.T) {
	for _, query := range []string{
		"width=5",
		"scene=no-such-scene",
		"scene=%2Fetc%2Fscenes%2Fx.scn",
		"scene=..%2F..%2Fscenes%2Froom.scn",
	} {
		rec := httptest.NewRecorder()
		NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/render?"+query, nil))

		body := rec.Body.String()
		if !strings.Contains(body, "event: error\n") {
			t.Errorf("%q: expected error event, got %q", query, body)
		}
		if strings.Contains(body, "event: tile") {
			t.Errorf("%q: expected no tiles", query)
		}
	}
}

func TestEncodeTileMessage(t *testing.T) {
	tc := renderer.TileCompletion{
		Bounds:  image.Rect(32, 64, 34, 65),
		Indices: []uint8{7, 9},
	}
	msg := encodeTileMessage(tc)

	if len(msg) != tileHeaderSize+2 {
		t.Fatalf("Expected %d bytes, got %d", tileHeaderSize+2, len(msg))
	}
	header := []uint16{32, 64, 2, 1}
	for i, want := range header {
		if got := binary.LittleEndian.Uint16(msg[i*2:]); got != want {
			t.Errorf("Header field %d = %d, want %d", i, got, want)
		}
	}
	if msg[8] != 7 || msg[9] != 9 {
		t.Errorf("Unexpected payload %v", msg[8:])
	}
}

func wsURL(ts *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws?" + query
}

func TestHandleWebSocket(t *testing.T) {
	ts := httptest.NewServer(NewServer(0).Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "width=64&height=48&grayscalePalette=true"), nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	var start wsMessage
	if err := conn.ReadJSON(&start); err != nil {
		t.Fatal(err)
	}
	if start.Type != "start" || start.Width != 64 || start.Height != 48 || start.Palette != "grayscale" || start.RenderID == "" {
		t.Fatalf("Unexpected start message %+v", start)
	}

	pixels := 0
	var done wsMessage
	for done.Type == "" {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		switch msgType {
		case websocket.BinaryMessage:
			w := int(binary.LittleEndian.Uint16(data[4:]))
			h := int(binary.LittleEndian.Uint16(data[6:]))
			if len(data) != tileHeaderSize+w*h {
				t.Fatalf("Tile message has %d bytes for a %dx%d tile", len(data), w, h)
			}
			pixels += w * h
		case websocket.TextMessage:
			if err := json.Unmarshal(data, &done); err != nil {
				t.Fatal(err)
			}
		}
	}

	if done.Type != "complete" || done.Stats == nil || done.Stats.TotalPixels != 64*48 {
		t.Fatalf("Unexpected final message %+v", done)
	}
	if pixels != 64*48 {
		t.Errorf("Tiles covered %d pixels, want %d", pixels, 64*48)
	}

	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("Expected normal closure, got %v", err)
	}
}

func TestHandleWebSocket_BadRequest(t *testing.T) {
	ts := httptest.NewServer(NewServer(0).Handler())
	defer ts.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "maxDepth=-1"), nil)
	if err == nil {
		t.Fatal("Expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 response, got %v", resp)
	}
}
