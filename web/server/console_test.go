package server

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestWebLogger_BasicLogging(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-123", messageChan)

	logger.Printf("%s\n", "Test log message")

	select {
	case msg := <-messageChan:
		if msg.Message != "Test log message\n" {
			t.Errorf("Expected message %q, got %q", "Test log message\n", msg.Message)
		}
		if msg.Level != "info" {
			t.Errorf("Expected level 'info', got '%s'", msg.Level)
		}
		if msg.RenderID != "test-render-123" {
			t.Errorf("Expected render id to be attached, got %q", msg.RenderID)
		}
		if time.Since(msg.Timestamp) > time.Second {
			t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Timeout waiting for console message")
	}
}

func TestWebLogger_MultipleMessages(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-456", messageChan)

	messages := []string{"Message 1", "Message 2", "Message 3"}
	for _, msg := range messages {
		logger.Printf("%s\n", msg)
	}

	for i, expected := range messages {
		select {
		case msg := <-messageChan:
			if msg.Message != expected+"\n" {
				t.Errorf("Message %d: expected %q, got %q", i, expected+"\n", msg.Message)
			}
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("Timeout waiting for message %d", i+1)
		}
	}
}

func TestWebLogger_ChannelFull(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("test-render-789", messageChan)

	// Second and third messages must be dropped without blocking
	logger.Printf("Message 1\n")
	logger.Printf("Message 2\n")
	logger.Printf("Message 3\n")

	if len(messageChan) != 1 {
		t.Fatalf("Expected 1 buffered message, got %d", len(messageChan))
	}
	if msg := <-messageChan; msg.Message != "Message 1\n" {
		t.Errorf("Expected first message to be kept, got %q", msg.Message)
	}
}

func TestWebLogger_NilChannel(t *testing.T) {
	logger := NewWebLogger("test-render-nil", nil)
	logger.Printf("Test message with nil channel\n")
}

func TestMessageLevel(t *testing.T) {
	tests := []struct {
		message string
		level   string
	}{
		{"Rendering \"default\" at 320x200\n", "info"},
		{"Warning: failed to parse metadata\n", "warning"},
		{"Rendering cancelled after 12 of 64000 pixels\n", "warning"},
		{"Error creating file\n", "error"},
	}

	for _, tt := range tests {
		if got := messageLevel(tt.message); got != tt.level {
			t.Errorf("messageLevel(%q) = %q, want %q", tt.message, got, tt.level)
		}
	}
}

func TestConsoleMessage_JSON(t *testing.T) {
	msg := ConsoleMessage{RenderID: newRenderID(), Message: "hello", Timestamp: time.Now(), Level: "info"}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"renderId"`, `"message":"hello"`, `"level":"info"`, `"timestamp"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected %s in %s", key, data)
		}
	}
}

func TestNewRenderID_Unique(t *testing.T) {
	a, b := newRenderID(), newRenderID()
	if a == b || len(a) != 36 {
		t.Errorf("Expected distinct UUIDs, got %q and %q", a, b)
	}
}
