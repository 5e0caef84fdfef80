package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"mirror-hall", "Mirror Hall"},
		{"glass_row", "Glass Row"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParseSceneMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete_metadata.scn",
			content: `# Scene: Room
# Variant: Matte Floor
# Description: Room without mirrors
# Group: Rooms

light 0 1 0`,
			expected: SceneInfo{
				ID:          "file:complete_metadata",
				Name:        "Room",
				DisplayName: "Room - Matte Floor",
				Description: "Room without mirrors",
				Group:       "Rooms",
				Type:        "file",
				Variant:     "Matte Floor",
			},
		},
		{
			name: "partial_metadata.scn",
			content: `# Scene: Glass
# Description: Glass spheres

light 0 1 0`,
			expected: SceneInfo{
				ID:          "file:partial_metadata",
				Name:        "Glass",
				DisplayName: "Glass",
				Description: "Glass spheres",
				Group:       "Scene Files",
				Type:        "file",
			},
		},
		{
			name:    "no_metadata.scn",
			content: `light 0 1 0`,
			expected: SceneInfo{
				ID:          "file:no_metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       "Scene Files",
				Type:        "file",
			},
		},
	}

	dir := t.TempDir()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("Failed to write temp file: %v", err)
			}

			result, err := ParseSceneMetadata(path)
			if err != nil {
				t.Fatalf("ParseSceneMetadata() error: %v", err)
			}

			tc.expected.FilePath = path
			if result != tc.expected {
				t.Errorf("ParseSceneMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestParseSceneMetadata_MissingFile(t *testing.T) {
	result, err := ParseSceneMetadata("nonexistent.scn")
	if err != nil {
		t.Errorf("ParseSceneMetadata() should handle missing files gracefully: %v", err)
	}
	if result.DisplayName != "Nonexistent" {
		t.Errorf("Expected fallback display name, got %q", result.DisplayName)
	}
}

func TestListAllScenes(t *testing.T) {
	response, err := ListAllScenes()
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	if len(response.Groups) == 0 || response.Groups[0].Name != builtinGroup {
		t.Fatalf("Expected built-in group first, got %+v", response.Groups)
	}

	builtIn := response.Groups[0]
	expected := BuiltinNames()
	if len(builtIn.Scenes) != len(expected) {
		t.Fatalf("Built-in scenes count = %d, want %d", len(builtIn.Scenes), len(expected))
	}
	for i, id := range expected {
		if builtIn.Scenes[i].ID != id {
			t.Errorf("Built-in scene %d = %q, want %q", i, builtIn.Scenes[i].ID, id)
		}
	}

	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			if info.DisplayName == "" {
				t.Errorf("Scene %q has empty DisplayName", info.ID)
			}
			if info.Type == "file" && !strings.HasPrefix(info.ID, "file:") {
				t.Errorf("File scene ID should start with 'file:': %s", info.ID)
			}
		}
	}
}

func TestCreate_Builtins(t *testing.T) {
	for _, name := range BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			s, err := Create(name)
			if err != nil {
				t.Fatalf("Create(%q) error: %v", name, err)
			}
			if err := s.Validate(); err != nil {
				t.Errorf("Scene %q does not validate: %v", name, err)
			}
		})
	}
}

func TestCreate_Unknown(t *testing.T) {
	for _, name := range []string{"cornell-box", "file:does-not-exist", ""} {
		if _, err := Create(name); !errors.Is(err, ErrUnknownScene) {
			t.Errorf("Create(%q) error = %v, want ErrUnknownScene", name, err)
		}
	}
}

func TestCreate_RejectsUnsafePaths(t *testing.T) {
	// A real scene file outside scenes/ must not be reachable by path
	dir := t.TempDir()
	outside := filepath.Join(dir, "scenes", "room.scn")
	if err := os.MkdirAll(filepath.Dir(outside), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(outside, []byte("light 0 1 0\nsphere 0 0 -1 0.5 #FF0000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{
		outside,
		"/etc/scenes/x.scn",
		"scenes/../../scenes/room.scn",
		"../../scenes/room.scn",
	} {
		if s, err := Create(id); err == nil {
			t.Errorf("Create(%q) = %q, want error", id, s.Name)
		}
	}
}

func TestCreate_SceneFiles(t *testing.T) {
	files, err := ListSceneFiles()
	if err != nil {
		t.Fatalf("ListSceneFiles() error: %v", err)
	}

	for _, info := range files {
		t.Run(info.ID, func(t *testing.T) {
			s, err := Create(info.ID)
			if err != nil {
				t.Fatalf("Create(%q) error: %v", info.ID, err)
			}
			if s.GetPrimitiveCount() == 0 {
				t.Error("Expected scene file to contain geometry")
			}
		})
	}
}

func TestNewFileScene(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.scn")
	if err := os.WriteFile(path, []byte("light 0 0 0\nsphere 0 0 -1 0.1 #FF0000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewFileScene(path)
	if err != nil {
		t.Fatalf("NewFileScene() error: %v", err)
	}
	if s.Name != "tiny" || len(s.Spheres) != 1 {
		t.Errorf("Unexpected scene %+v", s)
	}
}

func TestNewFileScene_Empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.scn")
	if err := os.WriteFile(path, []byte("light 0 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileScene(path); !errors.Is(err, ErrEmptyScene) {
		t.Errorf("Expected ErrEmptyScene, got %v", err)
	}
}
