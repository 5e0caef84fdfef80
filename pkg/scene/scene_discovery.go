package scene

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-vga-raytracer/pkg/loaders"
)

// ErrUnknownScene is returned by Create for a name that is neither built in nor a scene file
var ErrUnknownScene = errors.New("unknown scene")

const (
	builtinGroup = "Built-in Scenes"
	fileGroup    = "Scene Files"
	filePrefix   = "file:"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, accepted by Create
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to scene file (file type only)
	Variant     string `json:"variant"`     // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type builtin struct {
	info    SceneInfo
	factory func() *Scene
}

var builtins = []builtin{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Room",
			Description: "Six spheres in a box with a mirrored floor",
		},
		factory: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "mirrors",
			Name:        "Mirror Hall",
			Description: "Two facing mirrors; reflections stop at the depth limit",
		},
		factory: NewMirrorScene,
	},
	{
		info: SceneInfo{
			ID:          "single-sphere",
			Name:        "Single Sphere",
			Description: "One red sphere lit from the eye",
		},
		factory: NewSingleSphereScene,
	},
}

// BuiltinNames returns the ids of the built-in scenes in display order
func BuiltinNames() []string {
	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.info.ID
	}
	return names
}

// Create builds the scene with the given id. Accepted ids are the built-in
// names, "file:<name>" for a discovered scene file, or a path to a .scn file
// inside a scenes/ directory.
func Create(id string) (*Scene, error) {
	for _, b := range builtins {
		if b.info.ID == id {
			return b.factory(), nil
		}
	}

	if strings.HasPrefix(id, filePrefix) {
		name := strings.TrimPrefix(id, filePrefix)
		files, err := ListSceneFiles()
		if err != nil {
			return nil, err
		}
		for _, info := range files {
			if info.ID == id {
				return NewFileScene(info.FilePath)
			}
		}
		return nil, fmt.Errorf("%w: no scene file named %q", ErrUnknownScene, name)
	}

	if strings.HasSuffix(strings.ToLower(id), loaders.SceneFileExt) {
		if err := loaders.ValidateScenePath(id); err != nil {
			return nil, fmt.Errorf("scene path %q: %w", id, err)
		}
		return NewFileScene(id)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// NewFileScene loads a scene from a .scn file
func NewFileScene(path string) (*Scene, error) {
	parsed, err := loaders.LoadSCN(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %s: %w", path, err)
	}

	nameWithoutExt := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s := &Scene{
		Name:    nameWithoutExt,
		Spheres: parsed.Spheres,
		Planes:  parsed.Planes,
		Light:   parsed.Light,
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return s, nil
}

// ListSceneFiles scans the scenes directory and returns discovered scene files
func ListSceneFiles() ([]SceneInfo, error) {
	// Try different possible paths for scenes directory
	possiblePaths := []string{"scenes", "../scenes", "../../scenes"}
	var scenesDir string

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			scenesDir = path
			break
		}
	}

	if scenesDir == "" {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(scenesDir, "*"+loaders.SceneFileExt))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %v", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata extracts metadata from scene file header comments.
// Missing files fall back to values derived from the filename.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          filePrefix + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       fileGroup,
		Type:        "file",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}
		if !strings.HasPrefix(line, "# ") {
			continue
		}

		content := strings.TrimPrefix(line, "# ")
		key, value, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Scene":
			sceneInfo.Name = value
		case "Variant":
			sceneInfo.Variant = value
		case "Description":
			sceneInfo.Description = value
		case "Group":
			sceneInfo.Group = value
		}
	}

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, scanner.Err()
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	allScenes := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtinGroup
		info.Type = "builtin"
		allScenes = append(allScenes, info)
	}

	fileScenes, err := ListSceneFiles()
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %v", err)
	}
	allScenes = append(allScenes, fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtinGroup,
		Scenes: groupMap[builtinGroup],
	})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "mirror-hall" -> "Mirror Hall"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
