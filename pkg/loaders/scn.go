package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-vga-raytracer/pkg/core"
	"github.com/df07/go-vga-raytracer/pkg/geometry"
)

// SceneFileExt is the extension of scene description files
const SceneFileExt = ".scn"

// ErrNoLight is returned when a scene file never places the light
var ErrNoLight = errors.New("scene file has no light statement")

// SCNScene contains all parsed scene file data
type SCNScene struct {
	Spheres []geometry.Sphere
	Planes  []geometry.Plane
	Light   core.Vec3
}

// ParseSCN parses scene content from an io.Reader.
//
// Each non-comment line is one statement:
//
//	light  X Y Z
//	sphere X Y Z RADIUS COLOR [reflective] [refractive]
//	plane  NX NY NZ DISTANCE COLOR [reflective]
//
// COLOR is either three integers 0-255 or a #RRGGBB literal.
func ParseSCN(reader io.Reader) (*SCNScene, error) {
	scene := &SCNScene{}
	haveLight := false

	scanner := bufio.NewScanner(reader)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		tokens := tokenizeSCN(scanner.Text())
		if len(tokens) == 0 {
			continue
		}

		var err error
		switch strings.ToLower(tokens[0]) {
		case "light":
			scene.Light, err = parseLight(tokens[1:])
			haveLight = true
		case "sphere":
			var s geometry.Sphere
			if s, err = parseSphere(tokens[1:]); err == nil {
				scene.Spheres = append(scene.Spheres, s)
			}
		case "plane":
			var p geometry.Plane
			if p, err = parsePlane(tokens[1:]); err == nil {
				scene.Planes = append(scene.Planes, p)
			}
		default:
			err = fmt.Errorf("unknown statement %q", tokens[0])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %v", err)
	}
	if !haveLight {
		return nil, ErrNoLight
	}

	return scene, nil
}

// LoadSCN loads and parses a scene file. The path is trusted; paths taken
// from requests go through ValidateScenePath first.
func LoadSCN(filename string) (*SCNScene, error) {
	if err := checkSceneExt(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %v", err)
	}
	defer file.Close()

	return ParseSCN(file)
}

// tokenizeSCN splits a line into whitespace separated tokens.
// A token starting with # ends the line unless it is a #RRGGBB color.
func tokenizeSCN(line string) []string {
	fields := strings.Fields(line)
	for i, tok := range fields {
		if strings.HasPrefix(tok, "#") && !isHexColor(tok) {
			return fields[:i]
		}
	}
	return fields
}

func isHexColor(tok string) bool {
	if len(tok) != 7 || tok[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(tok[1:], 16, 32)
	return err == nil
}

func parseFloats(tokens []string, n int) ([]float64, error) {
	if len(tokens) < n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(tokens))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", tokens[i], err)
		}
		out[i] = v
	}
	return out, nil
}

// parseColor reads a color and returns it with the number of tokens consumed
func parseColor(tokens []string) (core.RGB, int, error) {
	if len(tokens) == 0 {
		return core.RGB{}, 0, fmt.Errorf("missing color")
	}
	if isHexColor(tokens[0]) {
		v, _ := strconv.ParseUint(tokens[0][1:], 16, 32)
		return core.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, 1, nil
	}
	if len(tokens) < 3 {
		return core.RGB{}, 0, fmt.Errorf("expected 3 color channels, got %d", len(tokens))
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(tokens[i], 10, 8)
		if err != nil {
			return core.RGB{}, 0, fmt.Errorf("invalid color channel %q: must be 0-255", tokens[i])
		}
		ch[i] = uint8(v)
	}
	return core.RGB{R: ch[0], G: ch[1], B: ch[2]}, 3, nil
}

// parseFlags reads trailing flag keywords, rejecting any not in allowed
func parseFlags(tokens []string, allowed ...string) (map[string]bool, error) {
	flags := make(map[string]bool)
	for _, tok := range tokens {
		name := strings.ToLower(tok)
		ok := false
		for _, a := range allowed {
			if name == a {
				ok = true
				break
			}
		}
		if !ok {
			return nil, fmt.Errorf("unexpected token %q", tok)
		}
		flags[name] = true
	}
	return flags, nil
}

func parseLight(tokens []string) (core.Vec3, error) {
	if len(tokens) != 3 {
		return core.Vec3{}, fmt.Errorf("light takes 3 coordinates, got %d", len(tokens))
	}
	v, err := parseFloats(tokens, 3)
	if err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

func parseSphere(tokens []string) (geometry.Sphere, error) {
	v, err := parseFloats(tokens, 4)
	if err != nil {
		return geometry.Sphere{}, err
	}
	color, n, err := parseColor(tokens[4:])
	if err != nil {
		return geometry.Sphere{}, err
	}
	flags, err := parseFlags(tokens[4+n:], "reflective", "refractive")
	if err != nil {
		return geometry.Sphere{}, err
	}

	s := geometry.NewSphere(core.NewVec3(v[0], v[1], v[2]), v[3], color)
	s.Reflective = flags["reflective"]
	s.Refractive = flags["refractive"]
	if err := s.Validate(); err != nil {
		return geometry.Sphere{}, err
	}
	return *s, nil
}

func parsePlane(tokens []string) (geometry.Plane, error) {
	v, err := parseFloats(tokens, 4)
	if err != nil {
		return geometry.Plane{}, err
	}
	color, n, err := parseColor(tokens[4:])
	if err != nil {
		return geometry.Plane{}, err
	}
	flags, err := parseFlags(tokens[4+n:], "reflective")
	if err != nil {
		return geometry.Plane{}, err
	}

	p := geometry.NewPlane(core.NewVec3(v[0], v[1], v[2]), v[3], color)
	p.Reflective = flags["reflective"]
	if err := p.Validate(); err != nil {
		return geometry.Plane{}, err
	}
	return *p, nil
}

// ValidateScenePath checks a scene path that came from outside the program,
// such as a web request. The path must be relative, stay inside a top-level
// scenes/ directory and name a .scn file.
func ValidateScenePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	slashed := filepath.ToSlash(filename)
	if filepath.IsAbs(filename) || strings.HasPrefix(slashed, "/") || filepath.VolumeName(filename) != "" {
		return fmt.Errorf("invalid file path: absolute paths not allowed")
	}

	// Checked before cleaning, which would fold scenes/../x into x
	for _, part := range strings.Split(slashed, "/") {
		if part == ".." {
			return fmt.Errorf("invalid file path: directory traversal not allowed")
		}
	}

	if !strings.HasPrefix(filepath.ToSlash(filepath.Clean(filename)), "scenes/") {
		return fmt.Errorf("file path must be in scenes/ directory")
	}

	if len(filename) > 260 {
		return fmt.Errorf("file path too long")
	}

	return checkSceneExt(filename)
}

func checkSceneExt(filename string) error {
	if !strings.HasSuffix(strings.ToLower(filename), SceneFileExt) {
		return fmt.Errorf("invalid file type: only %s files are allowed", SceneFileExt)
	}
	return nil
}
