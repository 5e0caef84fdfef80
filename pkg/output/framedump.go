package output

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-vga-raytracer/pkg/palette"
	"github.com/df07/go-vga-raytracer/pkg/renderer"
)

// Frame dumps hold the raw palette index plane of a render, the way it would
// sit in mode 13h video memory, behind a small uncompressed header.
const (
	dumpMagic   = "VGAI"
	DumpVersion = 1
	headerSize  = 11 // magic, version, codec, palette, width, height
)

var (
	// ErrUnknownCodec is returned for compression codecs other than zstd and snappy
	ErrUnknownCodec = errors.New("unknown dump codec")
	// ErrBadDump is returned when a dump header is malformed
	ErrBadDump = errors.New("malformed frame dump")
)

// Codec names the compression of a frame dump payload
type Codec string

const (
	CodecZstd   Codec = "zstd"
	CodecSnappy Codec = "snappy"
)

var codecIDs = map[Codec]uint8{CodecZstd: 1, CodecSnappy: 2}

func codecByID(id uint8) (Codec, bool) {
	for c, cid := range codecIDs {
		if cid == id {
			return c, true
		}
	}
	return "", false
}

// ParseCodec accepts "zstd" or "snappy" in any case
func ParseCodec(s string) (Codec, error) {
	c := Codec(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := codecIDs[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCodec, s)
	}
	return c, nil
}

// CodecFromPath maps ".zst" to zstd and ".sz" to snappy
func CodecFromPath(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		return CodecZstd, nil
	case ".sz":
		return CodecSnappy, nil
	}
	return "", fmt.Errorf("%w: cannot infer codec from %q", ErrUnknownCodec, path)
}

// DumpHeader describes a frame dump
type DumpHeader struct {
	Version uint8
	Codec   Codec
	Palette palette.ID
	Width   int
	Height  int
}

// WriteDump writes the header and the compressed index plane of frame
func WriteDump(w io.Writer, frame *renderer.Frame, paletteID palette.ID, codec Codec) error {
	codecID, ok := codecIDs[codec]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCodec, codec)
	}
	if !validDumpSize(frame.Width, frame.Height) {
		return fmt.Errorf("frame %dx%d out of range for dump", frame.Width, frame.Height)
	}

	var header [headerSize]byte
	copy(header[:4], dumpMagic)
	header[4] = DumpVersion
	header[5] = codecID
	header[6] = uint8(paletteID)
	binary.LittleEndian.PutUint16(header[7:9], uint16(frame.Width))
	binary.LittleEndian.PutUint16(header[9:11], uint16(frame.Height))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write dump header: %w", err)
	}

	var stream io.WriteCloser
	switch codec {
	case CodecZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		stream = enc
	case CodecSnappy:
		stream = snappy.NewBufferedWriter(w)
	}

	if _, err := stream.Write(frame.Pix); err != nil {
		stream.Close()
		return fmt.Errorf("write dump payload: %w", err)
	}
	return stream.Close()
}

func validDumpSize(width, height int) bool {
	return width > 0 && height > 0 && width <= renderer.MaxDimension && height <= renderer.MaxDimension
}

// ReadDump decodes a frame dump written by WriteDump
func ReadDump(r io.Reader) (*renderer.Frame, DumpHeader, error) {
	var raw [headerSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return nil, DumpHeader{}, fmt.Errorf("%w: short header: %v", ErrBadDump, err)
	}
	if string(raw[:4]) != dumpMagic {
		return nil, DumpHeader{}, fmt.Errorf("%w: bad magic %q", ErrBadDump, raw[:4])
	}
	if raw[4] != DumpVersion {
		return nil, DumpHeader{}, fmt.Errorf("%w: unsupported version %d", ErrBadDump, raw[4])
	}
	codec, ok := codecByID(raw[5])
	if !ok {
		return nil, DumpHeader{}, fmt.Errorf("%w: id %d", ErrUnknownCodec, raw[5])
	}
	if !palette.ID(raw[6]).Valid() {
		return nil, DumpHeader{}, fmt.Errorf("%w: unknown palette %d", ErrBadDump, raw[6])
	}

	header := DumpHeader{
		Version: raw[4],
		Codec:   codec,
		Palette: palette.ID(raw[6]),
		Width:   int(binary.LittleEndian.Uint16(raw[7:9])),
		Height:  int(binary.LittleEndian.Uint16(raw[9:11])),
	}
	// The frame is allocated from the header, so bound it before trusting it
	if !validDumpSize(header.Width, header.Height) {
		return nil, header, fmt.Errorf("%w: frame size %dx%d out of range", ErrBadDump, header.Width, header.Height)
	}
	frame := renderer.NewFrame(header.Width, header.Height)

	var payload io.Reader
	switch codec {
	case CodecZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, header, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		payload = dec
	case CodecSnappy:
		payload = snappy.NewReader(r)
	}

	if _, err := io.ReadFull(payload, frame.Pix); err != nil {
		return nil, header, fmt.Errorf("%w: read payload: %v", ErrBadDump, err)
	}
	return frame, header, nil
}

// SaveDump writes a frame dump to path, creating parent directories
func SaveDump(path string, frame *renderer.Frame, paletteID palette.ID, codec Codec) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDump(file, frame, paletteID, codec); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// LoadDump reads a frame dump from path
func LoadDump(path string) (*renderer.Frame, DumpHeader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, DumpHeader{}, err
	}
	defer file.Close()
	return ReadDump(file)
}
