package render

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"math"
	"os"
)

// DPI is the print resolution recorded in card PNGs.
const DPI = 300

// ihdrEnd is the offset just past the PNG signature and the IHDR chunk.
const ihdrEnd = 8 + 4 + 4 + 13 + 4

// EncodePNG writes img as PNG with a pHYs chunk declaring dpi.
func EncodePNG(w io.Writer, img image.Image, dpi float64) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	data := buf.Bytes()
	if len(data) < ihdrEnd || string(data[12:16]) != "IHDR" {
		return fmt.Errorf("unexpected PNG header")
	}

	if _, err := w.Write(data[:ihdrEnd]); err != nil {
		return err
	}
	if _, err := w.Write(physChunk(dpi)); err != nil {
		return err
	}
	_, err := w.Write(data[ihdrEnd:])
	return err
}

// SavePNG writes img to path with EncodePNG.
func SavePNG(path string, img image.Image, dpi float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodePNG(f, img, dpi); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// physChunk returns a pHYs chunk in pixels per metre.
func physChunk(dpi float64) []byte {
	ppm := uint32(math.Round(dpi / 0.0254))

	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:4], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], ppm)
	binary.BigEndian.PutUint32(chunk[12:16], ppm)
	chunk[16] = 1 // unit: metre
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))
	return chunk
}

// ReadDPI returns the horizontal resolution declared by a PNG's pHYs chunk.
// It reports false when the chunk is missing or not in metres.
func ReadDPI(data []byte) (float64, bool) {
	if len(data) < 8 {
		return 0, false
	}
	for off := 8; off+12 <= len(data); {
		n := int(binary.BigEndian.Uint32(data[off : off+4]))
		typ := string(data[off+4 : off+8])
		if off+12+n > len(data) {
			return 0, false
		}
		switch typ {
		case "pHYs":
			if n != 9 || data[off+16] != 1 {
				return 0, false
			}
			ppm := binary.BigEndian.Uint32(data[off+8 : off+12])
			return math.Round(float64(ppm) * 0.0254), true
		case "IDAT", "IEND":
			return 0, false
		}
		off += 12 + n
	}
	return 0, false
}
