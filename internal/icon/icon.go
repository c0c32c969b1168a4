// Package icon loads image files and packs them into the 32-bit icon
// property payload window managers expect.
package icon

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"os"

	// Register decoders for the common icon formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is a decoded icon in property wire form: a little-endian 32-bit
// width, a little-endian 32-bit height, then one 32-bit word per pixel with
// the bytes in B, G, R, A order.
type Image struct {
	Width  int
	Height int
	Data   []byte
}

// Words returns the payload length in 32-bit units: one word per pixel plus
// the two size words.
func (im *Image) Words() uint32 {
	return uint32(im.Width*im.Height + 2)
}

// New packs raw RGBA pixels (4 bytes per pixel, row-major, no padding) into
// the property payload.
func New(width, height int, rgba []byte) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid icon dimensions %dx%d", width, height)
	}
	if len(rgba) != width*height*4 {
		return nil, fmt.Errorf("icon pixel buffer is %d bytes, want %d for %dx%d",
			len(rgba), width*height*4, width, height)
	}

	data := make([]byte, 0, (width*height+2)*4)
	data = appendU32(data, uint32(width))
	data = appendU32(data, uint32(height))
	for i := 0; i < len(rgba); i += 4 {
		r, g, b, a := rgba[i], rgba[i+1], rgba[i+2], rgba[i+3]
		data = append(data, b, g, r, a)
	}

	return &Image{Width: width, Height: height, Data: data}, nil
}

// Load reads and decodes an image file and packs it for the icon property.
// Any read or decode failure is returned as-is; callers treat it as fatal.
func Load(path string) (*Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read icon %s: %w", path, err)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode icon %s: %w", path, err)
	}

	return FromImage(src)
}

// FromImage packs any decoded image. The image is first normalized to
// straight-alpha RGBA, since that is what the property format wants.
func FromImage(src image.Image) (*Image, error) {
	bounds := src.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)
	return New(bounds.Dx(), bounds.Dy(), nrgba.Pix)
}

func appendU32(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
