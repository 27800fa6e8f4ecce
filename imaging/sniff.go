// Package imaging identifies the codec and pixel dimensions of raw image
// blobs pulled out of documents. It decodes only the image header, never the
// pixel data, so sniffing a large embedded image stays cheap.
package imaging

import (
	"bytes"
	"fmt"
	"image"

	// Codec registrations for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/docsift/docsift/model"
)

// Info describes a sniffed image blob.
type Info struct {
	Format string // lowercased codec name, e.g. "png", "jpeg"
	Width  int
	Height int
}

// Resolution returns the dimensions in the canonical "WIDTHxHEIGHT" form.
func (i Info) Resolution() string {
	return model.Resolution(i.Width, i.Height)
}

// Sniff reads the header of an image blob and reports its format and pixel
// dimensions. It fails when the blob is not in a registered format or its
// header is corrupt.
func Sniff(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("sniffing image header: %w", err)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
