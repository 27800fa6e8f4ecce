package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestSniffPNG(t *testing.T) {
	info, err := Sniff(encodePNG(t, 12, 7))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if info.Format != "png" {
		t.Errorf("Format = %q, want png", info.Format)
	}
	if info.Width != 12 || info.Height != 7 {
		t.Errorf("dimensions = %dx%d, want 12x7", info.Width, info.Height)
	}
	if info.Resolution() != "12x7" {
		t.Errorf("Resolution = %q, want 12x7", info.Resolution())
	}
}

func TestSniffJPEG(t *testing.T) {
	info, err := Sniff(encodeJPEG(t, 3, 5))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if info.Format != "jpeg" {
		t.Errorf("Format = %q, want jpeg", info.Format)
	}
	if info.Width != 3 || info.Height != 5 {
		t.Errorf("dimensions = %dx%d, want 3x5", info.Width, info.Height)
	}
}

func TestSniffGarbage(t *testing.T) {
	if _, err := Sniff([]byte("not an image")); err == nil {
		t.Fatal("expected error for non-image data")
	}
}
