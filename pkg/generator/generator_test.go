package generator

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateFormats(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	dir := t.TempDir()

	tests := []struct {
		file   string
		format string
	}{
		{"card.png", "png"},
		{"card.JPG", "jpeg"},
		{"card.jpeg", "jpeg"},
		{"card.bmp", "bmp"},
		{"card.tiff", "tiff"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := Generate(path, img); err != nil {
				t.Fatalf("Generate: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("DecodeConfig: %v", err)
			}
			if format != tt.format {
				t.Errorf("format = %q, want %q", format, tt.format)
			}
			if cfg.Width != 32 || cfg.Height != 16 {
				t.Errorf("size = %dx%d, want 32x16", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestGenerateUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.avi")
	if err := Generate(path, image.NewRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Fatal("want error for .avi")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("unsupported format should not create a file, stat err = %v", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#000000", color.RGBA{A: 255}, false},
		{"#FF0000", color.RGBA{R: 255, A: 255}, false},
		{"00ff80", color.RGBA{G: 255, B: 128, A: 255}, false},
		{"#abc", color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 255}, false},
		{" #102030 ", color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}, false},
		{"red", color.RGBA{}, true},
		{"#12345", color.RGBA{}, true},
		{"#gggggg", color.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if got := ParseHexRGBA("nope"); got != (color.RGBA{A: 255}) {
		t.Errorf("ParseHexRGBA fallback = %v, want opaque black", got)
	}
}

func TestQRImage(t *testing.T) {
	img, err := QRImage("LOPEZ_ANA", 120, "high")
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 120 {
		t.Errorf("bounds = %v, want 120x120", b)
	}

	if _, err := ParseQRLevel("ultra"); err == nil {
		t.Error("ParseQRLevel(ultra): want error")
	}
}
