package creative

import (
	"bytes"
	"image"
	"testing"
)

func TestFitWithin(t *testing.T) {
	cases := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{"already small", 800, 600, 800, 600},
		{"wide", 2048, 1024, 1024, 512},
		{"tall", 512, 4096, 128, 1024},
		{"square oversized", 3000, 3000, 1024, 1024},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := fitWithin(tc.w, tc.h, maxImageDimension)
			if w != tc.wantW || h != tc.wantH {
				t.Fatalf("fitWithin(%d, %d) = (%d, %d), want (%d, %d)", tc.w, tc.h, w, h, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestNormalizeImageDownscalesAndKeepsPNG(t *testing.T) {
	input := ImageInput{MimeType: "image/png", Data: pngBytes(t, 2048, 1024)}

	blob, err := NormalizeImage(input)
	if err != nil {
		t.Fatalf("NormalizeImage error = %v", err)
	}
	if blob.MimeType != "image/png" {
		t.Fatalf("MimeType = %q, want image/png", blob.MimeType)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(blob.Data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if cfg.Width != 1024 || cfg.Height != 512 {
		t.Fatalf("result = %dx%d, want 1024x512", cfg.Width, cfg.Height)
	}
}

func TestNormalizeImageConvertsToJPEG(t *testing.T) {
	// PNG bytes with a JPEG-ish MIME type still decode, but the output
	// must be JPEG.
	input := ImageInput{MimeType: "image/webp", Data: pngBytes(t, 64, 64)}

	blob, err := NormalizeImage(input)
	if err != nil {
		t.Fatalf("NormalizeImage error = %v", err)
	}
	if blob.MimeType != "image/jpeg" {
		t.Fatalf("MimeType = %q, want image/jpeg", blob.MimeType)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(blob.Data))
	if err != nil || format != "jpeg" {
		t.Fatalf("decode result: format=%q err=%v", format, err)
	}
}

func TestNormalizeImageRejectsGarbage(t *testing.T) {
	if _, err := NormalizeImage(ImageInput{MimeType: "image/png", Data: []byte("not an image")}); err == nil {
		t.Fatalf("NormalizeImage should fail on undecodable data")
	}
}
