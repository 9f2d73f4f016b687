// Package zip builds downloadable archives of generated creatives.
package zip

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/azulcreative/server/internal/domain"
)

// ArchiveGallery packs the creatives into a zip archive, one image file
// per creative named after its id, plus a captions.txt with any captions.
// Creatives whose data URLs cannot be decoded are skipped.
func ArchiveGallery(items []domain.Creative) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	var captions strings.Builder
	for i, item := range items {
		data, ext, err := decodeDataURL(item.URL)
		if err != nil {
			continue
		}
		name := fmt.Sprintf("%02d-%s.%s", i+1, item.ID, ext)
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("zip: create entry: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("zip: write entry: %w", err)
		}
		if item.Caption != "" {
			fmt.Fprintf(&captions, "%s\n%s\n\n", name, item.Caption)
		}
	}

	if captions.Len() > 0 {
		w, err := zw.Create("captions.txt")
		if err != nil {
			return nil, fmt.Errorf("zip: create captions: %w", err)
		}
		if _, err := w.Write([]byte(captions.String())); err != nil {
			return nil, fmt.Errorf("zip: write captions: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeDataURL(url string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return nil, "", fmt.Errorf("zip: not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("zip: malformed data url")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("zip: decode payload: %w", err)
	}

	ext := "png"
	switch strings.TrimSuffix(meta, ";base64") {
	case "image/jpeg":
		ext = "jpg"
	case "image/webp":
		ext = "webp"
	}
	return data, ext, nil
}
