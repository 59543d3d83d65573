package gallery

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
)

// ImageInfo is what a terminal can show about an image it cannot draw.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// Describe decodes the header of a local image. Remote references
// (http, https, data URIs) are reported without being fetched.
func Describe(ref string) (ImageInfo, error) {
	if ref == "" {
		return ImageInfo{}, fmt.Errorf("empty image reference")
	}
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "data:") {
		return ImageInfo{Format: "remote"}, nil
	}

	f, err := os.Open(ref)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to open screenshot: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to decode screenshot: %w", err)
	}
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
