package media

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// ExtractMetadata decodes dimensions for a stored image and, for camera
// originals used as references, any EXIF fields present. Generated PNGs
// carry no EXIF; that is not an error.
func ExtractMetadata(fullPath string) (*Metadata, error) {
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image '%s': %w", fullPath, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image config for '%s': %w", fullPath, err)
	}

	meta := &Metadata{}
	w, h := cfg.Width, cfg.Height
	meta.Width = &w
	meta.Height = &h

	if _, err := f.Seek(0, 0); err != nil {
		return meta, nil
	}
	ex, err := exif.Decode(f)
	if err != nil {
		// no EXIF block, common for generated images
		return meta, nil
	}

	if tag, err := ex.Get(exif.Make); err == nil {
		if s, err := tag.StringVal(); err == nil && s != "" {
			meta.CameraMake = &s
		}
	}
	if tag, err := ex.Get(exif.Model); err == nil {
		if s, err := tag.StringVal(); err == nil && s != "" {
			meta.CameraModel = &s
		}
	}
	if t, err := ex.DateTime(); err == nil {
		ts := t.Unix()
		meta.TakenAt = &ts
	}

	return meta, nil
}
