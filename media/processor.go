package media

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"io"
	"log"
	"math"

	"github.com/disintegration/imaging"
)

const (
	ThumbnailJpegQuality   = 90
	ThumbnailFileExtension = ".jpg"

	PlaceholderFileExtension = ".png"
)

// Processor handles media transformations like thumbnailing and placeholder
// rendering. it relies on a Store implementation for saving the results.
type Processor struct {
	store Store
}

func NewProcessor(store Store) *Processor {
	return &Processor{store: store}
}

// GenerateThumbnail creates a thumbnail where the longest side matches maxSize.
// saves the result using the Store. returns relative path to saved thumb or error.
func (p *Processor) GenerateThumbnail(originalImg image.Image, maxSize int) (string, error) {
	origBounds := originalImg.Bounds()
	origWidth := origBounds.Dx()
	origHeight := origBounds.Dy()
	if origWidth <= 0 || origHeight <= 0 {
		return "", fmt.Errorf("invalid original image dimensions: %dx%d", origWidth, origHeight)
	}

	var newWidth, newHeight int
	if origWidth > origHeight {
		if origWidth <= maxSize {
			newWidth, newHeight = origWidth, origHeight
		} else {
			newWidth = maxSize
			newHeight = int(math.Round(float64(origHeight) * (float64(maxSize) / float64(origWidth))))
		}
	} else {
		if origHeight <= maxSize {
			newWidth, newHeight = origWidth, origHeight
		} else {
			newHeight = maxSize
			newWidth = int(math.Round(float64(origWidth) * (float64(maxSize) / float64(origHeight))))
		}
	}
	newWidth = maxInt(1, newWidth)
	newHeight = maxInt(1, newHeight)

	thumb := imaging.Resize(originalImg, newWidth, newHeight, imaging.Lanczos)

	reader, writer := io.Pipe()
	go func() {
		err := imaging.Encode(writer, thumb, imaging.JPEG, imaging.JPEGQuality(ThumbnailJpegQuality))
		if err != nil {
			log.Printf("processor: Failed to encode thumbnail: %v", err)
			writer.CloseWithError(fmt.Errorf("thumbnail encoding failed: %w", err))
			return
		}
		writer.Close()
	}()

	relPath, err := p.store.Save(AssetTypeThumbnail, "", ThumbnailFileExtension, reader)
	if err != nil {
		reader.Close()
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return relPath, nil
}

// RenderPlaceholder produces a deterministic flat-color image for the given
// seed text (the generation prompt) and saves it as a PNG. Used by the mock
// provider so the frontend always has something to show.
func (p *Processor) RenderPlaceholder(seed string, width, height int) (string, error) {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 1024
	}

	img := imaging.New(width, height, placeholderColor(seed))

	reader, writer := io.Pipe()
	go func() {
		if err := imaging.Encode(writer, img, imaging.PNG); err != nil {
			log.Printf("processor: Failed to encode placeholder: %v", err)
			writer.CloseWithError(fmt.Errorf("placeholder encoding failed: %w", err))
			return
		}
		writer.Close()
	}()

	relPath, err := p.store.Save(AssetTypeGenerated, "", PlaceholderFileExtension, reader)
	if err != nil {
		reader.Close()
		return "", fmt.Errorf("failed to save placeholder: %w", err)
	}
	return relPath, nil
}

// placeholderColor maps a seed string onto a stable mid-saturation color
func placeholderColor(seed string) color.NRGBA {
	h := fnv.New32a()
	h.Write([]byte(seed))
	sum := h.Sum32()
	return color.NRGBA{
		R: uint8(96 + (sum>>16)&0x7f),
		G: uint8(96 + (sum>>8)&0x7f),
		B: uint8(96 + sum&0x7f),
		A: 255,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
