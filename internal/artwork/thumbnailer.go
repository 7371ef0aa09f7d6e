package artwork

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG format support

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// Thumbnailer downsizes artwork so cached files stay small
type Thumbnailer struct {
	logger  *zap.Logger
	maxSize int
}

// NewThumbnailer creates a thumbnailer bounding the longest edge to maxSize pixels.
// A non-positive maxSize keeps the original dimensions.
func NewThumbnailer(logger *zap.Logger, maxSize int) *Thumbnailer {
	return &Thumbnailer{logger: logger, maxSize: maxSize}
}

// Process decodes imageData, fits it into maxSize x maxSize and re-encodes it as JPEG
func (t *Thumbnailer) Process(imageData []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	if t.maxSize > 0 && (bounds.Dx() > t.maxSize || bounds.Dy() > t.maxSize) {
		img = imaging.Fit(img, t.maxSize, t.maxSize, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	t.logger.Debug("Thumbnail processed",
		zap.Int("srcWidth", bounds.Dx()),
		zap.Int("srcHeight", bounds.Dy()),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}
