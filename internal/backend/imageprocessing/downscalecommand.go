package imageprocessing

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
)

const (
	DownscaleCommandName = "DownscaleCommand"
	DefaultMaxDimension  = 2000
)

// DownscaleParams represents typed parameters for the downscale command
type DownscaleParams struct {
	MaxDimension int
}

// NewDownscaleParamsFromMap creates DownscaleParams from a generic map
func NewDownscaleParamsFromMap(params map[string]any) (*DownscaleParams, error) {
	maxDimension := GetIntParam(params, "maxDimension", DefaultMaxDimension)
	if maxDimension <= 0 {
		return nil, fmt.Errorf("maxDimension must be positive, got %d", maxDimension)
	}
	return &DownscaleParams{MaxDimension: maxDimension}, nil
}

// DownscaleCommand shrinks images whose longer side exceeds MaxDimension,
// preserving the aspect ratio. Smaller images pass through unchanged.
type DownscaleCommand struct {
	name   string
	params *DownscaleParams
}

// NewDownscaleCommand creates a new downscale command from configuration parameters
func NewDownscaleCommand(params map[string]any) (Command, error) {
	typedParams, err := NewDownscaleParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &DownscaleCommand{
		name:   DownscaleCommandName,
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *DownscaleCommand) Name() string {
	return c.name
}

// GetMaxDimension returns the configured upper bound for either side
func (c *DownscaleCommand) GetMaxDimension() int {
	return c.params.MaxDimension
}

// Execute resamples with Catmull-Rom when the image is too large
func (c *DownscaleCommand) Execute(imageData []byte) ([]byte, error) {
	img, _, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	originalWidth, originalHeight := bounds.Dx(), bounds.Dy()
	maxDimension := c.params.MaxDimension

	if originalWidth <= maxDimension && originalHeight <= maxDimension {
		slog.Debug("DownscaleCommand: image within bounds; skipping",
			"width", originalWidth,
			"height", originalHeight,
			"max_dimension", maxDimension)
		return imageData, nil
	}

	scaledWidth, scaledHeight := fitWithin(originalWidth, originalHeight, maxDimension)
	slog.Debug("DownscaleCommand: downscaling image",
		"original_width", originalWidth,
		"original_height", originalHeight,
		"scaled_width", scaledWidth,
		"scaled_height", scaledHeight)

	dst := image.NewRGBA(image.Rect(0, 0, scaledWidth, scaledHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)

	return encodeIntermediate(dst)
}

// fitWithin scales the longer side to maxDimension and the shorter side proportionally.
func fitWithin(width, height, maxDimension int) (int, int) {
	if width >= height {
		scaled := int(math.Round(float64(height) * float64(maxDimension) / float64(width)))
		return maxDimension, max(scaled, 1)
	}
	scaled := int(math.Round(float64(width) * float64(maxDimension) / float64(height)))
	return max(scaled, 1), maxDimension
}

func init() {
	// Register the command in the default registry
	if err := DefaultRegistry.Register(DownscaleCommandName, NewDownscaleCommand); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", DownscaleCommandName, err))
	}
}
