package imageprocessing

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
)

const (
	JpegEncoderCommandName = "JpegEncoderCommand"
	DefaultJpegQuality     = 85
)

// JpegEncoderParams represents typed parameters for the JPEG encoder command
type JpegEncoderParams struct {
	Quality int
}

// NewJpegEncoderParamsFromMap creates JpegEncoderParams from a generic map
func NewJpegEncoderParamsFromMap(params map[string]any) (*JpegEncoderParams, error) {
	quality := GetIntParam(params, "quality", DefaultJpegQuality)
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("quality must be between 1 and 100, got %d", quality)
	}
	return &JpegEncoderParams{Quality: quality}, nil
}

// JpegEncoderCommand re-encodes any input as 3-channel JPEG, including input that already is JPEG
type JpegEncoderCommand struct {
	name   string
	params *JpegEncoderParams
}

// NewJpegEncoderCommand creates a new JPEG encoder command from configuration parameters
func NewJpegEncoderCommand(params map[string]any) (Command, error) {
	typedParams, err := NewJpegEncoderParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &JpegEncoderCommand{
		name:   JpegEncoderCommandName,
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *JpegEncoderCommand) Name() string {
	return c.name
}

// GetQuality returns the configured JPEG quality
func (c *JpegEncoderCommand) GetQuality() int {
	return c.params.Quality
}

// Execute encodes the image as JPEG
func (c *JpegEncoderCommand) Execute(imageData []byte) ([]byte, error) {
	img, format, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}

	var src image.Image = img
	if !IsRGB(img) {
		// grayscale or CMYK would otherwise be written with 1 or 4 components
		src = ToRGB(img)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: c.params.Quality}); err != nil {
		slog.Error("JpegEncoderCommand: failed to encode image", "error", err)
		return nil, fmt.Errorf("failed to encode JPEG image: %w", err)
	}

	slog.Debug("JpegEncoderCommand: encoding complete",
		"input_format", format,
		"quality", c.params.Quality,
		"output_size_bytes", buf.Len())

	return buf.Bytes(), nil
}

func init() {
	// Register the command in the default registry
	if err := DefaultRegistry.Register(JpegEncoderCommandName, NewJpegEncoderCommand); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", JpegEncoderCommandName, err))
	}
}
