package imageprocessing

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
)

const RGBConverterCommandName = "RGBConverterCommand"

// RGBConverterCommand flattens any image that is not plain 3-channel color
// (alpha, palette, grayscale, CMYK, 16-bit) into 8-bit RGB. Alpha is dropped, not blended.
type RGBConverterCommand struct {
	name string
}

// NewRGBConverterCommand creates a new RGB converter command; it takes no parameters
func NewRGBConverterCommand(params map[string]any) (Command, error) {
	return &RGBConverterCommand{
		name: RGBConverterCommandName,
	}, nil
}

// Name returns the command name
func (c *RGBConverterCommand) Name() string {
	return c.name
}

// Execute returns the input untouched when it already is 3-channel color
func (c *RGBConverterCommand) Execute(imageData []byte) ([]byte, error) {
	img, format, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}

	if IsRGB(img) {
		slog.Debug("RGBConverterCommand: image already RGB; returning original bytes", "format", format)
		return imageData, nil
	}

	slog.Debug("RGBConverterCommand: converting color model",
		"format", format,
		"image_type", fmt.Sprintf("%T", img))

	return encodeIntermediate(ToRGB(img))
}

// IsRGB reports whether img is stored as opaque 8-bit 3-channel color.
func IsRGB(img image.Image) bool {
	switch m := img.(type) {
	case *image.YCbCr:
		return true
	case *image.RGBA:
		return m.Opaque()
	}
	return false
}

// ToRGB copies img into an opaque RGBA image whose origin is (0, 0).
func ToRGB(src image.Image) *image.RGBA {
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	parallelFor(height, func(y int) {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			dst.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	})
	return dst
}

func init() {
	// Register the command in the default registry
	if err := DefaultRegistry.Register(RGBConverterCommandName, NewRGBConverterCommand); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", RGBConverterCommandName, err))
	}
}
