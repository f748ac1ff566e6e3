package imageprocessing

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"testing"
)

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

func TestRGBConverterCommand_PassesThroughRGB(t *testing.T) {
	command, err := NewRGBConverterCommand(map[string]any{})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}

	input := encodeJPEGForTest(t, solidNRGBA(8, 8, color.NRGBA{R: 200, A: 255}))
	output, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !bytes.Equal(input, output) {
		t.Error("Expected JPEG input to be returned unchanged")
	}
}

func TestRGBConverterCommand_DropsAlpha(t *testing.T) {
	command, _ := NewRGBConverterCommand(nil)

	input := encodePNGForTest(t, solidNRGBA(4, 4, color.NRGBA{R: 100, G: 150, B: 200, A: 60}))
	output, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	img, _ := decodeForTest(t, output)
	if !IsRGB(img) {
		t.Fatalf("Expected opaque RGB image, got %T", img)
	}
	r, g, b, a := img.At(1, 1).RGBA()
	if a != 0xffff {
		t.Errorf("Expected opaque pixel, got alpha %d", a)
	}
	if r>>8 != 100 || g>>8 != 150 || b>>8 != 200 {
		t.Errorf("Expected color channels to be kept, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestRGBConverterCommand_ConvertsPaletteAndGray(t *testing.T) {
	command, _ := NewRGBConverterCommand(nil)

	gray := image.NewGray(image.Rect(0, 0, 3, 3))
	paletted := image.NewPaletted(image.Rect(0, 0, 3, 3), color.Palette{color.Black, color.White})

	inputs := map[string][]byte{
		"gray png": encodePNGForTest(t, gray),
		"gif":      encodeGIFForTest(t, paletted),
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			output, err := command.Execute(input)
			if err != nil {
				t.Fatalf("Execute error: %v", err)
			}
			img, _ := decodeForTest(t, output)
			if !IsRGB(img) {
				t.Errorf("Expected RGB output, got %T", img)
			}
		})
	}
}

func TestRGBConverterCommand_InvalidImage(t *testing.T) {
	command, _ := NewRGBConverterCommand(nil)
	if _, err := command.Execute([]byte("not a valid image")); err == nil {
		t.Error("Expected error for invalid image data, got nil")
	}
}

func TestNewDownscaleCommand_Params(t *testing.T) {
	command, err := NewDownscaleCommand(map[string]any{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := command.(*DownscaleCommand).GetMaxDimension(); got != DefaultMaxDimension {
		t.Errorf("Expected default %d, got %d", DefaultMaxDimension, got)
	}

	for _, bad := range []int{0, -5} {
		if _, err := NewDownscaleCommand(map[string]any{"maxDimension": bad}); err == nil {
			t.Errorf("Expected error for maxDimension %d", bad)
		}
	}
}

func TestDownscaleCommand_Execute(t *testing.T) {
	tests := []struct {
		name                  string
		width, height         int
		wantWidth, wantHeight int
	}{
		{name: "landscape", width: 400, height: 300, wantWidth: 200, wantHeight: 150},
		{name: "portrait", width: 100, height: 250, wantWidth: 80, wantHeight: 200},
		{name: "only height too large", width: 150, height: 201, wantWidth: 149, wantHeight: 200},
	}

	command, err := NewDownscaleCommand(map[string]any{"maxDimension": 200})
	if err != nil {
		t.Fatalf("Failed to create command: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := encodePNGForTest(t, solidNRGBA(tt.width, tt.height, color.NRGBA{G: 255, A: 255}))
			output, err := command.Execute(input)
			if err != nil {
				t.Fatalf("Execute error: %v", err)
			}
			img, _ := decodeForTest(t, output)
			if img.Bounds().Dx() != tt.wantWidth || img.Bounds().Dy() != tt.wantHeight {
				t.Errorf("Expected %dx%d, got %dx%d", tt.wantWidth, tt.wantHeight, img.Bounds().Dx(), img.Bounds().Dy())
			}
		})
	}
}

func TestDownscaleCommand_SmallImageUnchanged(t *testing.T) {
	command, _ := NewDownscaleCommand(map[string]any{"maxDimension": 200})

	input := encodePNGForTest(t, solidNRGBA(200, 200, color.NRGBA{B: 255, A: 255}))
	output, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !bytes.Equal(input, output) {
		t.Error("Expected image at the bound to be returned unchanged")
	}
}

func Test_fitWithin(t *testing.T) {
	w, h := fitWithin(4000, 3000, 2000)
	if w != 2000 || h != 1500 {
		t.Errorf("Expected 2000x1500, got %dx%d", w, h)
	}
	w, h = fitWithin(5000, 1, 2000)
	if w != 2000 || h != 1 {
		t.Errorf("Expected minimum side of 1, got %dx%d", w, h)
	}
}

func TestNewJpegEncoderCommand_Params(t *testing.T) {
	command, err := NewJpegEncoderCommand(nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := command.(*JpegEncoderCommand).GetQuality(); got != DefaultJpegQuality {
		t.Errorf("Expected default quality %d, got %d", DefaultJpegQuality, got)
	}
	for _, bad := range []int{0, 101} {
		if _, err := NewJpegEncoderCommand(map[string]any{"quality": bad}); err == nil {
			t.Errorf("Expected error for quality %d", bad)
		}
	}
}

func TestJpegEncoderCommand_Execute(t *testing.T) {
	command, _ := NewJpegEncoderCommand(nil)

	inputs := map[string][]byte{
		"png":  encodePNGForTest(t, solidNRGBA(10, 6, color.NRGBA{R: 255, A: 255})),
		"gray": encodePNGForTest(t, image.NewGray(image.Rect(0, 0, 10, 6))),
		"gif":  encodeGIFForTest(t, image.NewPaletted(image.Rect(0, 0, 10, 6), color.Palette{color.White})),
		"jpeg": encodeJPEGForTest(t, solidNRGBA(10, 6, color.NRGBA{B: 255, A: 255})),
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			output, err := command.Execute(input)
			if err != nil {
				t.Fatalf("Execute error: %v", err)
			}
			img, err := jpeg.Decode(bytes.NewReader(output))
			if err != nil {
				t.Fatalf("Expected JPEG output: %v", err)
			}
			if _, ok := img.(*image.YCbCr); !ok {
				t.Errorf("Expected 3-channel YCbCr JPEG, got %T", img)
			}
			if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 6 {
				t.Errorf("Expected dimensions to be kept, got %v", img.Bounds())
			}
		})
	}
}
