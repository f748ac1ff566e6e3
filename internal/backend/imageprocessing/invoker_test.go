package imageprocessing

import (
	"errors"
	"image/color"
	"image/jpeg"
	"slices"
	"testing"
)

func TestNewCommandInvokerFromConfigs_EmptyListUsesDefaults(t *testing.T) {
	invoker, err := NewCommandInvokerFromConfigs([]CommandConfig{})
	if err != nil {
		t.Fatalf("Expected no error for empty command list, got %v", err)
	}

	want := []string{RGBConverterCommandName, DownscaleCommandName, JpegEncoderCommandName}
	if got := invoker.CommandNames(); !slices.Equal(got, want) {
		t.Errorf("Expected default chain %v, got %v", want, got)
	}
}

func TestNewCommandInvokerFromConfigs_UnknownCommand(t *testing.T) {
	configs := []CommandConfig{
		{
			Name:   "UnknownCommand",
			Params: map[string]any{},
		},
	}

	if _, err := NewCommandInvokerFromConfigs(configs); err == nil {
		t.Error("Expected error for unknown command")
	}
}

func TestNewCommandInvokerFromConfigs_InvalidCommandConfig(t *testing.T) {
	configs := []CommandConfig{
		{
			Name:   JpegEncoderCommandName,
			Params: map[string]any{"quality": 0},
		},
	}

	if _, err := NewCommandInvokerFromConfigs(configs); err == nil {
		t.Error("Expected error for invalid command configuration")
	}
}

func TestCommandInvoker_EmptyCommandList(t *testing.T) {
	invoker := NewCommandInvoker([]Command{})
	testData := []byte("test data")
	result, err := invoker.Execute(testData)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if string(result) != string(testData) {
		t.Error("Expected result to match input for empty command list")
	}
}

func TestCommandInvoker_RunsInOrder(t *testing.T) {
	appendCmd := func(name, suffix string) Command {
		return &mockCommand{name: name, executeFunc: func(data []byte) ([]byte, error) {
			return append(append([]byte{}, data...), suffix...), nil
		}}
	}
	invoker := NewCommandInvoker([]Command{appendCmd("first", "1"), appendCmd("second", "2")})

	result, err := invoker.Execute([]byte("x"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(result) != "x12" {
		t.Errorf("Expected 'x12', got '%s'", result)
	}
}

func TestCommandInvoker_StopsOnError(t *testing.T) {
	failure := errors.New("boom")
	called := false
	invoker := NewCommandInvoker([]Command{
		&mockCommand{name: "failing", executeFunc: func([]byte) ([]byte, error) { return nil, failure }},
		&mockCommand{name: "after", executeFunc: func(data []byte) ([]byte, error) {
			called = true
			return data, nil
		}},
	})

	if _, err := invoker.Execute([]byte("x")); !errors.Is(err, failure) {
		t.Fatalf("Expected wrapped failure, got %v", err)
	}
	if called {
		t.Error("Expected later commands to be skipped after a failure")
	}
}

func TestNewCommandInvokerFromConfigs_DefaultChain(t *testing.T) {
	invoker, err := NewCommandInvokerFromConfigs(nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	input := encodePNGForTest(t, solidNRGBA(2400, 1200, color.NRGBA{R: 10, G: 200, B: 30, A: 128}))
	output, err := invoker.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytesReader(output))
	if err != nil {
		t.Fatalf("Expected JPEG output, got decode error: %v", err)
	}
	if cfg.Width != 2000 || cfg.Height != 1000 {
		t.Errorf("Expected 2000x1000, got %dx%d", cfg.Width, cfg.Height)
	}
	img, _ := decodeForTest(t, output)
	if !IsRGB(img) {
		t.Errorf("Expected 3-channel color output, got %T", img)
	}
}
