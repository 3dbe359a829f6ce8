package icon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	deployports "github.com/wdwxedit/plugdeploy/internal/core/ports/deploy"
)

// DefaultSize is the edge length of the generated PNG
const DefaultSize = 256

// ManualSteps are shown when no rasterizer could produce the PNG.
var ManualSteps = []string{
	"Open the SVG file in a browser",
	"Take a screenshot or use \"Save image as\"",
	"Save it as the PNG output path",
	"Or use an online converter such as https://cloudconvert.com/svg-to-png",
}

// ErrManualConversion is returned when every rasterizer failed
var ErrManualConversion = errors.New("automatic conversion failed, convert the icon manually")

// Rasterizer renders an icon at size x size pixels
type Rasterizer interface {
	Name() string
	Rasterize(svg []byte, size int) (image.Image, error)
}

// Request describes one conversion
type Request struct {
	Input  string
	Output string
	Size   int
}

// Result reports which rasterizer produced the output
type Result struct {
	Tier     int
	Method   string
	Output   string
	Warnings []string
}

// Converter tries each rasterizer in order until one produces a visible image
type Converter struct {
	tiers  []Rasterizer
	logger deployports.Logger
}

// NewConverter creates a converter with the SVG rasterizer first and the built-in drawing second
func NewConverter(logger deployports.Logger) *Converter {
	return NewConverterWith(logger, SVGRasterizer{}, FallbackRasterizer{})
}

// NewConverterWith creates a converter over explicit rasterizers
func NewConverterWith(logger deployports.Logger, tiers ...Rasterizer) *Converter {
	return &Converter{tiers: tiers, logger: logger}
}

// Convert writes req.Output as a PNG
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	if req.Size <= 0 {
		req.Size = DefaultSize
	}
	if req.Output == "" {
		return nil, fmt.Errorf("output path is required")
	}

	result := &Result{Output: req.Output}

	// A missing input only rules out the SVG tier; the built-in drawing needs no input.
	svg, err := os.ReadFile(req.Input)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("cannot read %s: %v", req.Input, err))
	}

	for i, tier := range c.tiers {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		img, err := tier.Rasterize(svg, req.Size)
		if err == nil && !hasVisiblePixels(img) {
			err = errors.New("rendered image is empty")
		}
		if err != nil {
			msg := fmt.Sprintf("%s conversion failed: %v", tier.Name(), err)
			result.Warnings = append(result.Warnings, msg)
			c.logger.LogWarning(msg, nil)
			continue
		}

		if err := writePNG(req.Output, img); err != nil {
			return result, err
		}

		result.Tier = i + 1
		result.Method = tier.Name()
		c.logger.LogSuccess(fmt.Sprintf("PNG created: %s", req.Output), map[string]interface{}{"method": tier.Name()})
		return result, nil
	}

	return result, fmt.Errorf("%w:\n%s", ErrManualConversion, numbered(ManualSteps))
}

func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write PNG: %w", err)
	}
	return nil
}

func hasVisiblePixels(img image.Image) bool {
	if img == nil {
		return false
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				return true
			}
		}
	}
	return false
}

func numbered(steps []string) string {
	lines := make([]string, len(steps))
	for i, s := range steps {
		lines[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}
