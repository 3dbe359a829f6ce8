package icon

import (
	"fmt"
	"os"
	"path/filepath"
)

// VariantSizes are the pixel sizes written by WriteSVGVariants
var VariantSizes = []int{100, 256, 512}

const svgTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 24 24" fill="none" stroke="#5B5B5B" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round">
  <path d="M2 16s9-15 20-4C11 23 2 8 2 8"/>
</svg>
`

// VariantName returns the file name used for the given size
func VariantName(size int) string {
	return fmt.Sprintf("fish-symbol-%d.svg", size)
}

// SVG returns the icon document sized to size x size
func SVG(size int) []byte {
	return []byte(fmt.Sprintf(svgTemplate, size, size))
}

// WriteSVGVariants writes one SVG per entry of VariantSizes into dir and returns the paths
func WriteSVGVariants(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	paths := make([]string, 0, len(VariantSizes))
	for _, size := range VariantSizes {
		path := filepath.Join(dir, VariantName(size))
		if err := os.WriteFile(path, SVG(size), 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
