// Package shader loads and validates the WGSL program that draws the set.
package shader

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/gogpu/naga"
)

// Source is the built-in Mandelbrot shader. Its Camera struct mirrors
// camera.State field for field.
//
//go:embed shaders/mandelbrot.wgsl
var Source string

// Entry points of every shader accepted by [Load].
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Load returns WGSL source read from path, or [Source] when path is
// empty. The source is compiled with naga first so that a broken shader
// is reported with its path instead of as a pipeline creation failure.
func Load(path string) (string, error) {
	src := Source
	name := "embedded shader"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read shader: %w", err)
		}
		src = string(b)
		name = path
	}

	if err := Validate(src); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return src, nil
}

// Validate compiles src to SPIR-V and discards the result.
func Validate(src string) error {
	spirv, err := naga.Compile(src)
	if err != nil {
		return fmt.Errorf("failed to compile shader: %w", err)
	}
	if len(spirv) == 0 {
		return fmt.Errorf("failed to compile shader: empty SPIR-V output")
	}
	return nil
}
