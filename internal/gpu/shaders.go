// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Embedded WGSL shader sources, one per Shading model.

//go:embed shaders/unlit.wgsl
var unlitShaderSource string

//go:embed shaders/lit.wgsl
var litShaderSource string

// ShaderSource returns the WGSL source for a shading model.
func ShaderSource(s Shading) string {
	if s == ShadingLit {
		return litShaderSource
	}
	return unlitShaderSource
}

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// createShaderModule compiles and uploads the program for one shading model.
func createShaderModule(device hal.Device, s Shading) (hal.ShaderModule, error) {
	code, err := compileSPIRV(ShaderSource(s))
	if err != nil {
		return nil, fmt.Errorf("gpu: %s shader: %w", s, err)
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "breeze-" + s.String(),
		Source: hal.ShaderSource{SPIRV: code},
	})
}
