package gpu

import (
	_ "embed"
	"strconv"
	"strings"

	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/sha256.wgsl
var sha256ShaderSource string

//go:embed shaders/mine.wgsl
var mineShaderSource string

// wgSizePlaceholder is the splice token the mining kernel uses in place of a
// compile-time workgroup size constant; assembleShader replaces it with the
// concrete size chosen by autotuning.
const wgSizePlaceholder = "{{wg_size}}"

// combinedShaderSource splices wgSize into the mining kernel's workgroup
// size attribute and concatenates it after the SHA-256 core, exactly as the
// original wgpu-sha256-miner crate's create_shader_with_wg_size does with
// include_str! + .replace(...).
func combinedShaderSource(wgSize uint32) string {
	mineShader := strings.ReplaceAll(mineShaderSource, wgSizePlaceholder, strconv.FormatUint(uint64(wgSize), 10))
	return sha256ShaderSource + "\n" + mineShader
}

// assembleShader concatenates the SHA-256 core with the mining kernel,
// substituting wgSizePlaceholder with wgSize, and compiles the combined WGSL
// source into a shader module.
func assembleShader(device hal.Device, wgSize uint32) (hal.ShaderModule, error) {
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "mining_shader",
		Source: hal.ShaderSource{WGSL: combinedShaderSource(wgSize)},
	})
}
