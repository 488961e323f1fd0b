// Package shaders embeds the WGSL sources for the frame pipeline,
// following the teacher's go:embed-per-shader convention rather than
// loading shader files from disk at runtime.
package shaders

import (
	_ "embed"
)

//go:embed fullscreen.wgsl
var FullscreenWGSL string

//go:embed solids.wgsl
var SolidsWGSL string
