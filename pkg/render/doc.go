// Package render holds the visual outputs for circuit modules.
//
// The [nodelink] subpackage draws modules as Graphviz diagrams:
//
//	dot := nodelink.ToDOT(m, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/cm2kit/pkg/render/nodelink
package render
