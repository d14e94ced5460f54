// Package nodelink renders circuit modules as node-link diagrams.
//
// Every concrete block becomes a box labelled with its savestring index,
// name and kind; every resolved wire becomes an arrow. Arrays can be drawn
// as clusters and buildings as extra nodes linked to their slot blocks.
//
//	dot := nodelink.ToDOT(m, nodelink.Options{Clusters: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// SVG rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process, so no external binary is needed.
package nodelink
