// Package manifest describes a circuit declaratively in TOML or YAML and
// builds it into a [circuit.Module].
//
// # Format
//
//	name = "main"
//
//	[[modules]]              # generator instances, merged first
//	generator = "flipflop"
//	name = "ff1"
//	size = 16
//
//	[[blocks]]
//	name = "write"
//	kind = "node"
//	pos = [0, 0, 1]
//
//	[[arrays]]
//	name = "bus"
//	kind = "node"
//	width = 16
//	x_cycle = 8              # wrap every 8 elements
//	y_cluster = 8            # and move up a row
//
//	[[buildings]]
//	name = "mem"
//	kind = "MassMemory"
//	pos = [0, 0, -10]
//
//	[[wires]]
//	src = "ff1.output"
//	dst = "bus"
//
//	[[ports]]
//	block = "bus"
//	building = "mem"
//	dir = "input"
//	port = "address"
//
// Sections are applied in the order modules, blocks, arrays, buildings,
// wires, ports, so wires may name anything declared in the file. Unknown
// keys are rejected.
package manifest
