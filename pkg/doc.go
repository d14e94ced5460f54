// Package pkg holds the cm2kit libraries, which turn declarative circuit
// descriptions into Circuit Maker 2 savestrings and back.
//
// # Layout
//
//  1. [geom] - vectors, rotation frames and number formatting
//  2. [circuit] - blocks, arrays, wires, buildings and module resolution
//  3. [savestring] - the savestring encoder and decoder
//  4. [generators] - parameterized flip-flop, decoder and adder modules
//  5. [manifest] - TOML and YAML manifests built into modules
//  6. [pipeline] - cached compilation shared by the CLI and the API
//  7. [cache], [store], [io] - persistence of compiled output
//  8. [api], [httputil] - the HTTP service
//  9. [render/nodelink] - Graphviz diagrams of modules
//
// # Data Flow
//
//	manifest (TOML/YAML)
//	         ↓
//	    [manifest] parse + [generators]
//	         ↓
//	    [circuit] Module (wires resolved to concrete blocks)
//	         ↓
//	    [savestring] Encode
//	         ↓
//	    "blocks?wires?buildings?"
//
// [geom]: github.com/matzehuels/cm2kit/pkg/geom
// [circuit]: github.com/matzehuels/cm2kit/pkg/circuit
// [savestring]: github.com/matzehuels/cm2kit/pkg/savestring
// [generators]: github.com/matzehuels/cm2kit/pkg/generators
// [manifest]: github.com/matzehuels/cm2kit/pkg/manifest
// [pipeline]: github.com/matzehuels/cm2kit/pkg/pipeline
// [cache]: github.com/matzehuels/cm2kit/pkg/cache
// [store]: github.com/matzehuels/cm2kit/pkg/store
// [io]: github.com/matzehuels/cm2kit/pkg/io
// [api]: github.com/matzehuels/cm2kit/pkg/api
// [httputil]: github.com/matzehuels/cm2kit/pkg/httputil
// [render/nodelink]: github.com/matzehuels/cm2kit/pkg/render/nodelink
package pkg
