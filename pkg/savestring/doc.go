// Package savestring encodes a [circuit.Module] into the flat text format
// Circuit Maker 2 imports, and decodes that text back into an anonymous module.
//
// # Format
//
// A savestring has three sections, each terminated by "?":
//
//	blocks ? wires ? buildings ?
//
// Records inside a section are separated by ";", fields by ",".
//
//	block     kind,state,x,y,z,props        props is "+"-joined, may be empty
//	wire      src,dst                       1-based block indexes
//	building  kind,x,y,z,r00,...,r22,slot,...
//
// Each building slot field is a "+"-joined list of {dir}{index} tokens where
// dir is 0 for an output and 1 for an input. Positions and rotations are
// rounded to three decimal places and printed in their shortest form.
//
// # Indexes
//
// Blocks are numbered by [circuit.Module.Indexes] at encode time. The
// numbering is not stored on the module; it is recomputed on every call to
// [Encode].
//
// # Decoding
//
// Names do not survive encoding. [Decode] gives every block a fresh name and
// re-resolves wires and building slots by index, so the decoded module is a
// renamed copy of the original graph. For any string produced by [Encode],
// Encode(Decode(s)) returns s unchanged. A fourth "custom data" section,
// which the game may append, is accepted and ignored.
package savestring
