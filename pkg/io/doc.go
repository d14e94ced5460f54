// Package io reads and writes circuits on disk and over streams.
//
// # Savestrings
//
// [WriteSavestring] and [ExportSavestring] encode a module with package
// savestring; [ReadSavestring] and [ImportSavestring] decode one, trimming
// surrounding whitespace so files edited by hand still load. Decoded blocks
// get fresh names because the savestring does not carry any.
//
// # JSON
//
// [WriteJSON] dumps the resolved graph with every block's name and the
// index it receives in the savestring:
//
//	{
//	  "name": "main",
//	  "blocks": [
//	    {"index": 1, "name": "input", "kind": "NODE", "pos": [0, 0, 0]},
//	    {"index": 2, "name": "output", "kind": "NODE", "pos": [0, 0, -1]}
//	  ],
//	  "wires": [
//	    {"src": "input", "dst": "output", "src_index": 1, "dst_index": 2}
//	  ]
//	}
//
// Unlike a savestring the dump keeps names, so [ReadJSON] rebuilds an
// equivalent module: encoding the original and the re-imported module gives
// the same savestring.
package io
