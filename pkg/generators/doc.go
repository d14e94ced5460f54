// Package generators builds reusable sub-circuits.
//
// Every generator takes a name, a bit width and a position and returns a
// fresh [circuit.Module] named after the instance. Merging the result into
// a parent prefixes everything with "{name}.", so a flip-flop called "ff1"
// exposes "ff1.input", "ff1.output" and "ff1.write":
//
//	ff, err := generators.Flipflop("ff1", 16, geom.Zero)
//	if err != nil {
//	    return err
//	}
//	err = main.Add(ff, circuit.Wire{Src: "ff1.output", Dst: "leds"})
//
// Generators are ordinary clients of package circuit. [Lookup] resolves one
// by name for manifests and the command line.
package generators
