package io

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/savestring"
)

// ReadSavestring decodes a savestring from r. It does not close r.
func ReadSavestring(r io.Reader) (*circuit.Module, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return savestring.Decode(strings.TrimSpace(string(data)))
}

// ImportSavestring decodes the savestring stored at path.
func ImportSavestring(path string) (*circuit.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSavestring(f)
}

// WriteSavestring encodes m and writes it to w without a trailing newline.
func WriteSavestring(m *circuit.Module, w io.Writer) error {
	s, err := savestring.Encode(m)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// ExportSavestring writes the savestring of m to path.
func ExportSavestring(m *circuit.Module, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteSavestring(m, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
