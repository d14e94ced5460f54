package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cm2kit/pkg/manifest"
)

// readInput reads path, or standard input when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// manifestFormat resolves the --format flag, falling back to the file
// extension.
func manifestFormat(flag, path string) (manifest.Format, error) {
	if flag != "" {
		return manifest.ParseFormat(flag)
	}
	return manifest.FormatFromPath(path), nil
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(path string, w io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
