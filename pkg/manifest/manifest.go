package manifest

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cm2kit/pkg/errors"
)

// Format is the serialization of a manifest file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "toml", "yaml" and "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidManifest, "unknown manifest format %q", s)
}

// FormatFromPath picks the format from the file extension, defaulting to TOML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatTOML
}

// Manifest is the decoded form of a manifest file.
type Manifest struct {
	Name      string         `toml:"name" yaml:"name"`
	Modules   []ModuleSpec   `toml:"modules" yaml:"modules"`
	Blocks    []BlockSpec    `toml:"blocks" yaml:"blocks"`
	Arrays    []ArraySpec    `toml:"arrays" yaml:"arrays"`
	Buildings []BuildingSpec `toml:"buildings" yaml:"buildings"`
	Wires     []WireSpec     `toml:"wires" yaml:"wires"`
	Ports     []PortSpec     `toml:"ports" yaml:"ports"`
}

// ModuleSpec instantiates a generator.
type ModuleSpec struct {
	Generator string    `toml:"generator" yaml:"generator"`
	Name      string    `toml:"name" yaml:"name"`
	Size      int       `toml:"size" yaml:"size"`
	Pos       []float64 `toml:"pos" yaml:"pos"`
}

type BlockSpec struct {
	Name       string    `toml:"name" yaml:"name"`
	Kind       string    `toml:"kind" yaml:"kind"`
	Pos        []float64 `toml:"pos" yaml:"pos"`
	State      bool      `toml:"state" yaml:"state"`
	Properties []float64 `toml:"properties" yaml:"properties"`
}

// ArraySpec declares an array. Stepping keys left out keep their defaults:
// step (1,0,0), cluster space (1,1,1), no clustering and no wraparound.
type ArraySpec struct {
	Name       string    `toml:"name" yaml:"name"`
	Kind       string    `toml:"kind" yaml:"kind"`
	Width      int       `toml:"width" yaml:"width"`
	Pos        []float64 `toml:"pos" yaml:"pos"`
	State      bool      `toml:"state" yaml:"state"`
	Properties []float64 `toml:"properties" yaml:"properties"`

	XStep         *float64 `toml:"x_step" yaml:"x_step"`
	YStep         *float64 `toml:"y_step" yaml:"y_step"`
	ZStep         *float64 `toml:"z_step" yaml:"z_step"`
	XCluster      *int     `toml:"x_cluster" yaml:"x_cluster"`
	YCluster      *int     `toml:"y_cluster" yaml:"y_cluster"`
	ZCluster      *int     `toml:"z_cluster" yaml:"z_cluster"`
	XClusterSpace *float64 `toml:"x_cluster_space" yaml:"x_cluster_space"`
	YClusterSpace *float64 `toml:"y_cluster_space" yaml:"y_cluster_space"`
	ZClusterSpace *float64 `toml:"z_cluster_space" yaml:"z_cluster_space"`
	XCycle        *int     `toml:"x_cycle" yaml:"x_cycle"`
	YCycle        *int     `toml:"y_cycle" yaml:"y_cycle"`
	ZCycle        *int     `toml:"z_cycle" yaml:"z_cycle"`
}

// BuildingSpec places a building. LookAt orients it towards a point;
// Euler gives rotations about X, Y and Z in degrees. At most one may be set.
type BuildingSpec struct {
	Name   string    `toml:"name" yaml:"name"`
	Kind   string    `toml:"kind" yaml:"kind"`
	Pos    []float64 `toml:"pos" yaml:"pos"`
	Slots  int       `toml:"slots" yaml:"slots"`
	LookAt []float64 `toml:"look_at" yaml:"look_at"`
	Euler  []float64 `toml:"euler" yaml:"euler"`
}

type WireSpec struct {
	Src string `toml:"src" yaml:"src"`
	Dst string `toml:"dst" yaml:"dst"`
}

// PortSpec attaches a block or array to a building slot. Dir defaults to input.
type PortSpec struct {
	Block    string `toml:"block" yaml:"block"`
	Building string `toml:"building" yaml:"building"`
	Dir      string `toml:"dir" yaml:"dir"`
	Port     string `toml:"port" yaml:"port"`
	Offset   int    `toml:"offset" yaml:"offset"`
}

// Parse decodes a manifest. Keys that do not map to a field are an error.
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown manifest format %q", format)
	}
	return &m, nil
}

// Load reads and parses the manifest at path, choosing the format from the
// file extension.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, FormatFromPath(path))
}
