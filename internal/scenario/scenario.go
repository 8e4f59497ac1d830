// Package scenario loads qcalc scenario files and evaluates their steps.
//
// A scenario declares extra frames and an ordered list of steps. Files are
// YAML or TOML, chosen by extension:
//
//	name: pass over Turin
//	time: "2024-03-01T12:00:00Z"
//	frames:
//	  - name: turin
//	    type: topocentric
//	    latitude: 45.07 deg
//	    longitude: 7.69 deg
//	    altitude: 240 m
//	steps:
//	  - op: convert
//	    from: ECI
//	    to: turin
//	    pos: 6778,0,0 km
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a scenario file encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// Frame types accepted in FrameSpec.Type.
const (
	FrameTopocentric = "topocentric"
	FrameFixed       = "fixed"
	FrameSpherical   = "spherical"
)

// File is a decoded scenario.
type File struct {
	Name   string      `yaml:"name" toml:"name"`
	Time   string      `yaml:"time" toml:"time"` // RFC 3339, default for steps without one
	Frames []FrameSpec `yaml:"frames" toml:"frames"`
	Steps  []Step      `yaml:"steps" toml:"steps"`
}

// FrameSpec declares a frame. Scalar fields use the "<number> <unit>" form
// and vector fields the "x,y,z <unit>" form.
type FrameSpec struct {
	Name string `yaml:"name" toml:"name"`
	Type string `yaml:"type" toml:"type"`

	// topocentric
	Latitude  string `yaml:"latitude" toml:"latitude"`
	Longitude string `yaml:"longitude" toml:"longitude"`
	Altitude  string `yaml:"altitude" toml:"altitude"`

	// fixed: origin in ECR and either rows or axis+angle
	Origin string      `yaml:"origin" toml:"origin"`
	Rows   [][]float64 `yaml:"rows" toml:"rows"`
	Axis   string      `yaml:"axis" toml:"axis"`
	Angle  string      `yaml:"angle" toml:"angle"`

	// spherical
	Base string `yaml:"base" toml:"base"`
}

// Step is one evaluation. Which fields apply depends on Op.
type Step struct {
	Name string   `yaml:"name" toml:"name"`
	Op   string   `yaml:"op" toml:"op"`
	Args []string `yaml:"args" toml:"args"`
	Unit string   `yaml:"unit" toml:"unit"`
	CCW  bool     `yaml:"ccw" toml:"ccw"`

	From string `yaml:"from" toml:"from"`
	To   string `yaml:"to" toml:"to"`
	Time string `yaml:"time" toml:"time"`
	Pos  string `yaml:"pos" toml:"pos"`
	Vel  string `yaml:"vel" toml:"vel"`
	Acc  string `yaml:"acc" toml:"acc"`
}

// Label names the step in reports: its name, or its op and index.
func (s Step) Label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("%s#%d", s.Op, i+1)
}

// ErrInvalid is returned for scenarios that decode but do not validate.
var ErrInvalid = errors.New("invalid scenario")

// DetectFormat determines the format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatUnknown
	}
}

// Load reads and validates the scenario at path.
func Load(path string) (*File, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("scenario %s: unsupported extension %q", path, filepath.Ext(path))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	f, err := Parse(content, format)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(content []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(content), &f)
		if err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("TOML parse error: unknown key %s", undecoded[0])
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the structure of f. Quantities are parsed later, when the
// scenario is evaluated.
func (f *File) Validate() error {
	seen := make(map[string]bool, len(f.Frames))
	for i, fr := range f.Frames {
		if fr.Name == "" {
			return fmt.Errorf("%w: frame %d has no name", ErrInvalid, i+1)
		}
		if seen[fr.Name] {
			return fmt.Errorf("%w: frame %s declared twice", ErrInvalid, fr.Name)
		}
		seen[fr.Name] = true
		switch fr.Type {
		case FrameTopocentric:
			if fr.Latitude == "" || fr.Longitude == "" {
				return fmt.Errorf("%w: frame %s needs latitude and longitude", ErrInvalid, fr.Name)
			}
		case FrameFixed:
			if len(fr.Rows) > 0 && fr.Axis != "" {
				return fmt.Errorf("%w: frame %s sets both rows and axis", ErrInvalid, fr.Name)
			}
			if len(fr.Rows) > 0 && !square3(fr.Rows) {
				return fmt.Errorf("%w: frame %s rows must be 3x3", ErrInvalid, fr.Name)
			}
			if (fr.Axis == "") != (fr.Angle == "") {
				return fmt.Errorf("%w: frame %s needs both axis and angle", ErrInvalid, fr.Name)
			}
		case FrameSpherical:
			if fr.Base == "" {
				return fmt.Errorf("%w: frame %s needs a base", ErrInvalid, fr.Name)
			}
		default:
			return fmt.Errorf("%w: frame %s has unknown type %q", ErrInvalid, fr.Name, fr.Type)
		}
	}
	for i, s := range f.Steps {
		if _, ok := ops[s.Op]; !ok {
			return fmt.Errorf("%w: step %s has unknown op %q", ErrInvalid, s.Label(i), s.Op)
		}
	}
	return nil
}

func square3(rows [][]float64) bool {
	if len(rows) != 3 {
		return false
	}
	for _, r := range rows {
		if len(r) != 3 {
			return false
		}
	}
	return true
}
