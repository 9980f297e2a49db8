// Package metadata reads the optional model metadata sidecar (JSON).
// Unknown fields are kept so that sidecars written by other tools survive
// a round trip through this one.
package metadata

import (
	"encoding/json"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/perimeterx/marshmallow"
)

// Metadata describes a voxel model. All fields are optional.
type Metadata struct {
	// Name of the model, normally used for display to a human
	Name string `json:"name,omitempty"`
	// Author of the model
	Author string `json:"author,omitempty"`
	// Comment to embed in formats that support one (e.g. the PLY header)
	Comment string `json:"comment,omitempty"`
	// Scale is the edge length of one voxel in model units
	Scale float64 `default:"1" validate:"gt=0" json:"scale,omitempty"`
	// Extra holds the unknown fields, preserved as-is
	Extra map[string]any `json:"-"`
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	err := defaults.Set(m)
	if err != nil {
		return err
	}

	m.Extra, err = marshmallow.Unmarshal(data, m, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	return validate.Struct(m)
}

func (m *Metadata) MarshalJSON() ([]byte, error) {
	type plain Metadata // not Metadata itself, that would recurse
	known, err := json.Marshal((*plain)(m))
	if err != nil {
		return nil, err
	}
	if len(m.Extra) == 0 {
		return known, nil
	}
	merged := make(map[string]any, len(m.Extra)+4)
	for k, v := range m.Extra {
		merged[k] = v
	}
	var knownMap map[string]any
	if err = json.Unmarshal(known, &knownMap); err != nil {
		return nil, err
	}
	for k, v := range knownMap {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Load reads and validates a metadata sidecar file.
func Load(path string) (Metadata, error) {
	var m Metadata
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(data, &m)
	return m, err
}

// Summary is the one-line form embedded as a format comment.
func (m *Metadata) Summary() string {
	s := m.Name
	if m.Author != "" {
		if s != "" {
			s += " by " + m.Author
		} else {
			s = "by " + m.Author
		}
	}
	if m.Comment != "" {
		if s != "" {
			s += ": "
		}
		s += m.Comment
	}
	return s
}
