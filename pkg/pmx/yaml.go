package pmx

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLParser reads models from YAML dumps of already-tokenized PMX/PMD data.
// Dumps are stored in the source (left-handed) convention, and the format
// comes from the dump's metadata rather than ParseOptions.Format.
type YAMLParser struct{}

var _ Parser = YAMLParser{}

// Parse decodes a YAML model dump.
func (YAMLParser) Parse(data []byte, opts ParseOptions) (*Model, error) {
	if !opts.KeepSourceAxes {
		return nil, fmt.Errorf("yaml dump: right-handed output: %w", ErrUnsupportedFormat)
	}
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("yaml dump: %w", err)
	}
	return &m, nil
}

// EncodeYAML writes a model as a YAML dump readable by YAMLParser.
func EncodeYAML(m *Model) ([]byte, error) {
	return yaml.Marshal(m)
}

// UnmarshalYAML defaults absent texture and toon references to NoIndex.
func (m *Material) UnmarshalYAML(value *yaml.Node) error {
	type plain Material
	p := plain{TextureIndex: NoIndex, SphereIndex: NoIndex, ToonIndex: NoIndex}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*m = Material(p)
	return nil
}

// UnmarshalYAML defaults an absent parent to NoIndex.
func (b *Bone) UnmarshalYAML(value *yaml.Node) error {
	type plain Bone
	p := plain{ParentIndex: NoIndex}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*b = Bone(p)
	return nil
}

// UnmarshalYAML accepts either the encoding name ("BDEF2") or its number.
func (s *SkinType) UnmarshalYAML(value *yaml.Node) error {
	for i, name := range skinTypeNames {
		if strings.EqualFold(value.Value, name) {
			*s = SkinType(i)
			return nil
		}
	}
	var n uint8
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("skin type %q: %w", value.Value, ErrUnknownSkinType)
	}
	*s = SkinType(n)
	return nil
}

// MarshalYAML writes the encoding name.
func (s SkinType) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML accepts "PMX" or "PMD".
func (f *Format) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToUpper(value.Value) {
	case "PMX", "":
		*f = FormatPMX
	case "PMD":
		*f = FormatPMD
	default:
		return fmt.Errorf("format %q: %w", value.Value, ErrUnsupportedFormat)
	}
	return nil
}

// MarshalYAML writes the format name.
func (f Format) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}
