package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLCodec reads and writes bundles as YAML.
type YAMLCodec struct{}

func (YAMLCodec) Format() string { return "yaml" }

func (YAMLCodec) Parse(r io.Reader) (*Bundle, error) {
	var wb wireBundle
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&wb); err != nil {
		return nil, fmt.Errorf("parsing YAML bundle: %w", err)
	}
	return fromWire(wb)
}

func (YAMLCodec) Export(bundle *Bundle, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(toWire(bundle)); err != nil {
		return fmt.Errorf("writing YAML bundle: %w", err)
	}
	return nil
}

// ForFormat returns the codec for a format name.
func ForFormat(format string) (interface {
	Importer
	Exporter
}, error) {
	switch format {
	case "json":
		return JSONCodec{}, nil
	case "yaml", "yml":
		return YAMLCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
