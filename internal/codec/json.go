package codec

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONCodec reads and writes bundles as JSON.
type JSONCodec struct{}

func (JSONCodec) Format() string { return "json" }

func (JSONCodec) Parse(r io.Reader) (*Bundle, error) {
	var wb wireBundle
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wb); err != nil {
		return nil, fmt.Errorf("parsing JSON bundle: %w", err)
	}
	return fromWire(wb)
}

func (JSONCodec) Export(bundle *Bundle, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toWire(bundle)); err != nil {
		return fmt.Errorf("writing JSON bundle: %w", err)
	}
	return nil
}
