package registry

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/aretw0/calform/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of a registry file.
type document struct {
	Fields []domain.FieldDescriptor `mapstructure:"fields"`
	Groups []domain.DependentGroup  `mapstructure:"groups"`
}

// Load reads a YAML registry document:
//
//	fields:
//	  - key: k3d_la_delta
//	    kind: flag
//	  - key: k3d_la_bedX
//	groups:
//	  - name: segments
//	    members: [k3d_la_initKFactor, k3d_la_endKFactor]
func Load(r io.Reader) (*Registry, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return New(nil)
		}
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}

	var doc document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &doc,
		ErrorUnused: true,
		DecodeHook:  kindHook,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode registry: %w", err)
	}

	return New(doc.Fields, doc.Groups...)
}

// LoadFile reads a registry document from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}
	defer f.Close()
	return Load(f)
}

var kindType = reflect.TypeOf(domain.ValueKind(""))

// kindHook normalizes textual kinds so unsupported values fail at decode time.
func kindHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != kindType || from.Kind() != reflect.String {
		return data, nil
	}
	kind, err := domain.ParseValueKind(reflect.ValueOf(data).String())
	if err != nil {
		return nil, err
	}
	return kind, nil
}
