package typed

import (
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Codec converts typed values to and from the bytes kept in a store.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	// Name identifies the format in logs and state snapshots.
	Name() string
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.MarshalIndent(v, "", "  ") }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return "json" }

type yamlCodec struct{}

func (yamlCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }
func (yamlCodec) Name() string                       { return "yaml" }

var (
	// JSON encodes values as indented JSON.
	JSON Codec = jsonCodec{}
	// YAML encodes values as YAML documents.
	YAML Codec = yamlCodec{}
)

// DefaultCodecs maps file extensions to codecs.
func DefaultCodecs() map[string]Codec {
	return map[string]Codec{
		".json": JSON,
		".yaml": YAML,
		".yml":  YAML,
	}
}

// CodecFor returns the codec registered for ext, falling back to JSON.
func CodecFor(ext string) Codec {
	if c, ok := DefaultCodecs()[strings.ToLower(ext)]; ok {
		return c
	}
	return JSON
}
