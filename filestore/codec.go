package filestore

import (
	"fmt"

	"github.com/go-json-experiment/json"
)

// Codec translates a record's attributes to and from the bytes stored on disk.
type Codec interface {
	Encode(attributes map[string]any) ([]byte, error)
	Decode(data []byte) (map[string]any, error)
}

// JSONCodec stores attributes as a plain JSON object with sorted keys.
type JSONCodec struct{}

func (JSONCodec) Encode(attributes map[string]any) ([]byte, error) {
	return json.Marshal(attributes, json.Deterministic(true))
}

func (JSONCodec) Decode(data []byte) (map[string]any, error) {
	var attributes map[string]any
	err := json.Unmarshal(data, &attributes)
	if err != nil {
		return nil, err
	}
	if attributes == nil {
		return nil, fmt.Errorf("content is not a JSON object")
	}
	return attributes, nil
}
