package types

import (
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/cast"
)

// DragPayloadKey is the data-transfer key the palette writes the chosen node type under.
const DragPayloadKey = "application/reactflow"

// Payload is a loosely typed map as received from the canvas.
type Payload map[string]any

func (p Payload) Get(key string) (any, bool) {
	v, exists := p[key]
	return v, exists
}

func (p Payload) GetString(key string) (string, bool) {
	v, exists := p.Get(key)
	return cast.ToString(v), exists
}

func (p Payload) GetFloat64(key string) (float64, bool) {
	v, exists := p.Get(key)
	return cast.ToFloat64(v), exists
}

func (p Payload) GetBool(key string) (bool, bool) {
	v, exists := p.Get(key)
	return cast.ToBool(v), exists
}

// GetPosition reads a {x, y} object, accepting numbers or numeric strings.
func (p Payload) GetPosition(key string) (Position, bool) {
	v, exists := p.Get(key)
	if !exists {
		return Position{}, false
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return Position{}, false
	}
	return Position{X: cast.ToFloat64(m["x"]), Y: cast.ToFloat64(m["y"])}, true
}

func (p Payload) Set(key string, value any) {
	p[key] = value
}

// NodeTypeFromPayload extracts the node type carried by a drop. A drop without
// a non-empty type string is rejected.
func NodeTypeFromPayload(p Payload) (NodeTypeName, error) {
	s, exists := p.GetString(DragPayloadKey)
	if !exists || strings.TrimSpace(s) == "" {
		return "", errors.BadRequestf("drop carries no node type")
	}
	return ParseNodeTypeName(s)
}
